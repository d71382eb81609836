// Command opeq scores one or more response sets against a question
// catalog and prints the assessment report. It is the external surface
// of the scoring engine; all domain logic lives under internal/.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	app "github.com/isosalus/opeq/internal/app"
	"github.com/isosalus/opeq/internal/config"
	"github.com/isosalus/opeq/internal/domain/model"
	"github.com/isosalus/opeq/pkg/logger"
	"github.com/isosalus/opeq/pkg/metrics"
)

// Metrics server timeout constants.
const (
	metricsReadHeaderTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("opeq: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	catalogPath := flag.String("catalog", "", "path to the YAML question catalog")
	responsesPath := flag.String("responses", "", "path to the YAML response set")
	org := flag.String("org", "Organization", "organization name on the report")
	cap := flag.Int("cap", 0, "maximum recommendations on the report (0 = configured default)")
	asJSON := flag.Bool("json", false, "emit the report as JSON instead of text")
	logLevel := flag.String("log-level", "", "log verbosity: debug, info, warn, error")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.Parse()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env), then let
	// flags win over everything.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if *cap > 0 {
		cfg.RecommendationCap = *cap
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log-level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.CatalogPath == "" {
		return fmt.Errorf("no catalog given; use -catalog or OPEQ_CATALOG_PATH")
	}
	if *responsesPath == "" {
		return fmt.Errorf("no response set given; use -responses")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalogPath(cfg.CatalogPath),
		app.WithRecommendationCap(cfg.RecommendationCap),
		app.WithWorkerCount(cfg.WorkerCount),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}

	responses, err := loadResponses(*responsesPath)
	if err != nil {
		return err
	}

	rep, err := svc.Assess(ctx, *org, responses)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	renderText(os.Stdout, svc.Metadata(), rep)
	return nil
}

// loadResponses reads a question id -> selected option mapping from a
// YAML file. Absent question ids mean "unanswered".
func loadResponses(path string) (model.ResponseSet, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	var raw map[string]string
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	return model.ResponseSet(raw), nil
}

func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server failed", logger.Error(err))
	}
}
