// Package app provides the core assessment service that wires the
// scoring pipeline: catalog -> scoring -> gap analysis ->
// recommendations -> report assembly.
package app

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/isosalus/opeq/internal/batch"
	"github.com/isosalus/opeq/internal/domain/catalog"
	"github.com/isosalus/opeq/internal/domain/gaps"
	"github.com/isosalus/opeq/internal/domain/model"
	"github.com/isosalus/opeq/internal/domain/recommend"
	"github.com/isosalus/opeq/internal/domain/report"
	"github.com/isosalus/opeq/internal/domain/scoring"
	"github.com/isosalus/opeq/pkg/logger"
	"github.com/isosalus/opeq/pkg/metrics"
)

// Service implements assessment scoring for any number of respondents
// against one immutable catalog.
type Service struct {
	mu sync.RWMutex

	// Core components
	definition  *model.AssessmentDefinition
	meta        catalog.Metadata
	engine      scoring.Engine
	analyzer    *gaps.Analyzer
	recommender *recommend.Generator
	assembler   *report.Assembler
	runner      *batch.Runner

	// Configuration
	catalogPath       string
	recommendationCap int
	workerCount       int
	reportOpts        []report.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalogPath sets the YAML catalog source loaded at Start.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.catalogPath = path
		}
	}
}

// WithRecommendationCap bounds the remediation list per report.
func WithRecommendationCap(cap int) Option {
	return func(s *Service) {
		if cap > 0 {
			s.recommendationCap = cap
		}
	}
}

// WithWorkerCount sets the number of concurrent batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReportOptions forwards options to the report assembler, mainly
// for deterministic ids and timestamps in tests.
func WithReportOptions(opts ...report.Option) Option {
	return func(s *Service) {
		s.reportOpts = append(s.reportOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		recommendationCap: 5,
		workerCount:       runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog and builds the pipeline components. The
// definition is loaded once and shared read-only by every later call.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	cat, err := catalog.Load(ctx, s.catalogPath)
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			metrics.RecordCatalogLoadFailure()
		}
		return err
	}

	s.definition = cat.Definition
	s.meta = cat.Metadata
	s.engine = scoring.NewEngine()
	s.analyzer = gaps.NewAnalyzer()
	s.recommender = recommend.NewGenerator(recommend.WithCap(s.recommendationCap))
	s.assembler = report.NewAssembler(s.reportOpts...)
	s.runner = batch.NewRunner(
		batch.WithWorkers(s.workerCount),
		batch.WithLogger(s.logger.Named("batch")),
	)

	metrics.UpdateCatalogQuestions(s.definition.Len())
	metrics.UpdateBatchWorkers(s.workerCount)

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.String("framework", s.meta.FrameworkName),
		logger.String("version", s.meta.Version),
		logger.Int("questions", s.definition.Len()),
		logger.Int("categories", len(s.definition.Categories())),
		logger.Int("categoryMax", s.definition.CategoryMax()),
	)

	return nil
}

// Definition returns the loaded assessment definition.
func (s *Service) Definition() *model.AssessmentDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.definition
}

// Metadata returns the loaded catalog metadata.
func (s *Service) Metadata() catalog.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Assess runs the full pipeline for one respondent and returns a fresh,
// independent report. It is safe to call concurrently.
func (s *Service) Assess(ctx context.Context, organization string, responses model.ResponseSet) (model.Report, error) {
	if err := s.ready(); err != nil {
		return model.Report{}, err
	}

	start := time.Now()

	assessment, err := s.engine.Score(ctx, s.definition, responses)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidResponse) {
			metrics.RecordInvalidResponse()
		}
		return model.Report{}, err
	}

	priority, gapList, err := s.analyzer.Analyze(s.definition, assessment)
	if err != nil {
		return model.Report{}, err
	}

	recs := s.recommender.Generate(gapList)
	rep := s.assembler.Assemble(organization, assessment, priority, recs)

	metrics.RecordAssessmentScored()
	metrics.RecordRecommendations(len(recs))
	metrics.RecordScoringDuration(float64(time.Since(start).Microseconds()) / 1000)

	s.logger.Debug(ctx, "scored assessment",
		logger.String("organization", organization),
		logger.Float64("overall", assessment.Percentage),
		logger.String("interpretation", assessment.Interpretation),
		logger.String("priority", priority),
		logger.Int("recommendations", len(recs)),
	)

	return rep, nil
}

// AssessBatch scores many respondents concurrently against the shared
// definition. One invalid response set fails only its own result.
func (s *Service) AssessBatch(ctx context.Context, jobs []batch.Job) ([]batch.Result, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	metrics.RecordBatchRun()

	results := s.runner.Run(ctx, jobs, func(ctx context.Context, job batch.Job) (model.Report, error) {
		return s.Assess(ctx, job.Name, job.Responses)
	})

	return results, nil
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
