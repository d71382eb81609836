// Package batch fans scoring runs out over worker goroutines. The
// definition is shared read-only, every run produces an independent
// report, and no coordination beyond the result slice is needed.
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/isosalus/opeq/internal/domain/model"
	"github.com/isosalus/opeq/pkg/logger"
)

// Job is one respondent's scoring request.
type Job struct {
	Name      string
	Responses model.ResponseSet
}

// Result pairs a job with its report or failure. One failed response
// set never fails the others.
type Result struct {
	Name   string
	Report model.Report
	Err    error
}

// AssessFunc scores one job into a report.
type AssessFunc func(ctx context.Context, job Job) (model.Report, error)

// Runner executes jobs concurrently with a bounded worker count.
type Runner struct {
	workers int
	logger  logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner with configuration options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scores every job and returns results in job order. Cancelling ctx
// stops the pickup of further jobs; jobs never started report ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job, assess AssessFunc) []Result {
	results := make([]Result, len(jobs))
	indexes := make(chan int)

	workers := r.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				rep, err := assess(ctx, job)
				results[i] = Result{Name: job.Name, Report: rep, Err: err}
				if err != nil && r.logger != nil {
					r.logger.Warn(ctx, "scoring run failed",
						logger.String("respondent", job.Name),
						logger.Error(err),
					)
				}
			}
		}()
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Name: jobs[i].Name, Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = Result{Name: jobs[i].Name, Err: ctx.Err()}
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	return results
}
