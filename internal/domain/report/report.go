// Package report composes the final structured result consumed by
// external renderers. Assembly is pure composition; no scoring logic
// lives here.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/isosalus/opeq/internal/domain/model"
)

// Assembler builds reports from pipeline output.
type Assembler struct {
	clock func() time.Time
	newID func() string
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithClock sets the timestamp source, mainly for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(a *Assembler) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithIDSource sets the report id source, mainly for deterministic tests.
func WithIDSource(newID func() string) Option {
	return func(a *Assembler) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// NewAssembler creates an assembler with configuration options.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble composes the report for one scoring run. It computes no new
// domain values; everything but the id and timestamp comes from the
// pipeline inputs unchanged.
func (a *Assembler) Assemble(organization string, assessment model.OverallAssessment, priorityCategory string, recommendations []model.Recommendation) model.Report {
	return model.Report{
		ID:               a.newID(),
		Organization:     organization,
		GeneratedAt:      a.clock(),
		Assessment:       assessment,
		PriorityCategory: priorityCategory,
		Recommendations:  recommendations,
	}
}
