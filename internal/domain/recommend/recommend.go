// Package recommend turns ordered gaps into a capped, ranked list of
// remediation actions.
package recommend

import "github.com/isosalus/opeq/internal/domain/model"

// defaultCap bounds the remediation list so it stays actionable rather
// than exhaustive.
const defaultCap = 5

// Generator produces recommendations from gap analysis output.
type Generator struct {
	cap int
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithCap sets the maximum number of recommendations emitted.
func WithCap(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.cap = n
		}
	}
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{cap: defaultCap}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate wraps each gap's authored remediation action, preserving the
// incoming worst-first order. Rank is the 1-based position; at most the
// configured cap entries are emitted.
func (g *Generator) Generate(gapList []model.Gap) []model.Recommendation {
	n := len(gapList)
	if n > g.cap {
		n = g.cap
	}

	out := make([]model.Recommendation, n)
	for i := 0; i < n; i++ {
		gap := gapList[i]
		out[i] = model.Recommendation{
			Rank:       i + 1,
			QuestionID: gap.QuestionID,
			Points:     gap.Points,
			MaxPoints:  gap.MaxPoints,
			Action:     gap.Remediation,
		}
	}
	return out
}

// Cap returns the configured maximum list length.
func (g *Generator) Cap() int {
	return g.cap
}
