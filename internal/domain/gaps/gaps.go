// Package gaps ranks shortfalls within the weakest-scoring category to
// select the priority focus for remediation.
package gaps

import (
	"sort"

	"github.com/isosalus/opeq/internal/domain/model"
)

// Analyzer selects the priority focus category and orders its gaps.
type Analyzer struct{}

// NewAnalyzer creates a gap analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze picks the lowest-scoring category as the priority focus and
// returns every question there scoring below its own maximum, worst
// first. Ties between categories and between equally scored questions
// resolve by declaration order, so results are deterministic.
func (a *Analyzer) Analyze(def *model.AssessmentDefinition, assessment model.OverallAssessment) (string, []model.Gap, error) {
	if len(assessment.Categories) == 0 {
		return "", nil, ErrEmptyAssessment
	}

	priority := assessment.Categories[0]
	for _, cs := range assessment.Categories[1:] {
		if cs.Percentage < priority.Percentage {
			priority = cs
		}
	}

	var out []model.Gap
	for _, qs := range assessment.Scorecard {
		if qs.Category != priority.Category || qs.Points >= qs.MaxPoints {
			continue
		}
		q, ok := def.QuestionByID(qs.QuestionID)
		if !ok {
			return "", nil, &UnknownQuestionError{QuestionID: qs.QuestionID}
		}
		out = append(out, model.Gap{
			QuestionID:  qs.QuestionID,
			Category:    qs.Category,
			Prompt:      q.Prompt,
			Points:      qs.Points,
			MaxPoints:   qs.MaxPoints,
			Shortfall:   shortfall(qs.Points, qs.MaxPoints),
			Remediation: q.Remediation,
			Rationale:   q.Rationale,
		})
	}

	// Stable sort keeps declaration order for equal point totals.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points < out[j].Points
	})

	return priority.Category, out, nil
}

func shortfall(points, max int) float64 {
	if max <= 0 {
		return 0
	}
	return 1 - float64(points)/float64(max)
}
