// Package scoring computes per-question points and aggregates them into
// category and overall maturity scores.
package scoring

import (
	"context"
	"math"

	"github.com/isosalus/opeq/internal/domain/model"
)

// Interpretation labels for the four maturity bands.
const (
	LabelCritical = "critical gaps"
	LabelModerate = "moderate gaps"
	LabelMinor    = "minor gaps"
	LabelBest     = "best-in-class"
)

// Band upper bounds, inclusive.
const (
	criticalUpper = 40
	moderateUpper = 60
	minorUpper    = 80
)

// Engine scores one response set against a definition.
type Engine interface {
	// Score computes a fresh assessment. It never mutates the definition
	// or the responses, so concurrent calls need no locking.
	Score(ctx context.Context, def *model.AssessmentDefinition, responses model.ResponseSet) (model.OverallAssessment, error)
}

// RubricEngine implements Engine with pure table lookups over the
// definition's scoring maps.
type RubricEngine struct{}

// NewEngine creates a rubric scoring engine.
func NewEngine() *RubricEngine {
	return &RubricEngine{}
}

// Score computes the assessment for responses against def.
//
// An unanswered question scores zero points; absence is informative, not
// an error. An answer outside the question's option set fails the whole
// run with *InvalidResponseError so data-entry mistakes are never masked
// as low maturity.
func (e *RubricEngine) Score(ctx context.Context, def *model.AssessmentDefinition, responses model.ResponseSet) (model.OverallAssessment, error) {
	if err := ctx.Err(); err != nil {
		return model.OverallAssessment{}, err
	}

	scorecard := make([]model.QuestionScore, 0, def.Len())
	categories := make([]model.CategoryScore, 0, len(def.Categories()))

	sum := 0.0
	for _, category := range def.Categories() {
		points := 0
		for _, q := range def.QuestionsIn(category) {
			pts, answered, err := questionPoints(q, responses)
			if err != nil {
				return model.OverallAssessment{}, err
			}
			points += pts
			scorecard = append(scorecard, model.QuestionScore{
				QuestionID: q.ID,
				Category:   category,
				Points:     pts,
				MaxPoints:  q.MaxPoints(),
				Answered:   answered,
			})
		}

		pct := Percentage(points, def.CategoryMax())
		categories = append(categories, model.CategoryScore{
			Category:       category,
			Points:         points,
			MaxPoints:      def.CategoryMax(),
			Percentage:     pct,
			Interpretation: Interpret(pct),
		})
		sum += pct
	}

	overall := 0.0
	if len(categories) > 0 {
		// Unweighted mean of category percentages keeps categories
		// comparable regardless of their raw point totals.
		overall = round1(sum / float64(len(categories)))
	}

	return model.OverallAssessment{
		Categories:     categories,
		Scorecard:      scorecard,
		Percentage:     overall,
		Interpretation: Interpret(overall),
	}, nil
}

// questionPoints looks up the points for one question's response.
func questionPoints(q model.Question, responses model.ResponseSet) (points int, answered bool, err error) {
	answer, ok := responses.Answer(q.ID)
	if !ok {
		return 0, false, nil
	}
	if !q.HasOption(answer) {
		return 0, false, &InvalidResponseError{QuestionID: q.ID, Value: answer}
	}
	// Options without a scoring entry are worth zero.
	return q.Scoring[answer], true, nil
}

// Percentage converts raw points into a percentage of max, rounded to
// one decimal. Points never exceed max by construction, so the result
// stays in [0,100].
func Percentage(points, max int) float64 {
	if max <= 0 {
		return 0
	}
	return round1(float64(points) / float64(max) * 100)
}

// Interpret maps a percentage onto its maturity band. The four bands
// are exhaustive and non-overlapping with inclusive upper bounds:
// exactly 40 is critical, anything above 40 up to 60 is moderate.
func Interpret(pct float64) string {
	switch {
	case pct <= criticalUpper:
		return LabelCritical
	case pct <= moderateUpper:
		return LabelModerate
	case pct <= minorUpper:
		return LabelMinor
	default:
		return LabelBest
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
