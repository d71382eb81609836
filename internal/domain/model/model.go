// Package model contains domain models passed between layers.
package model

import "time"

// QuestionType identifies how a question's options map to points.
// The set is closed; catalog validation rejects anything else.
type QuestionType string

// Recognized question types.
const (
	TypeBinary         QuestionType = "binary"
	TypeScale          QuestionType = "scale"
	TypePercentage     QuestionType = "percentage"
	TypeMultipleChoice QuestionType = "multiple_choice"
)

// Valid reports whether t is one of the recognized question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeBinary, TypeScale, TypePercentage, TypeMultipleChoice:
		return true
	default:
		return false
	}
}

// Question is a single catalog entry with its scoring rules.
// Options are ordered as authored; Scoring maps an option to its point
// value. An option absent from Scoring is worth zero points.
type Question struct {
	ID          string
	Category    string
	Type        QuestionType
	Prompt      string
	Options     []string
	Scoring     map[string]int
	Remediation string
	Rationale   string
}

// MaxPoints returns the highest point value attainable on this question.
func (q Question) MaxPoints() int {
	max := 0
	for _, pts := range q.Scoring {
		if pts > max {
			max = pts
		}
	}
	return max
}

// HasOption reports whether name is one of the question's declared options.
func (q Question) HasOption(name string) bool {
	for _, opt := range q.Options {
		if opt == name {
			return true
		}
	}
	return false
}

// AssessmentDefinition is the immutable, ordered catalog of all questions.
// It is built once by the catalog loader and shared read-only across any
// number of concurrent scoring runs; nothing mutates it after construction.
type AssessmentDefinition struct {
	questions   []Question
	categories  []string
	byCategory  map[string][]int
	byID        map[string]int
	categoryMax int
}

// NewDefinition builds a definition from questions in declaration order.
// Category order is the order of first appearance. The input is assumed
// to have passed catalog validation; NewDefinition only indexes it.
func NewDefinition(questions []Question) *AssessmentDefinition {
	d := &AssessmentDefinition{
		questions:  make([]Question, len(questions)),
		byCategory: make(map[string][]int),
		byID:       make(map[string]int),
	}
	copy(d.questions, questions)

	for i, q := range d.questions {
		if _, seen := d.byCategory[q.Category]; !seen {
			d.categories = append(d.categories, q.Category)
		}
		d.byCategory[q.Category] = append(d.byCategory[q.Category], i)
		d.byID[q.ID] = i
	}

	if len(d.categories) > 0 {
		for _, i := range d.byCategory[d.categories[0]] {
			d.categoryMax += d.questions[i].MaxPoints()
		}
	}

	return d
}

// Categories returns the category names in declaration order.
func (d *AssessmentDefinition) Categories() []string {
	out := make([]string, len(d.categories))
	copy(out, d.categories)
	return out
}

// Questions returns all questions in declaration order.
func (d *AssessmentDefinition) Questions() []Question {
	out := make([]Question, len(d.questions))
	copy(out, d.questions)
	return out
}

// QuestionsIn returns the questions of one category in declaration order.
func (d *AssessmentDefinition) QuestionsIn(category string) []Question {
	idx := d.byCategory[category]
	out := make([]Question, len(idx))
	for i, j := range idx {
		out[i] = d.questions[j]
	}
	return out
}

// QuestionByID looks up a question by its identifier.
func (d *AssessmentDefinition) QuestionByID(id string) (Question, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Question{}, false
	}
	return d.questions[i], true
}

// CategoryMax returns the maximum attainable points per category.
// All categories share the same maximum; catalog validation enforces it.
func (d *AssessmentDefinition) CategoryMax() int {
	return d.categoryMax
}

// Len returns the total number of questions.
func (d *AssessmentDefinition) Len() int {
	return len(d.questions)
}

// ResponseSet maps question identifiers to the selected option for one
// respondent. A missing key means the question was not answered, which
// scores zero points; that is a policy, not an error.
type ResponseSet map[string]string

// Answer returns the selected option for a question id, if any.
func (r ResponseSet) Answer(id string) (string, bool) {
	v, ok := r[id]
	return v, ok
}

// QuestionScore is the per-question outcome of one scoring run.
type QuestionScore struct {
	QuestionID string `json:"question_id"`
	Category   string `json:"category"`
	Points     int    `json:"points_earned"`
	MaxPoints  int    `json:"max_points"`
	Answered   bool   `json:"answered"`
}

// CategoryScore aggregates one category's outcome.
type CategoryScore struct {
	Category       string  `json:"category"`
	Points         int     `json:"points_earned"`
	MaxPoints      int     `json:"max_points"`
	Percentage     float64 `json:"percentage"`
	Interpretation string  `json:"interpretation"`
}

// OverallAssessment is the complete, derived outcome of scoring one
// response set against a definition. Categories and Scorecard follow
// the definition's declaration order, so identical inputs always yield
// an identical assessment.
type OverallAssessment struct {
	Categories     []CategoryScore `json:"categories"`
	Scorecard      []QuestionScore `json:"scorecard"`
	Percentage     float64         `json:"overall_percentage"`
	Interpretation string          `json:"interpretation"`
}

// Gap is a question scoring below its attainable maximum within the
// priority focus category. Produced and consumed within one run.
type Gap struct {
	QuestionID  string  `json:"question_id"`
	Category    string  `json:"category"`
	Prompt      string  `json:"question"`
	Points      int     `json:"points_earned"`
	MaxPoints   int     `json:"max_points"`
	Shortfall   float64 `json:"shortfall"`
	Remediation string  `json:"remediation"`
	Rationale   string  `json:"rationale,omitempty"`
}

// Recommendation wraps one gap's authored remediation action.
type Recommendation struct {
	Rank       int    `json:"rank"`
	QuestionID string `json:"question_id"`
	Points     int    `json:"points_earned"`
	MaxPoints  int    `json:"max_points"`
	Action     string `json:"action"`
}

// Report is the final structured result consumed by external renderers.
type Report struct {
	ID               string            `json:"id"`
	Organization     string            `json:"organization"`
	GeneratedAt      time.Time         `json:"generated_at"`
	Assessment       OverallAssessment `json:"assessment"`
	PriorityCategory string            `json:"priority_category"`
	Recommendations  []Recommendation  `json:"recommendations"`
}
