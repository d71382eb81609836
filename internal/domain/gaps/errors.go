package gaps

import (
	"errors"
	"fmt"
)

// Sentinel kinds for gap analysis errors.
var (
	ErrEmptyAssessment = errors.New("assessment has no categories")
	ErrUnknownQuestion = errors.New("unknown question")
)

// UnknownQuestionError reports a scorecard entry whose question id is
// not in the definition; it indicates a mismatched definition and
// assessment. It unwraps to ErrUnknownQuestion.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question %s in scorecard", e.QuestionID)
}

func (e *UnknownQuestionError) Unwrap() error {
	return ErrUnknownQuestion
}
