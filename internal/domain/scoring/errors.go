package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors. These allow errors.Is/As from callers.
var (
	ErrInvalidResponse = errors.New("invalid response")
)

// InvalidResponseError reports an answer value outside the question's
// declared option set. The run fails rather than masking a data-entry
// error as low maturity. It unwraps to ErrInvalidResponse.
type InvalidResponseError struct {
	QuestionID string
	Value      string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response %q for question %s", e.Value, e.QuestionID)
}

func (e *InvalidResponseError) Unwrap() error {
	return ErrInvalidResponse
}
