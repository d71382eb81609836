package catalog

import (
	"errors"
	"fmt"
)

// Sentinel kinds for catalog errors. These allow errors.Is/As from callers.
var (
	ErrValidation  = errors.New("invalid assessment definition")
	ErrLoadCatalog = errors.New("load catalog failed")
)

// ValidationError describes one inconsistency found while validating a
// catalog source. It unwraps to ErrValidation.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("invalid assessment definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid assessment definition: question %s: %s", e.QuestionID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
