package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrExtractionEmpty   = errors.New("extraction returned no content")
	ErrLineTooLong       = fmt.Errorf("%w: text line exceeds max chunk length", ErrInvalidInput)
	ErrNoFragments       = fmt.Errorf("%w: no audio fragments to reassemble", ErrInvalidInput)
	ErrAlreadyProcessing = errors.New("input is already being processed")
	ErrForbiddenSender   = errors.New("sender is not allowed")
)

// InvalidInput builds an input fault carrying a descriptive message.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
