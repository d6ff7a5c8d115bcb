package sap_calc

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the calculation wraps exactly one of them.
var (
	// ErrInput: unknown or invalid configuration codes and values.
	ErrInput = errors.New("input error")

	// ErrCalculation: degenerate math the standard does not define, or missing table data.
	ErrCalculation = errors.New("calculation error")

	// ErrAssertion: internal consistency checks (fractions, CHP count, dispatch totality).
	ErrAssertion = errors.New("assertion failed")
)

// ErrPSROutOfRange is returned when a plant size ratio falls outside a performance dataset.
var ErrPSROutOfRange = fmt.Errorf("%w: rating out of range", ErrInput)

func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}

func calculationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCalculation, fmt.Sprintf(format, args...))
}

func assertionErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}

// StageError reports which resolver stage or calculation step failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrorClass names the class of err: "input", "calculation", "assertion" or "other".
// It is empty for a nil error.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrCalculation):
		return "calculation"
	case errors.Is(err, ErrAssertion):
		return "assertion"
	default:
		return "other"
	}
}
