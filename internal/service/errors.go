package service

import (
	"fmt"
	"strings"
)

// MissingFieldsError reports every required field absent from a request,
// not just the first one found.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidIDsError reports every identifier field that is not a
// well-formed ObjectID hex string.
type InvalidIDsError struct {
	Fields []string
}

func (e *InvalidIDsError) Error() string {
	return fmt.Sprintf("invalid ID format: %s", strings.Join(e.Fields, ", "))
}

// CancellationWindowError rejects a cancellation inside the cutoff
// window, carrying how many hours actually remain.
type CancellationWindowError struct {
	HoursRemaining float64
	CutoffHours    float64
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("cannot cancel workout within %g hours of start time (%.2f hours remaining)",
		e.CutoffHours, e.HoursRemaining)
}
