// Package ledger holds the document rules shared by estimates, invoices,
// jobs and leads: line-item arithmetic, status state machines, document
// numbering and conversions between document types.
//
// Every function here is pure. Nothing is persisted, logged or retried;
// callers apply the returned values.
package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLineItem    = errors.New("invalid line item")
	ErrInvalidTaxRate     = errors.New("invalid tax rate")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNumberOverflow     = errors.New("document number sequence exhausted")
	ErrInvalidNumberInput = errors.New("invalid document number input")
	ErrInvalidSourceState = errors.New("conversion source in invalid state")
	ErrEmptyGroup         = errors.New("conversion group has no eligible documents")
)

// LineItemError names the offending line item and field.
type LineItemError struct {
	Index int
	Field string
	Value float64
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("%s: item %d %s=%v", ErrInvalidLineItem, e.Index, e.Field, e.Value)
}

func (e *LineItemError) Unwrap() error { return ErrInvalidLineItem }

// TransitionError is returned by every state machine when the requested
// status is not reachable from the current one.
type TransitionError struct {
	Document string
	From     string
	To       string
	Reason   string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("invalid %s status transition %s -> %s", e.Document, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// SourceStateError is returned when a conversion source is not in the
// status the conversion requires, or is missing data the target needs.
type SourceStateError struct {
	Conversion string
	Status     string
	Required   string
	Reason     string
}

func (e *SourceStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Conversion, e.Reason)
	}
	return fmt.Sprintf("%s requires status %s, got %s", e.Conversion, e.Required, e.Status)
}

func (e *SourceStateError) Unwrap() error { return ErrInvalidSourceState }

// GroupError reports a batch group that produced no document.
type GroupError struct {
	CustomerID string
	Err        error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("customer %q: %v", e.CustomerID, e.Err)
}

func (e *GroupError) Unwrap() error { return e.Err }
