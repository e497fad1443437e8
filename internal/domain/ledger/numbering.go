package ledger

import (
	"fmt"
	"strings"
)

const (
	PrefixEstimate = "EST"
	PrefixInvoice  = "INV"

	maxSequence = 9999
)

// AllocateDocumentNumber formats {PREFIX}-{YY}{MM}-{seq:4}, e.g. INV-2602-0001.
//
// seq must come from a counter that is read and incremented atomically per
// (prefix, year, month); this function only formats it.
func AllocateDocumentNumber(prefix string, year, month, seq int) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%w: empty prefix", ErrInvalidNumberInput)
	}
	if year < 0 {
		return "", fmt.Errorf("%w: year %d", ErrInvalidNumberInput, year)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d", ErrInvalidNumberInput, month)
	}
	if seq < 0 || seq > maxSequence {
		return "", fmt.Errorf("%w: sequence %d outside 0..%d", ErrNumberOverflow, seq, maxSequence)
	}
	return fmt.Sprintf("%s-%02d%02d-%04d", prefix, year%100, month, seq), nil
}
