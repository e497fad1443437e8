package interfaces

import "context"

// ISequenceRepository hands out per-prefix, per-month document sequence
// values. Next must be atomic across concurrent callers and start at 1.
type ISequenceRepository interface {
	Next(ctx context.Context, prefix string, year, month int) (int, error)
}
