package season

import (
	"context"
	"time"
)

// StateRepository stores the in-game current date.
type StateRepository interface {
	CurrentDate(ctx context.Context) (time.Time, error)
	SetCurrentDate(ctx context.Context, date time.Time) error
}

// BatchWriter applies an advancement batch atomically.
type BatchWriter interface {
	ApplyAdvancement(ctx context.Context, batch Batch) error
}

// Inbox reports when the next in-game message is delivered.
type Inbox interface {
	NextDelivery(ctx context.Context, after time.Time) (time.Time, bool, error)
}
