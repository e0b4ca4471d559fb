package ports

import (
	"context"
	"time"
)

// UsageCounter tracks accepted model-backed turns per user per calendar
// day. Backed by Redis in production; a nil counter makes callers fall
// back to counting user turns in the loaded history window.
type UsageCounter interface {
	Increment(ctx context.Context, username string, day time.Time) error
	Count(ctx context.Context, username string, day time.Time) (int, error)
}
