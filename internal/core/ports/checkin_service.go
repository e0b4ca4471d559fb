package ports

import (
	"context"

	"github.com/muktihq/companion-api/internal/core/domain"
)

type CheckinService interface {
	// CheckIn records today's check-in. Calling it again the same day is a
	// no-op reported via CheckedIn=false, never a double increment.
	CheckIn(ctx context.Context, username string) (domain.CheckInResult, error)
}
