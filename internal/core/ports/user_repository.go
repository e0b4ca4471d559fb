package ports

import (
	"context"
	"time"

	"github.com/muktihq/companion-api/internal/core/domain"
)

// UserRepository is the persistence contract for user records. The backing
// store is a row store addressed by unique username: point lookup, append
// new row, single-field update. No multi-field atomicity is guaranteed;
// callers issue sequential updates and tolerate partial application.
//
// Implementations return domain.ErrUserNotFound for missing rows,
// domain.ErrUserExists on registration collisions, and wrap any transport
// failure in domain.ErrBackendUnavailable. Corrupt stored values (dates,
// JSON blobs) decode to safe defaults rather than failing the read.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateStreak(ctx context.Context, username string, streak int, lastActive time.Time) error
	SetProfileValue(ctx context.Context, username, key, value string) error
	SaveHistory(ctx context.Context, username string, history []domain.Message) error
	SetVIP(ctx context.Context, username string) error
}
