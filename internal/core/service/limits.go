package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/muktihq/companion-api/internal/core/domain"
	"github.com/muktihq/companion-api/internal/core/ports"
)

// LimitConfig is the daily rate-limit tier pair. Users registered today get
// the higher new-user allowance; everyone else the returning allowance.
type LimitConfig struct {
	LimitNew       int
	LimitReturning int
}

// limiter computes the daily message budget shared by the chat and session
// services. The usage counter may be nil, in which case consumption is
// approximated by counting user turns in the loaded history window.
type limiter struct {
	usage ports.UsageCounter
	cfg   LimitConfig
	log   zerolog.Logger
}

func (l limiter) limitFor(user *domain.User, today time.Time) int {
	if domain.DateOnly(user.RegisteredAt).Equal(domain.DateOnly(today)) {
		return l.cfg.LimitNew
	}
	return l.cfg.LimitReturning
}

func (l limiter) messagesUsed(ctx context.Context, user *domain.User, today time.Time) int {
	if l.usage != nil {
		n, err := l.usage.Count(ctx, user.Username, today)
		if err == nil {
			return n
		}
		l.log.Warn().Err(err).Str("username", user.Username).Msg("usage counter unavailable, falling back to history count")
	}
	return domain.UserTurns(user.History)
}

func (l limiter) isLocked(ctx context.Context, user *domain.User, today time.Time) bool {
	if user.VIP {
		return false
	}
	return l.messagesUsed(ctx, user, today) >= l.limitFor(user, today)
}
