package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/muktihq/companion-api/internal/core/domain"
	"github.com/muktihq/companion-api/internal/core/ports"
)

// SessionService derives the transient per-client session view from the
// persisted record: onboarding position, lock state, remaining budget.
type SessionService struct {
	repo    ports.UserRepository
	limiter limiter
	log     zerolog.Logger
	now     func() time.Time
}

func NewSessionService(repo ports.UserRepository, usage ports.UsageCounter, limits LimitConfig, log zerolog.Logger) *SessionService {
	return &SessionService{
		repo:    repo,
		limiter: limiter{usage: usage, cfg: limits, log: log},
		log:     log,
		now:     time.Now,
	}
}

func (s *SessionService) Snapshot(ctx context.Context, username string) (*ports.SessionSnapshot, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC()
	pos, done := domain.OnboardingPosition(user.Profile)
	used := s.limiter.messagesUsed(ctx, user, today)
	limit := s.limiter.limitFor(user, today)

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	snap := &ports.SessionSnapshot{
		Username:       user.Username,
		Streak:         user.Streak,
		LastActive:     domain.DateOnly(user.LastActive).Format(time.DateOnly),
		RegisteredAt:   domain.DateOnly(user.RegisteredAt).Format(time.DateOnly),
		VIP:            user.VIP,
		OnboardingStep: pos,
		OnboardingDone: done,
		MessagesUsed:   used,
		DailyLimit:     limit,
		Locked:         !user.VIP && used >= limit,
		Remaining:      remaining,
		HistoryLoaded:  len(user.History),
	}
	if !done {
		snap.NextQuestion = domain.OnboardingScript[pos].Question
	}
	return snap, nil
}
