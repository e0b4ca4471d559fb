package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/muktihq/companion-api/internal/core/domain"
	"github.com/muktihq/companion-api/internal/core/ports"
)

// CheckinService records the once-daily check-in that advances the streak.
type CheckinService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewCheckinService(repo ports.UserRepository, log zerolog.Logger) *CheckinService {
	return &CheckinService{repo: repo, log: log, now: time.Now}
}

// CheckIn loads the record, applies the streak rule, and persists the new
// streak and last-active date. The persist is a sequence of single-field
// updates with no atomicity; a write failure is logged and the in-memory
// result stays authoritative for the session.
func (s *CheckinService) CheckIn(ctx context.Context, username string) (domain.CheckInResult, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return domain.CheckInResult{}, err
	}

	today := s.now().UTC()
	result := domain.ApplyCheckIn(user.Streak, user.LastActive, today)
	if !result.CheckedIn {
		return result, nil
	}

	if err := s.repo.UpdateStreak(ctx, username, result.Streak, domain.DateOnly(today)); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to persist check-in")
	}

	s.log.Info().
		Str("username", username).
		Int("streak", result.Streak).
		Bool("reset", result.Reset).
		Msg("check-in recorded")

	return result, nil
}
