package ports

import "context"

// SessionSnapshot is the derived, transient view of a user's session:
// record fields plus onboarding position and the current lock state.
type SessionSnapshot struct {
	Username       string `json:"username"`
	Streak         int    `json:"streak"`
	LastActive     string `json:"last_active"`
	RegisteredAt   string `json:"registered_at"`
	VIP            bool   `json:"vip"`
	OnboardingStep int    `json:"onboarding_step"`
	OnboardingDone bool   `json:"onboarding_done"`
	NextQuestion   string `json:"next_question,omitempty"`
	MessagesUsed   int    `json:"messages_used"`
	DailyLimit     int    `json:"daily_limit"`
	Remaining      int    `json:"remaining"`
	Locked         bool   `json:"locked"`
	HistoryLoaded  int    `json:"history_loaded"`
}

type SessionService interface {
	Snapshot(ctx context.Context, username string) (*SessionSnapshot, error)
}
