package ports

import "context"

// Chat turn kinds, reported so the UI can render the reply appropriately.
const (
	TurnKindChat       = "chat"
	TurnKindOnboarding = "onboarding"
	TurnKindUnlock     = "unlock"
)

// ChatResult is the outcome of one accepted chat submission.
type ChatResult struct {
	Kind  string `json:"kind"`
	Reply string `json:"reply"`
}

type ChatService interface {
	// Submit runs one turn: unlock codes and onboarding answers are handled
	// without a model call; everything else goes to the completion backend.
	Submit(ctx context.Context, username, text string) (*ChatResult, error)
	// Unlock applies an unlock code, permanently disabling the rate limit.
	Unlock(ctx context.Context, username, code string) error
}
