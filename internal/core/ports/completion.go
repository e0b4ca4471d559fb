package ports

import "context"

// CompletionClient is the external text-generation capability. It is
// consumed as an opaque synchronous request/response service; no streaming.
type CompletionClient interface {
	// ListModels returns the identifiers the backend can serve with.
	ListModels(ctx context.Context) ([]string, error)
	// Generate produces a completion for the prompt using the given model.
	Generate(ctx context.Context, model, prompt string) (string, error)
}
