package llm

import (
	"context"
	"fmt"

	"github.com/muktihq/companion-api/internal/core/ports"
)

// SelectModel queries the backend once and picks the first identifier from
// the ordered preference list that the backend actually serves. If nothing
// on the list matches, any available model is taken; if the backend serves
// nothing at all, an error is returned and the caller must refuse to start
// serving chat.
func SelectModel(ctx context.Context, client ports.CompletionClient, preferred []string) (string, error) {
	available, err := client.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("select model: %w", err)
	}
	if len(available) == 0 {
		return "", fmt.Errorf("select model: backend serves no models")
	}

	serving := make(map[string]bool, len(available))
	for _, id := range available {
		serving[id] = true
	}
	for _, id := range preferred {
		if serving[id] {
			return id, nil
		}
	}
	return available[0], nil
}
