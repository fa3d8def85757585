package ai

import "context"

// Client is the language model behind the analyzer service.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
