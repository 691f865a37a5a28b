package usecase

import "context"

// ChatInput defines a prompt for the assistant widget.
type ChatInput struct {
	Prompt string
	Tag    string
}

// ChatUsecase defines the interface for the chat proxy.
type ChatUsecase interface {
	// Ask forwards the prompt to the inference endpoint and returns the
	// reply text. Endpoint failures come back as domain errors with
	// user-presentable messages, never as panics.
	Ask(ctx context.Context, input *ChatInput) (string, error)
}
