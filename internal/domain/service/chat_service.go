package service

import "context"

// ChatService is the contract of the external inference endpoint behind the
// chat widget. It is an opaque request/response service; a reply that cannot
// be parsed is a handled error, never a crash.
type ChatService interface {
	// Ask forwards a prompt (with a routing tag) and returns the assistant's
	// reply text.
	Ask(ctx context.Context, prompt, tag string) (string, error)
}
