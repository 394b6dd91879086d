package core

import "context"

// Generator is the capability interface over the local model server.
// Generate sends a prompt to the named model and returns the generated
// text together with the total token count reported by the server.
// Implementations bound the call with their own wall-clock timeout.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (text string, tokens int, err error)

	// Heartbeat reports whether the model server answers at all.
	Heartbeat(ctx context.Context) error
}
