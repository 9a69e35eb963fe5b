package intelligence

import "context"

// TextGenerator is the only capability the procurement agents need from an
// AI model. Keeping the surface to a single method means tests inject a
// canned implementation and the agents stay independent of any vendor SDK.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
