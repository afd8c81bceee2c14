package cart

import "context"

// Repository holds the session-scoped cart. Implementations must treat
// corrupted stored content as an empty cart and discard it, never
// propagate a parse failure.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Clear(ctx context.Context, sessionID string) error
}
