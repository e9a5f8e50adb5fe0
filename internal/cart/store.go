package cart

import (
	"context"

	"agrilink/internal/models"
)

// Store persists cart lines per owner (a signed-in user or a guest session).
// SaveLine upserts by line id.
type Store interface {
	LoadLines(ctx context.Context, owner string) ([]models.CartLine, error)
	SaveLine(ctx context.Context, owner string, line models.CartLine) error
	DeleteLine(ctx context.Context, owner, lineID string) error
	ClearLines(ctx context.Context, owner string) error
}
