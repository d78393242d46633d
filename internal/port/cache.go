package port

import (
	"context"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// Cache stores the last published book per market so reconnecting clients
// can be served without touching the engine.
type Cache interface {
	SetBook(ctx context.Context, marketID string, book *domain.PublishedBook) error
	Book(ctx context.Context, marketID string) (*domain.PublishedBook, error)
}
