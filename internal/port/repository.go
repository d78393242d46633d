package port

import (
	"context"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// Repository is the append-only audit store for market records. Writes
// happen inside the session's serialized dispatch and are best-effort: a
// failed write is logged, never surfaced to the participant.
type Repository interface {
	SaveLimit(ctx context.Context, o *domain.LimitOrder) error
	UpdateLimit(ctx context.Context, o *domain.LimitOrder) error
	SaveOrderEvent(ctx context.Context, e *domain.OrderEvent) error
	SaveTrade(ctx context.Context, t *domain.Trade) error
	SaveNotice(ctx context.Context, n *domain.Notice) error
	SaveQuote(ctx context.Context, q *domain.QuoteObservation) error

	Limits(ctx context.Context, marketID string) ([]*domain.LimitOrder, error)
	OrderEvents(ctx context.Context, marketID string) ([]*domain.OrderEvent, error)
	Trades(ctx context.Context, marketID string) ([]*domain.Trade, error)
	Notices(ctx context.Context, marketID string) ([]*domain.Notice, error)
	Quotes(ctx context.Context, marketID string) ([]*domain.QuoteObservation, error)
}
