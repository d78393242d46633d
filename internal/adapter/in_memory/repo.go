package in_memory

import (
	"context"
	"sync"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

var _ port.Repository = (*Repo)(nil)

// Repo keeps the audit rows in memory, used in tests and when no durable
// store is configured.
type Repo struct {
	mu      sync.Mutex
	limits  map[string][]*domain.LimitOrder
	events  map[string][]*domain.OrderEvent
	trades  map[string][]*domain.Trade
	notices map[string][]*domain.Notice
	quotes  map[string][]*domain.QuoteObservation
}

func NewRepo() *Repo {
	return &Repo{
		limits:  make(map[string][]*domain.LimitOrder),
		events:  make(map[string][]*domain.OrderEvent),
		trades:  make(map[string][]*domain.Trade),
		notices: make(map[string][]*domain.Notice),
		quotes:  make(map[string][]*domain.QuoteObservation),
	}
}

func (r *Repo) SaveLimit(_ context.Context, o *domain.LimitOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits[o.MarketID] = append(r.limits[o.MarketID], o)
	return nil
}

// UpdateLimit is a no-op: the stored pointer is the session's own record.
func (r *Repo) UpdateLimit(_ context.Context, _ *domain.LimitOrder) error { return nil }

func (r *Repo) SaveOrderEvent(_ context.Context, e *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.MarketID] = append(r.events[e.MarketID], e)
	return nil
}

func (r *Repo) SaveTrade(_ context.Context, t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[t.MarketID] = append(r.trades[t.MarketID], t)
	return nil
}

func (r *Repo) SaveNotice(_ context.Context, n *domain.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices[n.MarketID] = append(r.notices[n.MarketID], n)
	return nil
}

func (r *Repo) SaveQuote(_ context.Context, q *domain.QuoteObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.MarketID] = append(r.quotes[q.MarketID], q)
	return nil
}

func (r *Repo) Limits(_ context.Context, marketID string) ([]*domain.LimitOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.LimitOrder(nil), r.limits[marketID]...), nil
}

func (r *Repo) OrderEvents(_ context.Context, marketID string) ([]*domain.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.OrderEvent(nil), r.events[marketID]...), nil
}

func (r *Repo) Trades(_ context.Context, marketID string) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Trade(nil), r.trades[marketID]...), nil
}

func (r *Repo) Notices(_ context.Context, marketID string) ([]*domain.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Notice(nil), r.notices[marketID]...), nil
}

func (r *Repo) Quotes(_ context.Context, marketID string) ([]*domain.QuoteObservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.QuoteObservation(nil), r.quotes[marketID]...), nil
}
