package core

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// OrderBook holds every limit order of one trading period, active or not.
// Deactivated orders stay in the slice for the audit export; all derived
// state (best quotes, outbound rows) is recomputed from the currently
// active subset.
type OrderBook struct {
	orders []*domain.LimitOrder
}

func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

func (b *OrderBook) Insert(o *domain.LimitOrder) {
	b.orders = append(b.orders, o)
}

// Find returns all orders carrying the given offer id. More than one entry
// means the store is inconsistent; callers log and pick the first.
func (b *OrderBook) Find(offerID int) []*domain.LimitOrder {
	var out []*domain.LimitOrder
	for _, o := range b.orders {
		if o.OfferID == offerID {
			out = append(out, o)
		}
	}
	return out
}

func (b *OrderBook) Contains(offerID int) bool {
	return len(b.Find(offerID)) > 0
}

func (b *OrderBook) All() []*domain.LimitOrder {
	return b.orders
}

// BestBid is the maximum price among active bids, nil when there is none.
func (b *OrderBook) BestBid() *decimal.Decimal {
	var best *decimal.Decimal
	for _, o := range b.orders {
		if !o.Active || !o.IsBid {
			continue
		}
		if best == nil || o.Price.GreaterThan(*best) {
			p := o.Price
			best = &p
		}
	}
	return best
}

// BestAsk is the minimum price among active asks, nil when there is none.
func (b *OrderBook) BestAsk() *decimal.Decimal {
	var best *decimal.Decimal
	for _, o := range b.orders {
		if !o.Active || o.IsBid {
			continue
		}
		if best == nil || o.Price.LessThan(*best) {
			p := o.Price
			best = &p
		}
	}
	return best
}

func (b *OrderBook) State() domain.BookState {
	return domain.BookState{BestBid: b.BestBid(), BestAsk: b.BestAsk()}
}

// Rows returns the outbound book: active bids sorted by price descending
// and active asks ascending.
func (b *OrderBook) Rows() (bids, asks []domain.BookRow) {
	for _, o := range b.orders {
		if !o.Active {
			continue
		}
		row := domain.BookRow{
			Price:     o.Price,
			Remaining: o.RemainingVolume,
			OfferID:   o.OfferID,
			MakerID:   o.MakerID,
		}
		if o.IsBid {
			bids = append(bids, row)
		} else {
			asks = append(asks, row)
		}
	}
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].Price.GreaterThan(bids[j].Price)
	})
	sort.SliceStable(asks, func(i, j int) bool {
		return asks[i].Price.LessThan(asks[j].Price)
	})
	return bids, asks
}
