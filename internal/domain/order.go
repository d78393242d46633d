package domain

import "github.com/shopspring/decimal"

// Order event types recorded in the audit log.
const (
	OrderTypeLimit  = "limitOrder"
	OrderTypeCancel = "cancelLimitOrder"
	OrderTypeMarket = "marketOrder"
)

// BookState is a snapshot of the best quotes at some instant. Nil means
// the corresponding side of the book was empty.
type BookState struct {
	BestBid *decimal.Decimal
	BestAsk *decimal.Decimal
}

// LimitOrder is a standing offer resting in the book. Identity fields are
// immutable; only RemainingVolume, TransactedVolume and Active change, and
// Active never flips back to true. Records are kept after deactivation for
// the audit export.
type LimitOrder struct {
	OfferID  int
	OrderID  int
	MakerID  int
	MarketID string
	Period   int

	Price       decimal.Decimal
	LimitVolume int
	Amount      decimal.Decimal

	TransactedVolume int
	RemainingVolume  int

	IsBid     bool
	OfferTime float64
	Active    bool

	Before BookState
	After  BookState
}

// OrderEvent is an append-only audit row, one per state-changing request:
// a new limit order, a cancellation or a market-order fill.
type OrderEvent struct {
	OrderID       int
	OfferID       int
	TransactionID int
	MakerID       int
	TakerID       int
	SellerID      int
	BuyerID       int
	MarketID      string
	Period        int

	OrderType string

	Price             decimal.Decimal
	LimitVolume       int
	TransactionVolume int
	TransactedVolume  int
	RemainingVolume   int
	Amount            decimal.Decimal

	IsBid           bool
	OfferTime       float64
	OrderTime       float64
	TransactionTime float64
	Active          bool

	Before BookState
	After  BookState
}

// QuoteObservation records the best bid/ask seen immediately before or
// after one dispatched event.
type QuoteObservation struct {
	MarketID      string
	Period        int
	OrderID       int
	BestBid       *decimal.Decimal
	BestAsk       *decimal.Decimal
	At            float64
	Timing        string // "before" | "after"
	OperationType string
}
