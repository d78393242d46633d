package domain

import "github.com/shopspring/decimal"

// Trade records one executed match: the taker hit the maker's resting
// order, at the resting order's limit price. Immutable once created.
type Trade struct {
	TransactionID int
	OfferID       int
	OrderID       int
	MakerID       int
	TakerID       int
	SellerID      int
	BuyerID       int
	MarketID      string
	Period        int

	Price             decimal.Decimal
	TransactionVolume int
	LimitVolume       int
	RemainingVolume   int
	Amount            decimal.Decimal

	IsBid           bool
	OfferTime       float64
	TransactionTime float64
	Active          bool

	Before BookState
	After  BookState
}

func (t *Trade) Involves(participantID int) bool {
	return t.MakerID == participantID || t.TakerID == participantID
}
