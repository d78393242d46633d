package domain

import "github.com/shopspring/decimal"

// BookRow is one resting order as shown to participants.
type BookRow struct {
	Price     decimal.Decimal `json:"price"`
	Remaining int             `json:"remainingVolume"`
	OfferID   int             `json:"offerID"`
	MakerID   int             `json:"makerID"`
}

// TradeRow is one executed trade involving the receiving participant.
type TradeRow struct {
	Price    decimal.Decimal `json:"price"`
	Volume   int             `json:"volume"`
	At       float64         `json:"timestamp"`
	SellerID int             `json:"sellerID"`
}

type NoticeRow struct {
	Message       string  `json:"msg"`
	At            float64 `json:"msgTime"`
	ParticipantID int     `json:"playerID"`
}

// PricePoint is one point of the market-wide trade chart series.
type PricePoint struct {
	X float64         `json:"x"`
	Y decimal.Decimal `json:"y"`
}

// GoodsPurchase echoes a just-completed goods-market purchase back to the
// buyer only.
type GoodsPurchase struct {
	Good     Good            `json:"good"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ParticipantView is the outbound snapshot assembled for one participant
// after every dispatched event.
type ParticipantView struct {
	Bids []BookRow `json:"bids"`
	Asks []BookRow `json:"asks"`

	Trades []TradeRow `json:"trades"`

	CashHolding    decimal.Decimal `json:"cashHolding"`
	AssetsHolding  int             `json:"assetsHolding"`
	GoodAQty       int             `json:"goodA_qty"`
	GoodBQty       int             `json:"goodB_qty"`
	GoodsUtility   decimal.Decimal `json:"goods_utility"`
	OverallUtility decimal.Decimal `json:"overall_utility"`

	Series []PricePoint `json:"series"`
	News   []NoticeRow  `json:"news"`

	GoodsTrade *GoodsPurchase `json:"goodsTrade,omitempty"`
}

// PublishedBook is the market-wide book state kept in the cache for
// reconnecting clients.
type PublishedBook struct {
	Bids    []BookRow        `json:"bids"`
	Asks    []BookRow        `json:"asks"`
	BestBid *decimal.Decimal `json:"bestBid"`
	BestAsk *decimal.Decimal `json:"bestAsk"`
	Series  []PricePoint     `json:"series"`
	At      float64          `json:"at"`
}
