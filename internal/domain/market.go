package domain

import "github.com/shopspring/decimal"

type Framing string

const (
	Baseline      Framing = "baseline"
	Environmental Framing = "environmental"
	Destruction   Framing = "destruction"
)

type EndowmentType string

const (
	Homogeneous   EndowmentType = "homogeneous"
	Heterogeneous EndowmentType = "heterogeneous"
)

// Market is the group-level record for one trading period. BestBid and
// BestAsk hold the last published quotes (nil when a side is empty); the
// counters feed reporting only, never the matching rules.
type Market struct {
	ID     string
	Period int

	Framing       Framing
	EndowmentType EndowmentType
	// Gini coefficient of the cash endowment, recorded for heterogeneous
	// groups.
	GiniCoefficient float64

	MarketTime      float64 // period duration in seconds
	NumAssets       int
	NumParticipants int

	BestBid *decimal.Decimal
	BestAsk *decimal.Decimal

	Transactions     int
	TransactedVolume int
	MarketBuyOrders  int
	MarketBuyVolume  int
	MarketSellOrders int
	MarketSellVolume int
	LimitOrders      int
	LimitVolume      int
	LimitBuyOrders   int
	LimitBuyVolume   int
	LimitSellOrders  int
	LimitSellVolume  int
	Cancellations    int
	CancelledVolume  int
}

func (m *Market) Treatment() string {
	return string(m.Framing) + "_" + string(m.EndowmentType)
}
