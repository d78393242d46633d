package domain

import "github.com/shopspring/decimal"

type Role string

const (
	RoleTrader   Role = "trader"
	RoleObserver Role = "observer"
	RoleInactive Role = "not participating"
)

type Preference string

const (
	// Conventional traders get more satisfaction from good B, eco
	// traders from good A.
	Conventional Preference = "conventional"
	Eco          Preference = "eco"
)

// Trader is one participant's ledger within a market: balances, amounts
// encumbered by open limit orders, trading caps, goods holdings and the
// per-period activity counters the export reproduces.
type Trader struct {
	ID         int
	Role       Role
	Preference Preference

	InitialCash   decimal.Decimal
	CashHolding   decimal.Decimal
	InitialAssets int
	AssetsHolding int

	// Encumbered by open limit orders, released on fill or cancel.
	CashOffered   decimal.Decimal
	AssetsOffered int

	// CapLong is the margin-buying allowance, CapShort the short-selling
	// allowance. Zero when the session config disables them.
	CapLong  decimal.Decimal
	CapShort int

	GoodAQty       int
	GoodBQty       int
	GoodsUtility   decimal.Decimal
	OverallUtility decimal.Decimal

	UtilityChangePercent decimal.Decimal
	Payoff               decimal.Decimal

	Transactions     int
	TransactedVolume int

	MarketOrders      int
	MarketOrderVolume int
	MarketBuyOrders   int
	MarketBuyVolume   int
	MarketSellOrders  int
	MarketSellVolume  int

	LimitOrders     int
	LimitVolume     int
	LimitBuyOrders  int
	LimitBuyVolume  int
	LimitSellOrders int
	LimitSellVolume int

	LimitOrderTransactions     int
	LimitVolumeTransacted      int
	LimitBuyOrderTransactions  int
	LimitBuyVolumeTransacted   int
	LimitSellOrderTransactions int
	LimitSellVolumeTransacted  int

	Cancellations   int
	CancelledVolume int
}

func (t *Trader) IsTrader() bool { return t.Role == RoleTrader }
