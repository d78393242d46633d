package domain

// RejectKind classifies the user-visible conditions that produce a notice
// and leave all market state unchanged.
type RejectKind string

const (
	RejectRole             RejectKind = "role_violation"
	RejectMalformed        RejectKind = "malformed_request"
	RejectInsufficient     RejectKind = "insufficient_resources"
	RejectPriceImprovement RejectKind = "price_improvement_violation"
	RejectSelfTrade        RejectKind = "self_trade_violation"
	RejectStaleBook        RejectKind = "stale_book_violation"
	RejectMarketClosed     RejectKind = "market_closed"
)

// Notice is a per-participant rejection or info message. Append-only.
type Notice struct {
	MarketID      string
	Period        int
	ParticipantID int
	Kind          RejectKind
	Message       string
	At            float64
}
