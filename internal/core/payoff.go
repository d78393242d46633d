package core

import "github.com/shopspring/decimal"

// Period payoff parameters.
var (
	basePayment = decimal.NewFromInt(15)
	multiplier  = decimal.NewFromInt(90)
	hundred     = decimal.NewFromInt(100)
)

// Close ends the trading period and records each trader's utility change
// and payoff. Further events are rejected with a market-closed notice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	for _, t := range s.traders {
		if !t.IsTrader() || t.InitialCash.IsZero() {
			continue
		}
		// Initial utility is the cash endowment: no goods held at open.
		change := t.OverallUtility.Sub(t.InitialCash).
			Div(t.InitialCash).Mul(hundred)
		t.UtilityChangePercent = change
		payoff := basePayment.Add(multiplier.Mul(change.Div(hundred)))
		if payoff.IsNegative() {
			payoff = decimal.Zero
		}
		t.Payoff = payoff
	}
}

// Closed reports whether the period was explicitly ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
