package core

import (
	"context"
	"strconv"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// buyGood spends cash plus carbon credits on a consumption good at the
// fixed configuration prices. Fully atomic: on any failure nothing
// changes and the buyer gets a notice. Returns the purchase details echoed
// back to the buyer only.
func (s *Session) buyGood(ctx context.Context, actor *domain.Trader, ev Event) *domain.GoodsPurchase {
	qty, err := strconv.Atoi(ev.Quantity)
	if err != nil {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: invalid quantity.")
		return nil
	}
	if qty <= 0 {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: quantity must be positive.")
		return nil
	}

	good := domain.Good(ev.Good)
	price, err := domain.MoneyPrice(good)
	if err != nil {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: invalid good.")
		return nil
	}
	creditCost, _ := domain.CreditCost(good)

	totalPrice := price.Mul(decimalFromInt(qty))
	totalCredits := creditCost * qty
	if actor.CashHolding.LessThan(totalPrice) || actor.AssetsHolding < totalCredits {
		s.notice(ctx, actor.ID, domain.RejectInsufficient, "Cannot proceed: insufficient funds or assets.")
		return nil
	}

	if good == domain.GoodA {
		actor.GoodAQty += qty
	} else {
		actor.GoodBQty += qty
	}
	actor.CashHolding = actor.CashHolding.Sub(totalPrice)
	actor.AssetsHolding -= totalCredits
	actor.GoodsUtility = domain.GoodsUtility(actor)
	actor.OverallUtility = domain.OverallUtility(actor)

	return &domain.GoodsPurchase{Good: good, Quantity: qty, Price: price}
}
