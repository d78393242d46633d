package core

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// placeLimitOrder validates and books a new resting order. A bid priced
// above the best ask, or an ask priced below the best bid, is rejected:
// crossing the book is only ever resolved by an explicit accept, never by
// matching on insertion.
func (s *Session) placeLimitOrder(ctx context.Context, actor *domain.Trader, ev Event) {
	if !actor.IsTrader() {
		s.notice(ctx, actor.ID, domain.RejectRole, "Cannot proceed: you are an observer who cannot place a bid/ask.")
		return
	}
	if ev.IsBid == nil || (*ev.IsBid != 0 && *ev.IsBid != 1) || ev.LimitPrice == nil || ev.LimitVolume == nil {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: misspecified price, volume or asset.")
		return
	}
	isBid := *ev.IsBid == 1
	price := ev.LimitPrice.Round(priceDecimals)
	volume := *ev.LimitVolume
	if !price.IsPositive() || volume <= 0 {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: misspecified price or volume.")
		return
	}

	amount := price.Mul(decimal.NewFromInt(int64(volume)))
	if isBid {
		// cash + margin cap - already encumbered - new exposure
		free := actor.CashHolding.Add(actor.CapLong).Sub(actor.CashOffered).Sub(amount)
		if free.IsNegative() {
			s.notice(ctx, actor.ID, domain.RejectInsufficient, "Cannot proceed: insufficient cash available.")
			return
		}
	} else {
		if actor.AssetsHolding+actor.CapShort-actor.AssetsOffered-volume < 0 {
			s.notice(ctx, actor.ID, domain.RejectInsufficient, "Cannot proceed: insufficient assets available.")
			return
		}
	}

	before := domain.BookState{BestBid: s.market.BestBid, BestAsk: s.market.BestAsk}
	if isBid && before.BestAsk != nil && price.GreaterThan(*before.BestAsk) ||
		!isBid && before.BestBid != nil && price.LessThan(*before.BestBid) {
		s.notice(ctx, actor.ID, domain.RejectPriceImprovement, "Cannot proceed: there is a buy/sell offer with the same or a more interesting price available.")
		return
	}

	offerID := s.seq.nextOfferID(s.offerIDTaken)
	orderID := s.seq.nextOrderID(s.orderIDTaken)
	offerTime := s.elapsed()

	// The new order can only tighten its own side of the book.
	after := before
	if isBid && (before.BestBid == nil || !price.LessThan(*before.BestBid)) {
		after.BestBid = &price
	} else if !isBid && (before.BestAsk == nil || !price.GreaterThan(*before.BestAsk)) {
		after.BestAsk = &price
	}

	limit := &domain.LimitOrder{
		OfferID:          offerID,
		OrderID:          orderID,
		MakerID:          actor.ID,
		MarketID:         s.market.ID,
		Period:           s.market.Period,
		Price:            price,
		LimitVolume:      volume,
		Amount:           amount,
		TransactedVolume: 0,
		RemainingVolume:  volume,
		IsBid:            isBid,
		OfferTime:        offerTime,
		Active:           true,
		Before:           before,
		After:            after,
	}
	s.book.Insert(limit)
	if s.repo != nil {
		if err := s.repo.SaveLimit(ctx, limit); err != nil {
			s.log.Warn("save limit order", zap.Error(err))
		}
	}

	s.appendEvent(ctx, &domain.OrderEvent{
		OrderID:          orderID,
		OfferID:          offerID,
		MakerID:          actor.ID,
		MarketID:         s.market.ID,
		Period:           s.market.Period,
		OrderType:        domain.OrderTypeLimit,
		Price:            price,
		LimitVolume:      volume,
		TransactedVolume: 0,
		RemainingVolume:  volume,
		Amount:           amount,
		IsBid:            isBid,
		OfferTime:        offerTime,
		OrderTime:        offerTime,
		Active:           true,
		Before:           before,
		After:            after,
	})

	actor.LimitOrders++
	actor.LimitVolume += volume
	s.market.LimitOrders++
	s.market.LimitVolume += volume
	if isBid {
		actor.CashOffered = actor.CashOffered.Add(amount)
		actor.LimitBuyOrders++
		actor.LimitBuyVolume += volume
		s.market.LimitBuyOrders++
		s.market.LimitBuyVolume += volume
	} else {
		actor.AssetsOffered += volume
		actor.LimitSellOrders++
		actor.LimitSellVolume += volume
		s.market.LimitSellOrders++
		s.market.LimitSellVolume += volume
	}
}
