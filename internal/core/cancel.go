package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// cancelLimitOrder withdraws a resting order. The limit record keeps its
// last remaining volume for the audit trail; the cancellation event's
// remaining volume is zeroed instead.
func (s *Session) cancelLimitOrder(ctx context.Context, actor *domain.Trader, ev Event) {
	if ev.OfferID == nil {
		return
	}
	makerID := actor.ID
	if ev.MakerID != nil {
		makerID = *ev.MakerID
	}
	if !actor.IsTrader() {
		s.notice(ctx, makerID, domain.RejectRole, "Cannot proceed: you are an observer who cannot withdraw a bid/ask.")
		return
	}
	if makerID != actor.ID {
		s.notice(ctx, actor.ID, domain.RejectRole, "Cannot proceed: you can withdraw your own buy/sell offers only.")
		return
	}

	offerID := *ev.OfferID
	offers := s.book.Find(offerID)
	if len(offers) != 1 {
		s.log.Warn("too few or too many offers found while withdrawing",
			zap.String("market", s.market.ID), zap.Int("offerID", offerID), zap.Int("found", len(offers)))
		return
	}
	offer := offers[0]
	offer.Active = false
	remaining := offer.RemainingVolume

	// Stale client fields are logged, never authoritative: the server-side
	// order decides.
	if ev.LimitPrice != nil && !offer.Price.Equal(*ev.LimitPrice) ||
		ev.IsBid != nil && offer.IsBid != (*ev.IsBid == 1) {
		s.log.Warn("odd request while cancelling an order",
			zap.String("market", s.market.ID), zap.Int("maker", makerID), zap.Int("offerID", offerID))
	}

	orderID := s.seq.nextOrderID(s.orderIDTaken)

	before := domain.BookState{BestBid: s.market.BestBid, BestAsk: s.market.BestAsk}
	after := s.book.State()

	if s.repo != nil {
		if err := s.repo.UpdateLimit(ctx, offer); err != nil {
			s.log.Warn("update limit order", zap.Error(err))
		}
	}
	s.appendEvent(ctx, &domain.OrderEvent{
		OrderID:          orderID,
		OfferID:          offerID,
		MakerID:          makerID,
		MarketID:         s.market.ID,
		Period:           s.market.Period,
		OrderType:        domain.OrderTypeCancel,
		Price:            offer.Price,
		LimitVolume:      offer.LimitVolume,
		TransactedVolume: offer.TransactedVolume,
		RemainingVolume:  0,
		Amount:           offer.Amount,
		IsBid:            offer.IsBid,
		OfferTime:        offer.OfferTime,
		OrderTime:        s.elapsed(),
		Active:           false,
		Before:           before,
		After:            after,
	})

	actor.Cancellations++
	actor.CancelledVolume += remaining
	s.market.Cancellations++
	s.market.CancelledVolume += remaining
	if offer.IsBid {
		actor.CashOffered = actor.CashOffered.Sub(offer.Price.Mul(decimalFromInt(remaining)))
	} else {
		actor.AssetsOffered -= remaining
	}
}
