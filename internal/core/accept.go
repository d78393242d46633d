package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// acceptOrder executes a market order against one specific resting limit
// order chosen by the taker. The execution price is always the resting
// order's limit price; a requested volume above the order's remaining
// volume is silently clipped and forces the order inactive.
func (s *Session) acceptOrder(ctx context.Context, actor *domain.Trader, ev Event) {
	if ev.OfferID == nil {
		return
	}
	offerID := *ev.OfferID
	if !actor.IsTrader() {
		s.notice(ctx, actor.ID, domain.RejectRole, "Cannot proceed: you are an observer who cannot accept a bid/ask.")
		return
	}

	entries := s.book.Find(offerID)
	if len(entries) == 0 {
		s.log.Warn("accept on unknown offer",
			zap.String("market", s.market.ID), zap.Int("offerID", offerID), zap.Int("taker", actor.ID))
		return
	}
	if len(entries) > 1 {
		s.log.Warn("limit entry is not well-defined: multiple entries with the same id",
			zap.String("market", s.market.ID), zap.Int("offerID", offerID))
	}
	entry := entries[0]

	if ev.TransactionVolume == nil {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: misspecified volume.")
		return
	}
	volume := *ev.TransactionVolume
	price := entry.Price
	isBid := entry.IsBid
	makerID := entry.MakerID
	remaining := entry.RemainingVolume

	if !price.IsPositive() || volume <= 0 {
		s.notice(ctx, actor.ID, domain.RejectMalformed, "Cannot proceed: misspecified volume.")
		return
	}
	// Client-side price/side mismatches are warnings only; server state is
	// authoritative.
	if ev.TransactionPrice != nil && !price.Equal(*ev.TransactionPrice) ||
		ev.IsBid != nil && isBid != (*ev.IsBid == 1) {
		s.log.Warn("odd request while accepting an order",
			zap.String("market", s.market.ID), zap.Int("taker", actor.ID), zap.Int("offerID", offerID))
	}

	active := entry.Active
	if volume >= remaining {
		volume = remaining
		active = false
	}

	amount := price.Mul(decimalFromInt(volume))
	if !isBid {
		// Taker buys from a resting ask: mirror the placement cash check.
		free := actor.CashHolding.Add(actor.CapLong).Sub(actor.CashOffered).Sub(amount)
		if free.IsNegative() {
			s.notice(ctx, actor.ID, domain.RejectInsufficient, "Cannot proceed: insufficient cash available.")
			return
		}
	} else {
		// Taker sells into a resting bid.
		if actor.AssetsHolding+actor.CapShort-actor.AssetsOffered-volume < 0 {
			s.notice(ctx, actor.ID, domain.RejectInsufficient, "Cannot proceed: insufficient assets available.")
			return
		}
	}
	if makerID == actor.ID {
		s.notice(ctx, actor.ID, domain.RejectSelfTrade, "Cannot proceed: own buy/sell offers cannot be transacted.")
		return
	}

	before := domain.BookState{BestBid: s.market.BestBid, BestAsk: s.market.BestAsk}
	// Time priority: a taker may never trade at a price worse than the
	// currently published best quote on the resting side.
	if isBid && before.BestBid != nil && price.LessThan(*before.BestBid) ||
		!isBid && before.BestAsk != nil && price.GreaterThan(*before.BestAsk) {
		s.notice(ctx, actor.ID, domain.RejectStaleBook, "Cannot proceed: there is a better buy/sell offer available.")
		return
	}

	maker, ok := s.traders[makerID]
	if !ok {
		s.log.Warn("resting order has unknown maker",
			zap.String("market", s.market.ID), zap.Int("maker", makerID))
		return
	}

	var buyer, seller *domain.Trader
	if isBid {
		// Resting bid: the maker buys, the taker sells.
		buyer, seller = maker, actor
		maker.CashOffered = maker.CashOffered.Sub(amount)
		maker.LimitBuyOrderTransactions++
		maker.LimitBuyVolumeTransacted += volume
		actor.MarketSellOrders++
		actor.MarketSellVolume += volume
		s.market.MarketSellOrders++
		s.market.MarketSellVolume += volume
	} else {
		buyer, seller = actor, maker
		maker.AssetsOffered -= volume
		maker.LimitSellOrderTransactions++
		maker.LimitSellVolumeTransacted += volume
		actor.MarketBuyOrders++
		actor.MarketBuyVolume += volume
		s.market.MarketBuyOrders++
		s.market.MarketBuyVolume += volume
	}

	transactionID := s.seq.nextTransactionID(s.transactionIDTaken)
	orderID := s.seq.nextOrderID(s.orderIDTaken)
	transactionTime := s.elapsed()

	entry.TransactedVolume += volume
	entry.RemainingVolume -= volume
	entry.Active = active

	buyer.CashHolding = buyer.CashHolding.Sub(amount)
	seller.CashHolding = seller.CashHolding.Add(amount)
	buyer.AssetsHolding += volume
	seller.AssetsHolding -= volume
	buyer.GoodsUtility = domain.GoodsUtility(buyer)
	buyer.OverallUtility = domain.OverallUtility(buyer)
	seller.GoodsUtility = domain.GoodsUtility(seller)
	seller.OverallUtility = domain.OverallUtility(seller)

	buyer.Transactions++
	buyer.TransactedVolume += volume
	seller.Transactions++
	seller.TransactedVolume += volume
	maker.LimitOrderTransactions++
	maker.LimitVolumeTransacted += volume
	actor.MarketOrders++
	actor.MarketOrderVolume += volume
	s.market.Transactions++
	s.market.TransactedVolume += volume

	after := s.book.State()

	trade := &domain.Trade{
		TransactionID:     transactionID,
		OfferID:           offerID,
		OrderID:           orderID,
		MakerID:           makerID,
		TakerID:           actor.ID,
		SellerID:          seller.ID,
		BuyerID:           buyer.ID,
		MarketID:          s.market.ID,
		Period:            s.market.Period,
		Price:             price,
		TransactionVolume: volume,
		LimitVolume:       entry.LimitVolume,
		RemainingVolume:   entry.RemainingVolume,
		Amount:            amount,
		IsBid:             isBid,
		OfferTime:         entry.OfferTime,
		TransactionTime:   transactionTime,
		Active:            active,
		Before:            before,
		After:             after,
	}
	s.trades = append(s.trades, trade)
	if s.repo != nil {
		if err := s.repo.SaveTrade(ctx, trade); err != nil {
			s.log.Warn("save trade", zap.Error(err))
		}
		if err := s.repo.UpdateLimit(ctx, entry); err != nil {
			s.log.Warn("update limit order", zap.Error(err))
		}
	}

	s.appendEvent(ctx, &domain.OrderEvent{
		OrderID:           orderID,
		OfferID:           offerID,
		TransactionID:     transactionID,
		MakerID:           makerID,
		TakerID:           actor.ID,
		SellerID:          seller.ID,
		BuyerID:           buyer.ID,
		MarketID:          s.market.ID,
		Period:            s.market.Period,
		OrderType:         domain.OrderTypeMarket,
		Price:             price,
		LimitVolume:       entry.LimitVolume,
		TransactionVolume: volume,
		TransactedVolume:  entry.TransactedVolume,
		RemainingVolume:   entry.RemainingVolume,
		Amount:            entry.Amount,
		IsBid:             isBid,
		OfferTime:         entry.OfferTime,
		OrderTime:         transactionTime,
		TransactionTime:   transactionTime,
		Active:            active,
		Before:            before,
		After:             after,
	})
}
