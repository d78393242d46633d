package core

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/adapter/in_memory"
	"github.com/evapetschnigg/CDA/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTrader(id int, cash int64, assets int) *domain.Trader {
	t := &domain.Trader{
		ID:            id,
		Role:          domain.RoleTrader,
		Preference:    domain.Conventional,
		InitialCash:   decimal.NewFromInt(cash),
		CashHolding:   decimal.NewFromInt(cash),
		InitialAssets: assets,
		AssetsHolding: assets,
	}
	t.GoodsUtility = domain.GoodsUtility(t)
	t.OverallUtility = domain.OverallUtility(t)
	return t
}

func newObserver(id int) *domain.Trader {
	return &domain.Trader{ID: id, Role: domain.RoleObserver, Preference: domain.Conventional}
}

func newTestSession(traders ...*domain.Trader) (*Session, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	market := &domain.Market{
		ID:            "m-test",
		Period:        1,
		Framing:       domain.Baseline,
		EndowmentType: domain.Homogeneous,
		MarketTime:    210,
	}
	s := NewSession(zap.NewNop(), in_memory.NewRepo(), in_memory.NewCache(), clock, market, traders)
	return s, clock
}

func intPtr(v int) *int { return &v }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func limitEvent(actor, isBid int, price string, volume int) Event {
	return Event{
		Op:          OpLimitOrder,
		Actor:       actor,
		IsBid:       intPtr(isBid),
		LimitPrice:  decPtr(price),
		LimitVolume: intPtr(volume),
	}
}

func acceptEvent(actor, offerID, volume int) Event {
	return Event{
		Op:                OpMarketOrder,
		Actor:             actor,
		OfferID:           intPtr(offerID),
		TransactionVolume: intPtr(volume),
	}
}

func cancelEvent(actor, offerID int) Event {
	return Event{Op: OpCancelLimit, Actor: actor, OfferID: intPtr(offerID)}
}

func lastNotice(t *testing.T, s *Session, participantID int) *domain.Notice {
	t.Helper()
	var last *domain.Notice
	for _, n := range s.notices {
		if n.ParticipantID == participantID {
			last = n
		}
	}
	require.NotNil(t, last, "expected a notice for participant %d", participantID)
	return last
}

func TestPlaceLimitOrderBid(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	t2 := newTrader(2, 100, 10)
	s, _ := newTestSession(t1, t2)
	ctx := context.Background()

	views := s.Dispatch(ctx, limitEvent(1, 1, "5.00", 3))
	require.Len(t, views, 2)

	require.Len(t, views[2].Bids, 1)
	assert.Empty(t, views[2].Asks)
	row := views[2].Bids[0]
	assert.Equal(t, 1, row.OfferID)
	assert.Equal(t, 1, row.MakerID)
	assert.Equal(t, 3, row.Remaining)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("5.00")))

	// 3 units at 5.00 are now encumbered.
	assert.True(t, t1.CashOffered.Equal(decimal.NewFromInt(15)))
	assert.True(t, t1.CashHolding.Equal(decimal.NewFromInt(100)), "cash moves on fill, not on placement")
	assert.Equal(t, 1, t1.LimitOrders)
	assert.Equal(t, 1, t1.LimitBuyOrders)
	assert.Equal(t, 3, t1.LimitBuyVolume)

	require.NotNil(t, s.market.BestBid)
	assert.True(t, s.market.BestBid.Equal(decimal.RequireFromString("5.00")))
	assert.Nil(t, s.market.BestAsk)
}

func TestPlaceLimitOrderRoundsPrice(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	s, _ := newTestSession(t1)

	views := s.Dispatch(context.Background(), limitEvent(1, 0, "4.555", 1))
	require.Len(t, views[1].Asks, 1)
	assert.True(t, views[1].Asks[0].Price.Equal(decimal.RequireFromString("4.56")))
}

func TestPlaceLimitOrderObserverRejected(t *testing.T) {
	obs := newObserver(1)
	s, _ := newTestSession(obs)

	s.Dispatch(context.Background(), limitEvent(1, 1, "5.00", 1))

	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectRole, n.Kind)
	assert.Equal(t, "Cannot proceed: you are an observer who cannot place a bid/ask.", n.Message)
	assert.Empty(t, s.book.All())
}

func TestPlaceLimitOrderMalformed(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	s, _ := newTestSession(t1)
	ctx := context.Background()

	s.Dispatch(ctx, Event{Op: OpLimitOrder, Actor: 1, IsBid: intPtr(1), LimitVolume: intPtr(1)})
	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectMalformed, n.Kind)

	s.Dispatch(ctx, limitEvent(1, 1, "-2.00", 1))
	n = lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectMalformed, n.Kind)
	assert.Equal(t, "Cannot proceed: misspecified price or volume.", n.Message)

	s.Dispatch(ctx, limitEvent(1, 1, "5.00", 0))
	assert.Len(t, s.notices, 3)
	assert.Empty(t, s.book.All())
	assert.True(t, t1.CashOffered.IsZero())
}

func TestPlaceLimitOrderInsufficientCash(t *testing.T) {
	t1 := newTrader(1, 10, 10)
	s, _ := newTestSession(t1)
	ctx := context.Background()

	// 6.00 of 10.00 encumbered, the second bid needs another 6.00.
	s.Dispatch(ctx, limitEvent(1, 1, "2.00", 3))
	s.Dispatch(ctx, limitEvent(1, 1, "2.00", 3))

	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectInsufficient, n.Kind)
	assert.Equal(t, "Cannot proceed: insufficient cash available.", n.Message)
	assert.Len(t, s.book.All(), 1)
	assert.True(t, t1.CashOffered.Equal(decimal.NewFromInt(6)))
}

func TestPlaceLimitOrderInsufficientAssets(t *testing.T) {
	t1 := newTrader(1, 100, 2)
	s, _ := newTestSession(t1)

	s.Dispatch(context.Background(), limitEvent(1, 0, "5.00", 3))

	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectInsufficient, n.Kind)
	assert.Equal(t, "Cannot proceed: insufficient assets available.", n.Message)
	assert.Empty(t, s.book.All())
	assert.Equal(t, 0, t1.AssetsOffered)
}

func TestShortSellingCapAllowsExtraAsks(t *testing.T) {
	t1 := newTrader(1, 100, 2)
	t1.CapShort = 2
	s, _ := newTestSession(t1)

	s.Dispatch(context.Background(), limitEvent(1, 0, "5.00", 4))

	assert.Empty(t, s.notices)
	assert.Len(t, s.book.All(), 1)
	assert.Equal(t, 4, t1.AssetsOffered)
}

func TestPlaceCrossingOrderRejected(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	t2 := newTrader(2, 100, 10)
	s, _ := newTestSession(t1, t2)
	ctx := context.Background()

	s.Dispatch(ctx, limitEvent(1, 0, "5.00", 2)) // resting ask at 5.00

	// A bid above the best ask must go through an explicit accept instead.
	s.Dispatch(ctx, limitEvent(2, 1, "5.50", 1))
	n := lastNotice(t, s, 2)
	assert.Equal(t, domain.RejectPriceImprovement, n.Kind)
	assert.Len(t, s.book.All(), 1)

	// A tie is allowed to rest.
	s.Dispatch(ctx, limitEvent(2, 1, "5.00", 1))
	assert.Len(t, s.book.All(), 2)

	// Symmetric: an ask below the best bid is rejected.
	s.Dispatch(ctx, limitEvent(1, 0, "4.00", 1))
	n = lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectPriceImprovement, n.Kind)
	assert.Len(t, s.book.All(), 2)
}

func TestBestQuotesTrackActiveOrders(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	t2 := newTrader(2, 100, 10)
	s, _ := newTestSession(t1, t2)
	ctx := context.Background()

	s.Dispatch(ctx, limitEvent(1, 1, "4.00", 1))
	s.Dispatch(ctx, limitEvent(2, 1, "5.00", 1))
	s.Dispatch(ctx, limitEvent(1, 0, "7.00", 1))
	s.Dispatch(ctx, limitEvent(2, 0, "6.00", 1))

	require.NotNil(t, s.market.BestBid)
	require.NotNil(t, s.market.BestAsk)
	assert.True(t, s.market.BestBid.Equal(decimal.NewFromInt(5)))
	assert.True(t, s.market.BestAsk.Equal(decimal.NewFromInt(6)))

	// Cancelling the best bid reveals the next one.
	s.Dispatch(ctx, cancelEvent(2, 2))
	require.NotNil(t, s.market.BestBid)
	assert.True(t, s.market.BestBid.Equal(decimal.NewFromInt(4)))
}

func TestMarketStartAddressesOnlyRequester(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	t2 := newTrader(2, 100, 10)
	s, _ := newTestSession(t1, t2)

	views := s.Dispatch(context.Background(), Event{Op: OpMarketStart, Actor: 2})
	require.Len(t, views, 1)
	require.Contains(t, views, 2)
}

func TestEventsAfterDeadlineRejected(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	s, clock := newTestSession(t1)
	ctx := context.Background()

	clock.Advance(211 * time.Second)
	s.Dispatch(ctx, limitEvent(1, 1, "5.00", 1))

	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectMarketClosed, n.Kind)
	assert.Equal(t, "Cannot proceed: the market is closed.", n.Message)
	assert.Empty(t, s.book.All())
}

func TestDispatchUnknownParticipant(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	s, _ := newTestSession(t1)

	views := s.Dispatch(context.Background(), limitEvent(99, 1, "5.00", 1))
	assert.Nil(t, views)
	assert.Empty(t, s.notices)
}

func TestPublishedBookInCache(t *testing.T) {
	t1 := newTrader(1, 100, 10)
	cacheAdapter := in_memory.NewCache()
	clock := &fakeClock{now: time.Now()}
	market := &domain.Market{ID: "m-cache", Period: 1, MarketTime: 210}
	s := NewSession(zap.NewNop(), in_memory.NewRepo(), cacheAdapter, clock, market, []*domain.Trader{t1})

	s.Dispatch(context.Background(), limitEvent(1, 1, "3.00", 2))

	book, err := cacheAdapter.Book(context.Background(), "m-cache")
	require.NoError(t, err)
	require.NotNil(t, book)
	require.Len(t, book.Bids, 1)
	require.NotNil(t, book.BestBid)
	assert.True(t, book.BestBid.Equal(decimal.NewFromInt(3)))
}
