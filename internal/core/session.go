package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

// Operation types accepted by Dispatch.
const (
	OpLimitOrder  = "limit_order"
	OpCancelLimit = "cancel_limit"
	OpMarketOrder = "market_order"
	OpBuyGood     = "buy_good"
	OpMarketStart = "market_start"
)

// priceDecimals is the fixed precision of the experiment currency.
const priceDecimals = 2

// Event is one inbound participant request. Pointer fields are nil when
// the client omitted them; Quantity stays raw because the original client
// sends it as free text.
type Event struct {
	Op    string
	Actor int

	IsBid       *int
	LimitPrice  *decimal.Decimal
	LimitVolume *int

	MakerID           *int
	OfferID           *int
	TransactionPrice  *decimal.Decimal
	TransactionVolume *int

	Good     string
	Quantity string
}

// Session serializes all activity of one market: every event is processed
// as one atomic unit against the book and the traders' balances before the
// next one is admitted. Markets are independent; each has its own mutex.
type Session struct {
	log   *zap.Logger
	repo  port.Repository
	cache port.Cache
	clock port.Clock

	mu        sync.Mutex
	market    *domain.Market
	traders   map[int]*domain.Trader
	book      *OrderBook
	events    []*domain.OrderEvent
	trades    []*domain.Trade
	notices   []*domain.Notice
	seq       sequence
	startedAt time.Time
	closed    bool
}

func NewSession(log *zap.Logger, repo port.Repository, cache port.Cache, clock port.Clock, market *domain.Market, traders []*domain.Trader) *Session {
	s := &Session{
		log:     log,
		repo:    repo,
		cache:   cache,
		clock:   clock,
		market:  market,
		traders: make(map[int]*domain.Trader, len(traders)),
		book:    NewOrderBook(),
	}
	for _, t := range traders {
		s.traders[t.ID] = t
	}
	s.startedAt = clock.Now()
	return s
}

func (s *Session) Market() *domain.Market { return s.market }

func (s *Session) Trader(id int) (*domain.Trader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.traders[id]
	return t, ok
}

// Roster returns the participants ordered by ID.
func (s *Session) Roster() []*domain.Trader {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*domain.Trader, 0, len(s.traders))
	for _, t := range s.traders {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// elapsed is seconds since market open, rounded to the currency precision
// like every timestamp the experiment records.
func (s *Session) elapsed() float64 {
	secs := s.clock.Now().Sub(s.startedAt).Seconds()
	d := decimal.NewFromFloat(secs).Round(priceDecimals)
	f, _ := d.Float64()
	return f
}

// Dispatch routes one event, then rebuilds and broadcasts the book state.
// The returned map holds one view per participant; for market_start only
// the requesting participant is addressed.
func (s *Session) Dispatch(ctx context.Context, ev Event) map[int]*domain.ParticipantView {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.traders[ev.Actor]
	if !ok {
		s.log.Warn("event from unknown participant",
			zap.String("market", s.market.ID), zap.Int("participant", ev.Actor))
		return nil
	}

	s.recordQuote(ctx, "before", ev.Op)

	var purchase *domain.GoodsPurchase
	if s.periodOver() && ev.Op != OpMarketStart {
		s.notice(ctx, actor.ID, domain.RejectMarketClosed, "Cannot proceed: the market is closed.")
	} else {
		switch ev.Op {
		case OpLimitOrder:
			s.placeLimitOrder(ctx, actor, ev)
		case OpCancelLimit:
			s.cancelLimitOrder(ctx, actor, ev)
		case OpMarketOrder:
			s.acceptOrder(ctx, actor, ev)
		case OpBuyGood:
			purchase = s.buyGood(ctx, actor, ev)
		case OpMarketStart:
			// snapshot only
		default:
			s.log.Warn("unknown operation type", zap.String("op", ev.Op))
			return nil
		}
	}

	bids, asks := s.book.Rows()
	s.market.BestBid = s.book.BestBid()
	s.market.BestAsk = s.book.BestAsk()

	s.recordQuote(ctx, "after", ev.Op)
	s.publish(ctx, bids, asks)

	views := make(map[int]*domain.ParticipantView)
	if ev.Op == OpMarketStart {
		views[actor.ID] = s.viewFor(actor, bids, asks, nil)
		return views
	}
	for id, t := range s.traders {
		var p *domain.GoodsPurchase
		if id == actor.ID {
			p = purchase
		}
		views[id] = s.viewFor(t, bids, asks, p)
	}
	return views
}

func (s *Session) periodOver() bool {
	if s.closed {
		return true
	}
	return s.market.MarketTime > 0 && s.elapsed() >= s.market.MarketTime
}

// notice appends one rejection/info message addressed to a participant.
func (s *Session) notice(ctx context.Context, participantID int, kind domain.RejectKind, msg string) {
	n := &domain.Notice{
		MarketID:      s.market.ID,
		Period:        s.market.Period,
		ParticipantID: participantID,
		Kind:          kind,
		Message:       msg,
		At:            s.elapsed(),
	}
	s.notices = append(s.notices, n)
	if s.repo != nil {
		if err := s.repo.SaveNotice(ctx, n); err != nil {
			s.log.Warn("save notice", zap.Error(err))
		}
	}
}

func (s *Session) recordQuote(ctx context.Context, timing, op string) {
	if s.repo == nil {
		return
	}
	q := &domain.QuoteObservation{
		MarketID:      s.market.ID,
		Period:        s.market.Period,
		OrderID:       s.seq.order,
		BestBid:       s.market.BestBid,
		BestAsk:       s.market.BestAsk,
		At:            s.elapsed(),
		Timing:        timing,
		OperationType: op,
	}
	if err := s.repo.SaveQuote(ctx, q); err != nil {
		s.log.Warn("save quote observation", zap.Error(err))
	}
}

func (s *Session) publish(ctx context.Context, bids, asks []domain.BookRow) {
	if s.cache == nil {
		return
	}
	pb := &domain.PublishedBook{
		Bids:    bids,
		Asks:    asks,
		BestBid: s.market.BestBid,
		BestAsk: s.market.BestAsk,
		Series:  s.series(),
		At:      s.elapsed(),
	}
	if err := s.cache.SetBook(ctx, s.market.ID, pb); err != nil {
		s.log.Warn("publish book", zap.Error(err))
	}
}

func (s *Session) series() []domain.PricePoint {
	if len(s.trades) == 0 {
		return nil
	}
	pts := make([]domain.PricePoint, 0, len(s.trades))
	for _, t := range s.trades {
		pts = append(pts, domain.PricePoint{X: t.TransactionTime, Y: t.Price})
	}
	return pts
}

func (s *Session) viewFor(t *domain.Trader, bids, asks []domain.BookRow, purchase *domain.GoodsPurchase) *domain.ParticipantView {
	var trades []domain.TradeRow
	for _, tr := range s.trades {
		if !tr.Involves(t.ID) {
			continue
		}
		trades = append(trades, domain.TradeRow{
			Price:    tr.Price,
			Volume:   tr.TransactionVolume,
			At:       tr.TransactionTime,
			SellerID: tr.SellerID,
		})
	}
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].At > trades[j].At })

	var news []domain.NoticeRow
	for _, n := range s.notices {
		if n.ParticipantID != t.ID {
			continue
		}
		news = append(news, domain.NoticeRow{
			Message:       n.Message,
			At:            n.At,
			ParticipantID: n.ParticipantID,
		})
	}
	sort.SliceStable(news, func(i, j int) bool { return news[i].At > news[j].At })

	return &domain.ParticipantView{
		Bids:           bids,
		Asks:           asks,
		Trades:         trades,
		CashHolding:    t.CashHolding,
		AssetsHolding:  t.AssetsHolding,
		GoodAQty:       t.GoodAQty,
		GoodBQty:       t.GoodBQty,
		GoodsUtility:   t.GoodsUtility,
		OverallUtility: t.OverallUtility,
		Series:         s.series(),
		News:           news,
		GoodsTrade:     purchase,
	}
}

func (s *Session) offerIDTaken(id int) bool { return s.book.Contains(id) }

func (s *Session) orderIDTaken(id int) bool {
	for _, e := range s.events {
		if e.OrderID == id {
			return true
		}
	}
	return false
}

func (s *Session) transactionIDTaken(id int) bool {
	for _, t := range s.trades {
		if t.TransactionID == id {
			return true
		}
	}
	return false
}

func (s *Session) appendEvent(ctx context.Context, e *domain.OrderEvent) {
	s.events = append(s.events, e)
	if s.repo != nil {
		if err := s.repo.SaveOrderEvent(ctx, e); err != nil {
			s.log.Warn("save order event", zap.Error(err))
		}
	}
}
