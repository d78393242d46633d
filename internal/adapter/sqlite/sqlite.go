package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

var _ port.Repository = (*Store)(nil)

// Store is the embedded audit store used on lab machines that run the
// whole session from one laptop, no Postgres required.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store and runs migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS limits (
			market_id TEXT NOT NULL,
			period INTEGER NOT NULL,
			offer_id INTEGER NOT NULL,
			order_id INTEGER NOT NULL,
			maker_id INTEGER NOT NULL,
			price TEXT NOT NULL,
			limit_volume INTEGER NOT NULL,
			transacted_volume INTEGER NOT NULL,
			remaining_volume INTEGER NOT NULL,
			amount TEXT NOT NULL,
			is_bid INTEGER NOT NULL,
			offer_time REAL NOT NULL,
			is_active INTEGER NOT NULL,
			best_bid_before TEXT NULL,
			best_ask_before TEXT NULL,
			best_bid_after TEXT NULL,
			best_ask_after TEXT NULL,
			PRIMARY KEY (market_id, offer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_events (
			market_id TEXT NOT NULL,
			period INTEGER NOT NULL,
			order_id INTEGER NOT NULL,
			offer_id INTEGER NOT NULL,
			transaction_id INTEGER NOT NULL,
			maker_id INTEGER NOT NULL,
			taker_id INTEGER NOT NULL,
			seller_id INTEGER NOT NULL,
			buyer_id INTEGER NOT NULL,
			order_type TEXT NOT NULL,
			price TEXT NOT NULL,
			limit_volume INTEGER NOT NULL,
			transaction_volume INTEGER NOT NULL,
			transacted_volume INTEGER NOT NULL,
			remaining_volume INTEGER NOT NULL,
			amount TEXT NOT NULL,
			is_bid INTEGER NOT NULL,
			offer_time REAL NOT NULL,
			order_time REAL NOT NULL,
			transaction_time REAL NOT NULL,
			is_active INTEGER NOT NULL,
			best_bid_before TEXT NULL,
			best_ask_before TEXT NULL,
			best_bid_after TEXT NULL,
			best_ask_after TEXT NULL,
			PRIMARY KEY (market_id, order_id)
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			market_id TEXT NOT NULL,
			period INTEGER NOT NULL,
			transaction_id INTEGER NOT NULL,
			offer_id INTEGER NOT NULL,
			order_id INTEGER NOT NULL,
			maker_id INTEGER NOT NULL,
			taker_id INTEGER NOT NULL,
			seller_id INTEGER NOT NULL,
			buyer_id INTEGER NOT NULL,
			price TEXT NOT NULL,
			transaction_volume INTEGER NOT NULL,
			limit_volume INTEGER NOT NULL,
			remaining_volume INTEGER NOT NULL,
			amount TEXT NOT NULL,
			is_bid INTEGER NOT NULL,
			offer_time REAL NOT NULL,
			transaction_time REAL NOT NULL,
			is_active INTEGER NOT NULL,
			best_bid_before TEXT NULL,
			best_ask_before TEXT NULL,
			best_bid_after TEXT NULL,
			best_ask_after TEXT NULL,
			PRIMARY KEY (market_id, transaction_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notices (
			market_id TEXT NOT NULL,
			period INTEGER NOT NULL,
			participant_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			at REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			market_id TEXT NOT NULL,
			period INTEGER NOT NULL,
			order_id INTEGER NOT NULL,
			best_bid TEXT NULL,
			best_ask TEXT NULL,
			at REAL NOT NULL,
			timing TEXT NOT NULL,
			operation_type TEXT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func nullDec(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

func (s *Store) SaveLimit(ctx context.Context, o *domain.LimitOrder) error {
	if o == nil {
		return errors.New("nil limit order")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO limits(market_id, period, offer_id, order_id, maker_id, price, limit_volume,
  transacted_volume, remaining_volume, amount, is_bid, offer_time, is_active,
  best_bid_before, best_ask_before, best_bid_after, best_ask_after)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`, o.MarketID, o.Period, o.OfferID, o.OrderID, o.MakerID, o.Price, o.LimitVolume,
		o.TransactedVolume, o.RemainingVolume, o.Amount, o.IsBid, o.OfferTime, o.Active,
		nullDec(o.Before.BestBid), nullDec(o.Before.BestAsk), nullDec(o.After.BestBid), nullDec(o.After.BestAsk))
	return err
}

func (s *Store) UpdateLimit(ctx context.Context, o *domain.LimitOrder) error {
	if o == nil {
		return errors.New("nil limit order")
	}
	_, err := s.db.ExecContext(ctx, `
UPDATE limits SET transacted_volume = ?, remaining_volume = ?, is_active = ?
WHERE market_id = ? AND offer_id = ?
`, o.TransactedVolume, o.RemainingVolume, o.Active, o.MarketID, o.OfferID)
	return err
}

func (s *Store) SaveOrderEvent(ctx context.Context, e *domain.OrderEvent) error {
	if e == nil {
		return errors.New("nil order event")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO order_events(market_id, period, order_id, offer_id, transaction_id, maker_id,
  taker_id, seller_id, buyer_id, order_type, price, limit_volume, transaction_volume,
  transacted_volume, remaining_volume, amount, is_bid, offer_time, order_time,
  transaction_time, is_active, best_bid_before, best_ask_before, best_bid_after, best_ask_after)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`, e.MarketID, e.Period, e.OrderID, e.OfferID, e.TransactionID, e.MakerID,
		e.TakerID, e.SellerID, e.BuyerID, e.OrderType, e.Price, e.LimitVolume, e.TransactionVolume,
		e.TransactedVolume, e.RemainingVolume, e.Amount, e.IsBid, e.OfferTime, e.OrderTime,
		e.TransactionTime, e.Active,
		nullDec(e.Before.BestBid), nullDec(e.Before.BestAsk), nullDec(e.After.BestBid), nullDec(e.After.BestAsk))
	return err
}

func (s *Store) SaveTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return errors.New("nil trade")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO trades(market_id, period, transaction_id, offer_id, order_id, maker_id, taker_id,
  seller_id, buyer_id, price, transaction_volume, limit_volume, remaining_volume, amount,
  is_bid, offer_time, transaction_time, is_active, best_bid_before, best_ask_before,
  best_bid_after, best_ask_after)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`, t.MarketID, t.Period, t.TransactionID, t.OfferID, t.OrderID, t.MakerID, t.TakerID,
		t.SellerID, t.BuyerID, t.Price, t.TransactionVolume, t.LimitVolume, t.RemainingVolume, t.Amount,
		t.IsBid, t.OfferTime, t.TransactionTime, t.Active,
		nullDec(t.Before.BestBid), nullDec(t.Before.BestAsk), nullDec(t.After.BestBid), nullDec(t.After.BestAsk))
	return err
}

func (s *Store) SaveNotice(ctx context.Context, n *domain.Notice) error {
	if n == nil {
		return errors.New("nil notice")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO notices(market_id, period, participant_id, kind, message, at) VALUES(?,?,?,?,?,?)
`, n.MarketID, n.Period, n.ParticipantID, string(n.Kind), n.Message, n.At)
	return err
}

func (s *Store) SaveQuote(ctx context.Context, q *domain.QuoteObservation) error {
	if q == nil {
		return errors.New("nil quote observation")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO quotes(market_id, period, order_id, best_bid, best_ask, at, timing, operation_type)
VALUES(?,?,?,?,?,?,?,?)
`, q.MarketID, q.Period, q.OrderID, nullDec(q.BestBid), nullDec(q.BestAsk), q.At, q.Timing, q.OperationType)
	return err
}

func (s *Store) Limits(ctx context.Context, marketID string) ([]*domain.LimitOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT period, offer_id, order_id, maker_id, price, limit_volume, transacted_volume,
  remaining_volume, amount, is_bid, offer_time, is_active,
  best_bid_before, best_ask_before, best_bid_after, best_ask_after
FROM limits WHERE market_id = ? ORDER BY offer_id
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.LimitOrder
	for rows.Next() {
		o := &domain.LimitOrder{MarketID: marketID}
		var bb, ba, ab, aa decimal.NullDecimal
		if err := rows.Scan(&o.Period, &o.OfferID, &o.OrderID, &o.MakerID, &o.Price,
			&o.LimitVolume, &o.TransactedVolume, &o.RemainingVolume, &o.Amount, &o.IsBid,
			&o.OfferTime, &o.Active, &bb, &ba, &ab, &aa); err != nil {
			return nil, err
		}
		o.Before = domain.BookState{BestBid: decPtr(bb), BestAsk: decPtr(ba)}
		o.After = domain.BookState{BestBid: decPtr(ab), BestAsk: decPtr(aa)}
		res = append(res, o)
	}
	return res, rows.Err()
}

func (s *Store) OrderEvents(ctx context.Context, marketID string) ([]*domain.OrderEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT period, order_id, offer_id, transaction_id, maker_id, taker_id, seller_id, buyer_id,
  order_type, price, limit_volume, transaction_volume, transacted_volume, remaining_volume,
  amount, is_bid, offer_time, order_time, transaction_time, is_active,
  best_bid_before, best_ask_before, best_bid_after, best_ask_after
FROM order_events WHERE market_id = ? ORDER BY order_id
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.OrderEvent
	for rows.Next() {
		e := &domain.OrderEvent{MarketID: marketID}
		var bb, ba, ab, aa decimal.NullDecimal
		if err := rows.Scan(&e.Period, &e.OrderID, &e.OfferID, &e.TransactionID, &e.MakerID,
			&e.TakerID, &e.SellerID, &e.BuyerID, &e.OrderType, &e.Price, &e.LimitVolume,
			&e.TransactionVolume, &e.TransactedVolume, &e.RemainingVolume, &e.Amount, &e.IsBid,
			&e.OfferTime, &e.OrderTime, &e.TransactionTime, &e.Active, &bb, &ba, &ab, &aa); err != nil {
			return nil, err
		}
		e.Before = domain.BookState{BestBid: decPtr(bb), BestAsk: decPtr(ba)}
		e.After = domain.BookState{BestBid: decPtr(ab), BestAsk: decPtr(aa)}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (s *Store) Trades(ctx context.Context, marketID string) ([]*domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT period, transaction_id, offer_id, order_id, maker_id, taker_id, seller_id, buyer_id,
  price, transaction_volume, limit_volume, remaining_volume, amount, is_bid, offer_time,
  transaction_time, is_active, best_bid_before, best_ask_before, best_bid_after, best_ask_after
FROM trades WHERE market_id = ? ORDER BY transaction_id
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		t := &domain.Trade{MarketID: marketID}
		var bb, ba, ab, aa decimal.NullDecimal
		if err := rows.Scan(&t.Period, &t.TransactionID, &t.OfferID, &t.OrderID, &t.MakerID,
			&t.TakerID, &t.SellerID, &t.BuyerID, &t.Price, &t.TransactionVolume, &t.LimitVolume,
			&t.RemainingVolume, &t.Amount, &t.IsBid, &t.OfferTime, &t.TransactionTime, &t.Active,
			&bb, &ba, &ab, &aa); err != nil {
			return nil, err
		}
		t.Before = domain.BookState{BestBid: decPtr(bb), BestAsk: decPtr(ba)}
		t.After = domain.BookState{BestBid: decPtr(ab), BestAsk: decPtr(aa)}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *Store) Notices(ctx context.Context, marketID string) ([]*domain.Notice, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT period, participant_id, kind, message, at FROM notices WHERE market_id = ? ORDER BY at
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Notice
	for rows.Next() {
		n := &domain.Notice{MarketID: marketID}
		var kind string
		if err := rows.Scan(&n.Period, &n.ParticipantID, &kind, &n.Message, &n.At); err != nil {
			return nil, err
		}
		n.Kind = domain.RejectKind(kind)
		res = append(res, n)
	}
	return res, rows.Err()
}

func (s *Store) Quotes(ctx context.Context, marketID string) ([]*domain.QuoteObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT period, order_id, best_bid, best_ask, at, timing, operation_type
FROM quotes WHERE market_id = ? ORDER BY at
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.QuoteObservation
	for rows.Next() {
		q := &domain.QuoteObservation{MarketID: marketID}
		var bb, ba decimal.NullDecimal
		if err := rows.Scan(&q.Period, &q.OrderID, &bb, &ba, &q.At, &q.Timing, &q.OperationType); err != nil {
			return nil, err
		}
		q.BestBid = decPtr(bb)
		q.BestAsk = decPtr(ba)
		res = append(res, q)
	}
	return res, rows.Err()
}
