package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/port"
)

var _ port.Repository = (*Repo)(nil)

// Repo is the Postgres audit store.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(ctx context.Context, dsn string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	r := &Repo{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: migrate: %w", err)
	}
	return r, nil
}

func (r *Repo) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func (r *Repo) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS limits (
			market_id TEXT NOT NULL,
			period INT NOT NULL,
			offer_id INT NOT NULL,
			order_id INT NOT NULL,
			maker_id INT NOT NULL,
			price NUMERIC NOT NULL,
			limit_volume INT NOT NULL,
			transacted_volume INT NOT NULL,
			remaining_volume INT NOT NULL,
			amount NUMERIC NOT NULL,
			is_bid BOOLEAN NOT NULL,
			offer_time DOUBLE PRECISION NOT NULL,
			is_active BOOLEAN NOT NULL,
			best_bid_before NUMERIC NULL,
			best_ask_before NUMERIC NULL,
			best_bid_after NUMERIC NULL,
			best_ask_after NUMERIC NULL,
			PRIMARY KEY (market_id, offer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_events (
			market_id TEXT NOT NULL,
			period INT NOT NULL,
			order_id INT NOT NULL,
			offer_id INT NOT NULL,
			transaction_id INT NOT NULL,
			maker_id INT NOT NULL,
			taker_id INT NOT NULL,
			seller_id INT NOT NULL,
			buyer_id INT NOT NULL,
			order_type TEXT NOT NULL,
			price NUMERIC NOT NULL,
			limit_volume INT NOT NULL,
			transaction_volume INT NOT NULL,
			transacted_volume INT NOT NULL,
			remaining_volume INT NOT NULL,
			amount NUMERIC NOT NULL,
			is_bid BOOLEAN NOT NULL,
			offer_time DOUBLE PRECISION NOT NULL,
			order_time DOUBLE PRECISION NOT NULL,
			transaction_time DOUBLE PRECISION NOT NULL,
			is_active BOOLEAN NOT NULL,
			best_bid_before NUMERIC NULL,
			best_ask_before NUMERIC NULL,
			best_bid_after NUMERIC NULL,
			best_ask_after NUMERIC NULL,
			PRIMARY KEY (market_id, order_id)
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			market_id TEXT NOT NULL,
			period INT NOT NULL,
			transaction_id INT NOT NULL,
			offer_id INT NOT NULL,
			order_id INT NOT NULL,
			maker_id INT NOT NULL,
			taker_id INT NOT NULL,
			seller_id INT NOT NULL,
			buyer_id INT NOT NULL,
			price NUMERIC NOT NULL,
			transaction_volume INT NOT NULL,
			limit_volume INT NOT NULL,
			remaining_volume INT NOT NULL,
			amount NUMERIC NOT NULL,
			is_bid BOOLEAN NOT NULL,
			offer_time DOUBLE PRECISION NOT NULL,
			transaction_time DOUBLE PRECISION NOT NULL,
			is_active BOOLEAN NOT NULL,
			best_bid_before NUMERIC NULL,
			best_ask_before NUMERIC NULL,
			best_bid_after NUMERIC NULL,
			best_ask_after NUMERIC NULL,
			PRIMARY KEY (market_id, transaction_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notices (
			market_id TEXT NOT NULL,
			period INT NOT NULL,
			participant_id INT NOT NULL,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			at DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			market_id TEXT NOT NULL,
			period INT NOT NULL,
			order_id INT NOT NULL,
			best_bid NUMERIC NULL,
			best_ask NUMERIC NULL,
			at DOUBLE PRECISION NOT NULL,
			timing TEXT NOT NULL,
			operation_type TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) SaveLimit(ctx context.Context, o *domain.LimitOrder) error {
	if o == nil {
		return errors.New("nil limit order")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO limits(market_id, period, offer_id, order_id, maker_id, price, limit_volume,
  transacted_volume, remaining_volume, amount, is_bid, offer_time, is_active,
  best_bid_before, best_ask_before, best_bid_after, best_ask_after)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`, o.MarketID, o.Period, o.OfferID, o.OrderID, o.MakerID, o.Price, o.LimitVolume,
		o.TransactedVolume, o.RemainingVolume, o.Amount, o.IsBid, o.OfferTime, o.Active,
		o.Before.BestBid, o.Before.BestAsk, o.After.BestBid, o.After.BestAsk)
	return err
}

func (r *Repo) UpdateLimit(ctx context.Context, o *domain.LimitOrder) error {
	if o == nil {
		return errors.New("nil limit order")
	}
	_, err := r.pool.Exec(ctx, `
UPDATE limits
SET transacted_volume = $1, remaining_volume = $2, is_active = $3
WHERE market_id = $4 AND offer_id = $5
`, o.TransactedVolume, o.RemainingVolume, o.Active, o.MarketID, o.OfferID)
	return err
}

func (r *Repo) SaveOrderEvent(ctx context.Context, e *domain.OrderEvent) error {
	if e == nil {
		return errors.New("nil order event")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO order_events(market_id, period, order_id, offer_id, transaction_id, maker_id,
  taker_id, seller_id, buyer_id, order_type, price, limit_volume, transaction_volume,
  transacted_volume, remaining_volume, amount, is_bid, offer_time, order_time,
  transaction_time, is_active, best_bid_before, best_ask_before, best_bid_after, best_ask_after)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
`, e.MarketID, e.Period, e.OrderID, e.OfferID, e.TransactionID, e.MakerID,
		e.TakerID, e.SellerID, e.BuyerID, e.OrderType, e.Price, e.LimitVolume, e.TransactionVolume,
		e.TransactedVolume, e.RemainingVolume, e.Amount, e.IsBid, e.OfferTime, e.OrderTime,
		e.TransactionTime, e.Active, e.Before.BestBid, e.Before.BestAsk, e.After.BestBid, e.After.BestAsk)
	return err
}

func (r *Repo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return errors.New("nil trade")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO trades(market_id, period, transaction_id, offer_id, order_id, maker_id, taker_id,
  seller_id, buyer_id, price, transaction_volume, limit_volume, remaining_volume, amount,
  is_bid, offer_time, transaction_time, is_active, best_bid_before, best_ask_before,
  best_bid_after, best_ask_after)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
`, t.MarketID, t.Period, t.TransactionID, t.OfferID, t.OrderID, t.MakerID, t.TakerID,
		t.SellerID, t.BuyerID, t.Price, t.TransactionVolume, t.LimitVolume, t.RemainingVolume, t.Amount,
		t.IsBid, t.OfferTime, t.TransactionTime, t.Active, t.Before.BestBid, t.Before.BestAsk,
		t.After.BestBid, t.After.BestAsk)
	return err
}

func (r *Repo) SaveNotice(ctx context.Context, n *domain.Notice) error {
	if n == nil {
		return errors.New("nil notice")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO notices(market_id, period, participant_id, kind, message, at)
VALUES($1,$2,$3,$4,$5,$6)
`, n.MarketID, n.Period, n.ParticipantID, string(n.Kind), n.Message, n.At)
	return err
}

func (r *Repo) SaveQuote(ctx context.Context, q *domain.QuoteObservation) error {
	if q == nil {
		return errors.New("nil quote observation")
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO quotes(market_id, period, order_id, best_bid, best_ask, at, timing, operation_type)
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
`, q.MarketID, q.Period, q.OrderID, q.BestBid, q.BestAsk, q.At, q.Timing, q.OperationType)
	return err
}

func (r *Repo) Limits(ctx context.Context, marketID string) ([]*domain.LimitOrder, error) {
	rows, err := r.pool.Query(ctx, `
SELECT period, offer_id, order_id, maker_id, price, limit_volume, transacted_volume,
  remaining_volume, amount, is_bid, offer_time, is_active,
  best_bid_before, best_ask_before, best_bid_after, best_ask_after
FROM limits WHERE market_id = $1 ORDER BY offer_id
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.LimitOrder
	for rows.Next() {
		o := &domain.LimitOrder{MarketID: marketID}
		if err := rows.Scan(&o.Period, &o.OfferID, &o.OrderID, &o.MakerID, &o.Price,
			&o.LimitVolume, &o.TransactedVolume, &o.RemainingVolume, &o.Amount, &o.IsBid,
			&o.OfferTime, &o.Active,
			&o.Before.BestBid, &o.Before.BestAsk, &o.After.BestBid, &o.After.BestAsk); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

func (r *Repo) OrderEvents(ctx context.Context, marketID string) ([]*domain.OrderEvent, error) {
	rows, err := r.pool.Query(ctx, `
SELECT period, order_id, offer_id, transaction_id, maker_id, taker_id, seller_id, buyer_id,
  order_type, price, limit_volume, transaction_volume, transacted_volume, remaining_volume,
  amount, is_bid, offer_time, order_time, transaction_time, is_active,
  best_bid_before, best_ask_before, best_bid_after, best_ask_after
FROM order_events WHERE market_id = $1 ORDER BY order_id
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.OrderEvent
	for rows.Next() {
		e := &domain.OrderEvent{MarketID: marketID}
		if err := rows.Scan(&e.Period, &e.OrderID, &e.OfferID, &e.TransactionID, &e.MakerID,
			&e.TakerID, &e.SellerID, &e.BuyerID, &e.OrderType, &e.Price, &e.LimitVolume,
			&e.TransactionVolume, &e.TransactedVolume, &e.RemainingVolume, &e.Amount, &e.IsBid,
			&e.OfferTime, &e.OrderTime, &e.TransactionTime, &e.Active,
			&e.Before.BestBid, &e.Before.BestAsk, &e.After.BestBid, &e.After.BestAsk); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r *Repo) Trades(ctx context.Context, marketID string) ([]*domain.Trade, error) {
	rows, err := r.pool.Query(ctx, `
SELECT period, transaction_id, offer_id, order_id, maker_id, taker_id, seller_id, buyer_id,
  price, transaction_volume, limit_volume, remaining_volume, amount, is_bid, offer_time,
  transaction_time, is_active, best_bid_before, best_ask_before, best_bid_after, best_ask_after
FROM trades WHERE market_id = $1 ORDER BY transaction_id
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		t := &domain.Trade{MarketID: marketID}
		if err := rows.Scan(&t.Period, &t.TransactionID, &t.OfferID, &t.OrderID, &t.MakerID,
			&t.TakerID, &t.SellerID, &t.BuyerID, &t.Price, &t.TransactionVolume, &t.LimitVolume,
			&t.RemainingVolume, &t.Amount, &t.IsBid, &t.OfferTime, &t.TransactionTime, &t.Active,
			&t.Before.BestBid, &t.Before.BestAsk, &t.After.BestBid, &t.After.BestAsk); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *Repo) Notices(ctx context.Context, marketID string) ([]*domain.Notice, error) {
	rows, err := r.pool.Query(ctx, `
SELECT period, participant_id, kind, message, at FROM notices WHERE market_id = $1 ORDER BY at
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

func (r *Repo) Quotes(ctx context.Context, marketID string) ([]*domain.QuoteObservation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT period, order_id, best_bid, best_ask, at, timing, operation_type
FROM quotes WHERE market_id = $1 ORDER BY at
`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.QuoteObservation
	for rows.Next() {
		q := &domain.QuoteObservation{MarketID: marketID}
		if err := rows.Scan(&q.Period, &q.OrderID, &q.BestBid, &q.BestAsk, &q.At, &q.Timing, &q.OperationType); err != nil {
			return nil, err
		}
		res = append(res, q)
	}
	return res, rows.Err()
}
