package http

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/evapetschnigg/CDA/internal/port"
)

// writeExport streams the full audit trail of one market as CSV, one block
// per table with its own header row, in the layout the analysis scripts
// expect.
func writeExport(ctx context.Context, w io.Writer, repo port.Repository, marketID string) error {
	cw := csv.NewWriter(w)

	limits, err := repo.Limits(ctx, marketID)
	if err != nil {
		return err
	}
	if err := cw.Write([]string{"TableName", "marketID", "offerID", "Period", "maker",
		"price", "limitVolume", "isBid", "orderID", "offerTime", "remainingVolume",
		"isActive", "bestAskBefore", "bestBidBefore", "bestAskAfter", "bestBidAfter"}); err != nil {
		return err
	}
	for _, l := range limits {
		if err := cw.Write([]string{"Limits", l.MarketID, itoa(l.OfferID), itoa(l.Period),
			itoa(l.MakerID), l.Price.String(), itoa(l.LimitVolume), fmtBool(l.IsBid),
			itoa(l.OrderID), fmtSecs(l.OfferTime), itoa(l.RemainingVolume), fmtBool(l.Active),
			fmtQuote(l.Before.BestAsk), fmtQuote(l.Before.BestBid),
			fmtQuote(l.After.BestAsk), fmtQuote(l.After.BestBid)}); err != nil {
			return err
		}
	}

	trades, err := repo.Trades(ctx, marketID)
	if err != nil {
		return err
	}
	if err := cw.Write([]string{"TableName", "marketID", "transactionID", "Period", "maker",
		"taker", "price", "transactionVolume", "limitVolume", "sellerID", "buyerID", "isBid",
		"offerID", "orderID", "offerTime", "transactionTime", "remainingVolume", "isActive",
		"bestAskBefore", "bestBidBefore", "bestAskAfter", "bestBidAfter"}); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write([]string{"Transactions", t.MarketID, itoa(t.TransactionID), itoa(t.Period),
			itoa(t.MakerID), itoa(t.TakerID), t.Price.String(), itoa(t.TransactionVolume),
			itoa(t.LimitVolume), itoa(t.SellerID), itoa(t.BuyerID), fmtBool(t.IsBid),
			itoa(t.OfferID), itoa(t.OrderID), fmtSecs(t.OfferTime), fmtSecs(t.TransactionTime),
			itoa(t.RemainingVolume), fmtBool(t.Active),
			fmtQuote(t.Before.BestAsk), fmtQuote(t.Before.BestBid),
			fmtQuote(t.After.BestAsk), fmtQuote(t.After.BestBid)}); err != nil {
			return err
		}
	}

	events, err := repo.OrderEvents(ctx, marketID)
	if err != nil {
		return err
	}
	if err := cw.Write([]string{"TableName", "marketID", "orderID", "orderType", "Period",
		"maker", "taker", "price", "transactionVolume", "limitVolume", "sellerID", "buyerID",
		"isBid", "offerID", "transactionID", "offerTime", "transactionTime", "remainingVolume",
		"isActive", "bestAskBefore", "bestBidBefore", "bestAskAfter", "bestBidAfter"}); err != nil {
		return err
	}
	for _, o := range events {
		if err := cw.Write([]string{"Orders", o.MarketID, itoa(o.OrderID), o.OrderType, itoa(o.Period),
			itoa(o.MakerID), itoa(o.TakerID), o.Price.String(), itoa(o.TransactionVolume),
			itoa(o.LimitVolume), itoa(o.SellerID), itoa(o.BuyerID), fmtBool(o.IsBid),
			itoa(o.OfferID), itoa(o.TransactionID), fmtSecs(o.OfferTime), fmtSecs(o.TransactionTime),
			itoa(o.RemainingVolume), fmtBool(o.Active),
			fmtQuote(o.Before.BestAsk), fmtQuote(o.Before.BestBid),
			fmtQuote(o.After.BestAsk), fmtQuote(o.After.BestBid)}); err != nil {
			return err
		}
	}

	quotes, err := repo.Quotes(ctx, marketID)
	if err != nil {
		return err
	}
	if err := cw.Write([]string{"TableName", "marketID", "orderID", "operationType", "Period",
		"bestAsk", "bestBid", "BATime", "timing"}); err != nil {
		return err
	}
	for _, q := range quotes {
		if err := cw.Write([]string{"BidAsks", q.MarketID, itoa(q.OrderID), q.OperationType,
			itoa(q.Period), fmtQuote(q.BestAsk), fmtQuote(q.BestBid), fmtSecs(q.At), q.Timing}); err != nil {
			return err
		}
	}

	notices, err := repo.Notices(ctx, marketID)
	if err != nil {
		return err
	}
	if err := cw.Write([]string{"TableName", "marketID", "Period", "playerID", "kind", "msg", "msgTime"}); err != nil {
		return err
	}
	for _, n := range notices {
		if err := cw.Write([]string{"News", n.MarketID, itoa(n.Period), itoa(n.ParticipantID),
			string(n.Kind), n.Message, fmtSecs(n.At)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func itoa(v int) string { return strconv.Itoa(v) }

func fmtBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func fmtSecs(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func fmtQuote(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
