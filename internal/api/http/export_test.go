package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evapetschnigg/CDA/internal/adapter/in_memory"
	"github.com/evapetschnigg/CDA/internal/domain"
)

func TestWriteExport(t *testing.T) {
	repo := in_memory.NewRepo()
	ctx := context.Background()

	price := decimal.RequireFromString("5.00")
	require.NoError(t, repo.SaveLimit(ctx, &domain.LimitOrder{
		MarketID:        "m1",
		Period:          1,
		OfferID:         1,
		OrderID:         1,
		MakerID:         2,
		Price:           price,
		LimitVolume:     3,
		RemainingVolume: 3,
		Amount:          decimal.RequireFromString("15.00"),
		IsBid:           true,
		OfferTime:       1.5,
		Active:          true,
		After:           domain.BookState{BestBid: &price},
	}))
	require.NoError(t, repo.SaveTrade(ctx, &domain.Trade{
		MarketID: "m1", Period: 1, TransactionID: 1, OfferID: 1, OrderID: 2,
		MakerID: 2, TakerID: 3, SellerID: 3, BuyerID: 2,
		Price: price, TransactionVolume: 1, LimitVolume: 3, RemainingVolume: 2,
		Amount: price, IsBid: true, OfferTime: 1.5, TransactionTime: 2.0, Active: true,
	}))
	require.NoError(t, repo.SaveOrderEvent(ctx, &domain.OrderEvent{
		MarketID: "m1", Period: 1, OrderID: 1, OfferID: 1, MakerID: 2,
		OrderType: domain.OrderTypeLimit, Price: price, LimitVolume: 3,
		RemainingVolume: 3, Amount: decimal.RequireFromString("15.00"),
		IsBid: true, OfferTime: 1.5, OrderTime: 1.5, Active: true,
	}))
	require.NoError(t, repo.SaveQuote(ctx, &domain.QuoteObservation{
		MarketID: "m1", Period: 1, OrderID: 1, BestBid: &price,
		At: 1.5, Timing: "after", OperationType: "limit_order",
	}))
	require.NoError(t, repo.SaveNotice(ctx, &domain.Notice{
		MarketID: "m1", Period: 1, ParticipantID: 4,
		Kind:    domain.RejectRole,
		Message: "Cannot proceed: you are an observer who cannot place a bid/ask.",
		At:      3.0,
	}))

	var buf bytes.Buffer
	require.NoError(t, writeExport(ctx, &buf, repo, "m1"))

	// Blocks have different widths, so parse without a fixed field count.
	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	require.NoError(t, err)

	var tables []string
	byTable := make(map[string][][]string)
	for _, rec := range records {
		require.NotEmpty(t, rec)
		if rec[0] == "TableName" {
			continue
		}
		tables = append(tables, rec[0])
		byTable[rec[0]] = append(byTable[rec[0]], rec)
	}
	assert.Equal(t, []string{"Limits", "Transactions", "Orders", "BidAsks", "News"}, tables)

	limit := byTable["Limits"][0]
	assert.Equal(t, "m1", limit[1])
	assert.Equal(t, "1", limit[2])  // offerID
	assert.Equal(t, "5", limit[5])  // price
	assert.Equal(t, "1", limit[7])  // isBid
	assert.Equal(t, "", limit[13])  // bestBidBefore empty
	assert.Equal(t, "5", limit[15]) // bestBidAfter

	trade := byTable["Transactions"][0]
	assert.Equal(t, "1", trade[2])  // transactionID
	assert.Equal(t, "3", trade[9])  // sellerID
	assert.Equal(t, "2", trade[10]) // buyerID

	news := byTable["News"][0]
	assert.Equal(t, "4", news[3])
	assert.Equal(t, string(domain.RejectRole), news[4])
}

func TestWriteExportEmptyMarket(t *testing.T) {
	repo := in_memory.NewRepo()
	var buf bytes.Buffer
	require.NoError(t, writeExport(context.Background(), &buf, repo, "empty"))

	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	require.NoError(t, err)
	// Five header rows, nothing else.
	assert.Len(t, records, 5)
	for _, rec := range records {
		assert.Equal(t, "TableName", rec[0])
	}
}
