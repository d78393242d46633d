package in_memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evapetschnigg/CDA/internal/domain"
)

func TestRepoSegregatesMarkets(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	require.NoError(t, r.SaveLimit(ctx, &domain.LimitOrder{MarketID: "m1", OfferID: 1}))
	require.NoError(t, r.SaveLimit(ctx, &domain.LimitOrder{MarketID: "m2", OfferID: 1}))
	require.NoError(t, r.SaveTrade(ctx, &domain.Trade{MarketID: "m1", TransactionID: 1}))
	require.NoError(t, r.SaveNotice(ctx, &domain.Notice{MarketID: "m1", ParticipantID: 3}))
	require.NoError(t, r.SaveOrderEvent(ctx, &domain.OrderEvent{MarketID: "m1", OrderID: 1}))
	require.NoError(t, r.SaveQuote(ctx, &domain.QuoteObservation{MarketID: "m1", Timing: "before"}))

	limits, err := r.Limits(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, limits, 1)

	limits, err = r.Limits(ctx, "m2")
	require.NoError(t, err)
	assert.Len(t, limits, 1)

	trades, err := r.Trades(ctx, "m2")
	require.NoError(t, err)
	assert.Empty(t, trades)

	notices, err := r.Notices(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, 3, notices[0].ParticipantID)

	quotes, err := r.Quotes(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "before", quotes[0].Timing)
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	missing, err := c.Book(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	best := decimal.NewFromInt(5)
	book := &domain.PublishedBook{
		Bids:    []domain.BookRow{{Price: best, Remaining: 2, OfferID: 1, MakerID: 1}},
		BestBid: &best,
		At:      1.25,
	}
	require.NoError(t, c.SetBook(ctx, "m1", book))

	got, err := c.Book(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Bids, 1)
	require.NotNil(t, got.BestBid)
	assert.True(t, got.BestBid.Equal(best))
	assert.Equal(t, 1.25, got.At)
}
