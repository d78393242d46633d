package core

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evapetschnigg/CDA/internal/domain"
)

func TestCloseComputesPayoffs(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	t2 := newTrader(2, 25, 10)
	s, _ := newTestSession(t1, t2)
	ctx := context.Background()

	// One trade at 5.00: t1 sells, ending with 30 cash; t2 with 20 cash
	// plus the asset.
	s.Dispatch(ctx, limitEvent(1, 0, "5.00", 1))
	s.Dispatch(ctx, acceptEvent(2, 1, 1))

	s.Close()
	require.True(t, s.Closed())

	// t1: utility 30 vs 25 initial, +20%. Payoff 15 + 90*0.20 = 33.
	assert.True(t, t1.UtilityChangePercent.Equal(decimal.NewFromInt(20)),
		"got %s", t1.UtilityChangePercent)
	assert.True(t, t1.Payoff.Equal(decimal.NewFromInt(33)), "got %s", t1.Payoff)

	// t2: utility 20 vs 25 initial, -20%. Payoff 15 - 18 = -3, floored at 0.
	assert.True(t, t2.UtilityChangePercent.Equal(decimal.NewFromInt(-20)),
		"got %s", t2.UtilityChangePercent)
	assert.True(t, t2.Payoff.IsZero(), "got %s", t2.Payoff)
}

func TestCloseIsIdempotent(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	s, _ := newTestSession(t1)

	s.Close()
	first := t1.Payoff
	s.Close()
	assert.True(t, t1.Payoff.Equal(first))
}

func TestClosedMarketRejectsEvents(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	s, _ := newTestSession(t1)

	s.Close()
	s.Dispatch(context.Background(), limitEvent(1, 1, "5.00", 1))

	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectMarketClosed, n.Kind)
	assert.Empty(t, s.book.All())
}

func TestCloseSkipsObservers(t *testing.T) {
	obs := newObserver(1)
	s, _ := newTestSession(obs)

	s.Close()
	assert.True(t, obs.Payoff.IsZero())
	assert.True(t, obs.UtilityChangePercent.IsZero())
}
