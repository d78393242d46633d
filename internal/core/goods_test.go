package core

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evapetschnigg/CDA/internal/domain"
)

func buyEvent(actor int, good, quantity string) Event {
	return Event{Op: OpBuyGood, Actor: actor, Good: good, Quantity: quantity}
}

func TestBuyGoodA(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	s, _ := newTestSession(t1)

	views := s.Dispatch(context.Background(), buyEvent(1, "A", "2"))

	// Good A costs 3.00 plus one credit per unit.
	assert.Equal(t, 2, t1.GoodAQty)
	assert.True(t, t1.CashHolding.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, 8, t1.AssetsHolding)

	// Conventional preference: 6 points per unit of A.
	assert.True(t, t1.GoodsUtility.Equal(decimal.NewFromInt(12)))
	assert.True(t, t1.OverallUtility.Equal(decimal.NewFromInt(31)))

	require.NotNil(t, views[1].GoodsTrade)
	assert.Equal(t, domain.GoodA, views[1].GoodsTrade.Good)
	assert.Equal(t, 2, views[1].GoodsTrade.Quantity)
}

func TestBuyGoodBEcoPreference(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	t1.Preference = domain.Eco
	s, _ := newTestSession(t1)

	s.Dispatch(context.Background(), buyEvent(1, "B", "1"))

	assert.Equal(t, 1, t1.GoodBQty)
	assert.True(t, t1.CashHolding.Equal(decimal.NewFromInt(23)))
	assert.Equal(t, 7, t1.AssetsHolding)
	// Eco preference values B at 6 points.
	assert.True(t, t1.GoodsUtility.Equal(decimal.NewFromInt(6)))
}

func TestBuyGoodRejectionIsAtomic(t *testing.T) {
	t1 := newTrader(1, 10, 2)
	s, _ := newTestSession(t1)

	// 3 units of A need 9.00 cash and 3 credits; only 2 credits held.
	s.Dispatch(context.Background(), buyEvent(1, "A", "3"))

	n := lastNotice(t, s, 1)
	assert.Equal(t, domain.RejectInsufficient, n.Kind)
	assert.Equal(t, "Cannot proceed: insufficient funds or assets.", n.Message)
	assert.Equal(t, 0, t1.GoodAQty)
	assert.True(t, t1.CashHolding.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, t1.AssetsHolding)
}

func TestBuyGoodMalformed(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	s, _ := newTestSession(t1)
	ctx := context.Background()

	s.Dispatch(ctx, buyEvent(1, "A", "two"))
	n := lastNotice(t, s, 1)
	assert.Equal(t, "Cannot proceed: invalid quantity.", n.Message)

	s.Dispatch(ctx, buyEvent(1, "A", "0"))
	n = lastNotice(t, s, 1)
	assert.Equal(t, "Cannot proceed: quantity must be positive.", n.Message)

	s.Dispatch(ctx, buyEvent(1, "C", "1"))
	n = lastNotice(t, s, 1)
	assert.Equal(t, "Cannot proceed: invalid good.", n.Message)

	assert.Equal(t, 0, t1.GoodAQty)
	assert.Equal(t, 0, t1.GoodBQty)
	assert.True(t, t1.CashHolding.Equal(decimal.NewFromInt(25)))
}

func TestBuyGoodEchoedToBuyerOnly(t *testing.T) {
	t1 := newTrader(1, 25, 10)
	t2 := newTrader(2, 25, 10)
	s, _ := newTestSession(t1, t2)

	views := s.Dispatch(context.Background(), buyEvent(1, "B", "1"))

	require.NotNil(t, views[1].GoodsTrade)
	assert.Nil(t, views[2].GoodsTrade)
}
