package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSatisfactionByPreference(t *testing.T) {
	assert.Equal(t, 6, Satisfaction(GoodA, Conventional))
	assert.Equal(t, 12, Satisfaction(GoodB, Conventional))
	assert.Equal(t, 12, Satisfaction(GoodA, Eco))
	assert.Equal(t, 6, Satisfaction(GoodB, Eco))
}

func TestGoodPrices(t *testing.T) {
	p, err := MoneyPrice(GoodA)
	assert.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(3)))

	p, err = MoneyPrice(GoodB)
	assert.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(2)))

	_, err = MoneyPrice(Good("X"))
	assert.Error(t, err)

	c, err := CreditCost(GoodA)
	assert.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = CreditCost(GoodB)
	assert.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestGoodsUtilityRecomputedFromHoldings(t *testing.T) {
	tr := &Trader{
		Preference:  Eco,
		GoodAQty:    2,
		GoodBQty:    1,
		CashHolding: decimal.NewFromInt(7),
	}
	assert.True(t, GoodsUtility(tr).Equal(decimal.NewFromInt(30)))
	assert.True(t, OverallUtility(tr).Equal(decimal.NewFromInt(37)))
}

func TestGoodsUtilityDefaultsToConventional(t *testing.T) {
	tr := &Trader{GoodAQty: 1}
	assert.True(t, GoodsUtility(tr).Equal(decimal.NewFromInt(6)))
}

func TestTradeInvolves(t *testing.T) {
	tr := &Trade{MakerID: 1, TakerID: 2}
	assert.True(t, tr.Involves(1))
	assert.True(t, tr.Involves(2))
	assert.False(t, tr.Involves(3))
}
