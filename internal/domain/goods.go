package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// The goods market is fixed-price: each good costs a constant amount of
// money plus a constant number of carbon credits, and yields a constant
// per-unit satisfaction that depends on the buyer's preference type.
type Good string

const (
	GoodA Good = "A" // low-carbon good: money 3, credits 1
	GoodB Good = "B" // high-carbon good: money 2, credits 3
)

const (
	satisfactionConventionalA = 6
	satisfactionConventionalB = 12
	satisfactionEcoA          = 12
	satisfactionEcoB          = 6
)

var (
	goodAMoneyPrice = decimal.NewFromInt(3)
	goodBMoneyPrice = decimal.NewFromInt(2)
)

func MoneyPrice(g Good) (decimal.Decimal, error) {
	switch g {
	case GoodA:
		return goodAMoneyPrice, nil
	case GoodB:
		return goodBMoneyPrice, nil
	}
	return decimal.Zero, fmt.Errorf("invalid good: %q", g)
}

func CreditCost(g Good) (int, error) {
	switch g {
	case GoodA:
		return 1, nil
	case GoodB:
		return 3, nil
	}
	return 0, fmt.Errorf("invalid good: %q", g)
}

func Satisfaction(g Good, p Preference) int {
	if p == Eco {
		if g == GoodA {
			return satisfactionEcoA
		}
		return satisfactionEcoB
	}
	if g == GoodA {
		return satisfactionConventionalA
	}
	return satisfactionConventionalB
}

// GoodsUtility is the satisfaction-point total of a trader's goods
// holdings. Recomputed from scratch on every mutation so it can never
// drift from the holdings.
func GoodsUtility(t *Trader) decimal.Decimal {
	pref := t.Preference
	if pref == "" {
		pref = Conventional
	}
	points := t.GoodAQty*Satisfaction(GoodA, pref) + t.GoodBQty*Satisfaction(GoodB, pref)
	return decimal.NewFromInt(int64(points))
}

// OverallUtility is goods utility plus remaining cash.
func OverallUtility(t *Trader) decimal.Decimal {
	return GoodsUtility(t).Add(t.CashHolding)
}
