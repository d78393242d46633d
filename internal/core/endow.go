package core

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/evapetschnigg/CDA/internal/domain"
)

// Endowment constants of the experiment.
var (
	cashHomogeneous    = decimal.NewFromInt(25)
	cashMinHetero      = decimal.NewFromInt(5)
	initialAssetsCount = 10
)

// SessionConfig describes one market before the period opens.
type SessionConfig struct {
	Framing       domain.Framing
	EndowmentType domain.EndowmentType
	Traders       int
	Observers     int
	MarketTime    float64
	ShortSelling  bool
	MarginBuying  bool
	// SupplyShockIntensity scales the asset endowment; 1.0 means no shock.
	SupplyShockIntensity float64
	Period               int
}

// SetupTraders builds the participant roster for one market: roles,
// preference types, cash and asset endowments and the trading caps. The
// caller supplies the randomness source so sessions are reproducible.
func SetupTraders(market *domain.Market, cfg SessionConfig, rng *rand.Rand) []*domain.Trader {
	n := cfg.Traders + cfg.Observers
	traders := make([]*domain.Trader, 0, n)

	roles := make([]domain.Role, 0, n)
	for i := 0; i < cfg.Observers; i++ {
		roles = append(roles, domain.RoleObserver)
	}
	for i := 0; i < cfg.Traders; i++ {
		roles = append(roles, domain.RoleTrader)
	}
	rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	// Half conventional, half eco, randomly assigned.
	prefs := make([]domain.Preference, 0, n)
	for i := 0; i < n/2; i++ {
		prefs = append(prefs, domain.Conventional)
	}
	for len(prefs) < n {
		prefs = append(prefs, domain.Eco)
	}
	rng.Shuffle(len(prefs), func(i, j int) { prefs[i], prefs[j] = prefs[j], prefs[i] })

	var cash []decimal.Decimal
	if cfg.EndowmentType == domain.Heterogeneous {
		cash = distributeHeterogeneousCash(n, rng)
		market.GiniCoefficient = giniCoefficient(cash)
	} else {
		cash = make([]decimal.Decimal, n)
		for i := range cash {
			cash[i] = cashHomogeneous
		}
	}

	shock := cfg.SupplyShockIntensity
	if shock <= 0 {
		shock = 1
	}
	assets := int(float64(initialAssetsCount) * shock)

	for i := 0; i < n; i++ {
		t := &domain.Trader{
			ID:         i + 1,
			Role:       roles[i],
			Preference: prefs[i],
		}
		if t.Role == domain.RoleTrader {
			t.InitialCash = cash[i]
			t.CashHolding = cash[i]
			t.InitialAssets = assets
			t.AssetsHolding = assets
			if cfg.MarginBuying {
				t.CapLong = t.InitialCash
			}
			if cfg.ShortSelling {
				t.CapShort = t.InitialAssets
			}
			market.NumAssets += assets
			market.NumParticipants++
		}
		t.GoodsUtility = domain.GoodsUtility(t)
		t.OverallUtility = domain.OverallUtility(t)
		traders = append(traders, t)
	}
	return traders
}

// distributeHeterogeneousCash splits 25*n cash randomly across n traders
// with a per-trader floor of 5.00. The last share absorbs the rounding
// remainder so the total is exact.
func distributeHeterogeneousCash(n int, rng *rand.Rand) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	if n == 0 {
		return out
	}
	total := cashHomogeneous.Mul(decimalFromInt(n))
	remaining := total
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		reserved := cashMinHetero.Mul(decimalFromInt(n - i - 1))
		maxShare := remaining.Sub(reserved)
		if maxShare.LessThan(cashMinHetero) {
			maxShare = cashMinHetero
		}
		span, _ := maxShare.Sub(cashMinHetero).Float64()
		share := cashMinHetero.Add(decimal.NewFromFloat(rng.Float64() * span)).Round(priceDecimals)
		out[i] = share
		remaining = remaining.Sub(share)
		allocated = allocated.Add(share)
	}
	last := total.Sub(allocated)
	if last.LessThan(cashMinHetero) && n > 1 {
		shortage := cashMinHetero.Sub(last)
		out[n-2] = out[n-2].Sub(shortage)
		if out[n-2].LessThan(cashMinHetero) {
			out[n-2] = cashMinHetero
		}
		allocated = decimal.Zero
		for i := 0; i < n-1; i++ {
			allocated = allocated.Add(out[i])
		}
		last = total.Sub(allocated)
	}
	out[n-1] = last.Round(priceDecimals)
	return out
}

// giniCoefficient measures cash inequality: 0 is perfect equality.
func giniCoefficient(values []decimal.Decimal) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	fs := make([]float64, n)
	var sum float64
	for i, v := range values {
		fs[i], _ = v.Float64()
		sum += fs[i]
	}
	if sum == 0 {
		return 0
	}
	mean := sum / float64(n)
	var absDiff float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			absDiff += math.Abs(fs[i] - fs[j])
		}
	}
	g := absDiff / (2 * float64(n) * float64(n) * mean)
	return math.Max(0, math.Min(1, g))
}
