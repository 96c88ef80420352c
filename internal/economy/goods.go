package economy

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Good is a tradable market commodity.
type Good string

const (
	Grain   Good = "grain"
	Salt    Good = "salt"
	Cloth   Good = "cloth"
	Silk    Good = "silk"
	Spices  Good = "spices"
	Furs    Good = "furs"
	Pottery Good = "pottery"
)

// Goods lists every market good in a fixed order.
var Goods = []Good{Grain, Salt, Cloth, Silk, Spices, Furs, Pottery}

var basePrices = map[Good]int{
	Grain:   10,
	Salt:    15,
	Cloth:   20,
	Silk:    60,
	Spices:  50,
	Furs:    30,
	Pottery: 8,
}

var goodNames = map[Good]string{
	Grain:   "Tahıl",
	Salt:    "Tuz",
	Cloth:   "Kumaş",
	Silk:    "İpek",
	Spices:  "Baharat",
	Furs:    "Kürk",
	Pottery: "Çömlek",
}

// DisplayName returns the Turkish name of a good.
func (g Good) DisplayName() string {
	if n, ok := goodNames[g]; ok {
		return n
	}
	return string(g)
}

// ParseGood accepts a good key or its Turkish name.
func ParseGood(s string) (Good, bool) {
	for _, g := range Goods {
		if string(g) == s || goodNames[g] == s {
			return g, true
		}
	}
	return "", false
}

// Narh bounds on the price multiplier and the trend.
const (
	MinMultiplier = 0.5
	MaxMultiplier = 3.0
	MaxTrend      = 0.1
)

// MarketEntry is the supply/demand state of one good.
type MarketEntry struct {
	Good       Good    `json:"good"`
	BasePrice  int     `json:"base_price"`
	Supply     float64 `json:"supply"`
	Demand     float64 `json:"demand"`
	Multiplier float64 `json:"multiplier"`
	Trend      float64 `json:"trend"`
}

// Price returns the current unit price before inflation.
func (e *MarketEntry) Price() int {
	return int(math.Round(float64(e.BasePrice) * e.Multiplier))
}

// resolve recomputes the multiplier from supply/demand pressure and trend,
// bounded by narh.
func (e *MarketEntry) resolve() {
	supply := e.Supply
	if supply < 0.1 {
		supply = 0.1
	}
	e.Multiplier = clampf(e.Demand/supply+e.Trend, MinMultiplier, MaxMultiplier)
}

// Market is the provincial bazaar with narh-regulated prices.
type Market struct {
	Seed    int64          `json:"seed"`
	Entries []*MarketEntry `json:"entries"`

	noise opensimplex.Noise
}

// NewMarket creates a market at base prices. The seed drives demand drift.
func NewMarket(seed int64) *Market {
	m := &Market{Seed: seed}
	for _, g := range Goods {
		m.Entries = append(m.Entries, &MarketEntry{
			Good:       g,
			BasePrice:  basePrices[g],
			Supply:     1,
			Demand:     1,
			Multiplier: 1,
		})
	}
	return m
}

// Entry returns the entry for g, or nil.
func (m *Market) Entry(g Good) *MarketEntry {
	for _, e := range m.Entries {
		if e.Good == g {
			return e
		}
	}
	return nil
}

// SeasonalHint nudges the trend of the goods a season favours.
type SeasonalHint map[Good]float64

// Update advances every price one turn: demand drifts along a noise curve,
// seasonal hints bias trends, the multiplier is resolved, then the trend
// decays and supply/demand relax toward balance.
func (m *Market) Update(turn int, hint SeasonalHint) {
	if m.noise == nil {
		m.noise = opensimplex.New(m.Seed)
	}
	for i, e := range m.Entries {
		drift := m.noise.Eval2(float64(i)*1.7, float64(turn)/12.0) * 0.05
		e.Demand = math.Max(0.1, e.Demand+drift)
		e.Trend = clampf(e.Trend+hint[e.Good], -MaxTrend, MaxTrend)
		e.resolve()
		e.Trend *= 0.9
		e.Supply += (1 - e.Supply) * 0.1
		e.Demand += (1 - e.Demand) * 0.1
	}
}

// RecordPurchase registers qty units bought from the market: supply falls,
// demand rises, and the price reacts immediately.
func (m *Market) RecordPurchase(g Good, qty int) {
	e := m.Entry(g)
	if e == nil || qty <= 0 {
		return
	}
	e.Supply = math.Max(0.1, e.Supply-float64(qty)*0.01)
	e.Demand += float64(qty) * 0.005
	e.resolve()
}

// RecordSale registers qty units sold into the market.
func (m *Market) RecordSale(g Good, qty int) {
	e := m.Entry(g)
	if e == nil || qty <= 0 {
		return
	}
	e.Supply += float64(qty) * 0.01
	e.Demand = math.Max(0.1, e.Demand-float64(qty)*0.005)
	e.resolve()
}

// Sanitize drops unknown goods, restores missing ones, and re-applies narh.
func (m *Market) Sanitize() {
	seen := make(map[Good]bool)
	kept := m.Entries[:0]
	for _, e := range m.Entries {
		if e == nil {
			continue
		}
		base, ok := basePrices[e.Good]
		if !ok || seen[e.Good] {
			continue
		}
		seen[e.Good] = true
		e.BasePrice = base
		e.Trend = clampf(e.Trend, -MaxTrend, MaxTrend)
		e.Multiplier = clampf(e.Multiplier, MinMultiplier, MaxMultiplier)
		kept = append(kept, e)
	}
	m.Entries = kept
	for _, g := range Goods {
		if !seen[g] {
			m.Entries = append(m.Entries, &MarketEntry{Good: g, BasePrice: basePrices[g], Supply: 1, Demand: 1, Multiplier: 1})
		}
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
