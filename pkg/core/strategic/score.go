// Package strategic turns the qualitative analyses (SWOT, Blue Ocean, market
// trend, portfolio concentration, Bowman's clock) into a signed percentage
// adjustment applied on top of each scenario's growth.
package strategic

import (
	"sort"

	"business_planner/pkg/models"
)

// Component weights, in percentage points per raw unit.
const (
	SWOTWeight      = 1.5
	BlueOceanWeight = 1.2
	MarketWeight    = 1.5
	ABCWeight       = 1.0
	BowmanWeight    = 1.5
)

// Component names, in the order they appear in StrategicScore.Components.
const (
	ComponentSWOT      = "SWOT"
	ComponentBlueOcean = "Blue Ocean"
	ComponentMarket    = "Market Trend"
	ComponentABC       = "ABC Concentration"
	ComponentBowman    = "Bowman Positioning"
)

// Component is one weighted signal.
type Component struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// StrategicScore is the composite adjustment. Total is always the sum of the
// component scores.
type StrategicScore struct {
	Total      float64     `json:"total"`
	Components []Component `json:"components"`
}

// Compute evaluates the five components independently and sums them.
// Missing data degrades a component to a neutral 0 rather than dropping it.
func Compute(in models.StrategicInputs) StrategicScore {
	components := []Component{
		{Name: ComponentSWOT, Score: SWOTImpact(in.SWOT)},
		{Name: ComponentBlueOcean, Score: BlueOceanImpact(in.BlueOcean)},
		{Name: ComponentMarket, Score: MarketImpact(in.Market)},
		{Name: ComponentABC, Score: ConcentrationImpact(in.Portfolio)},
		{Name: ComponentBowman, Score: BowmanImpact(in.Bowman)},
	}
	total := 0.0
	for _, c := range components {
		total += c.Score
	}
	return StrategicScore{Total: total, Components: components}
}

// SWOTImpact: (S - W + O - T) * 1.5, each impact clamped to 0..2.
func SWOTImpact(s models.SWOT) float64 {
	raw := clampImpact(s.StrengthsImpact) - clampImpact(s.WeaknessesImpact) +
		clampImpact(s.OpportunitiesImpact) - clampImpact(s.ThreatsImpact)
	return float64(raw) * SWOTWeight
}

func clampImpact(v int) int {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

// BlueOceanImpact averages (your - competitor) over the value-curve factors.
func BlueOceanImpact(b models.BlueOcean) float64 {
	if len(b.Factors) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range b.Factors {
		sum += f.YourScore - f.CompetitorScore
	}
	return sum / float64(len(b.Factors)) * BlueOceanWeight
}

// MarketImpact maps the market growth rate to a raw signal.
func MarketImpact(m models.MarketAnalysis) float64 {
	var raw float64
	switch g := m.GrowthRatePct; {
	case g > 10:
		raw = 2
	case g > 5:
		raw = 1
	case g > 0:
		raw = 0.5
	default:
		raw = -1
	}
	return raw * MarketWeight
}

// ConcentrationImpact penalizes dependence on the top product.
func ConcentrationImpact(p models.Portfolio) float64 {
	total := 0.0
	top := 0.0
	for _, prod := range p.Products {
		total += prod.Revenue
		if prod.Revenue > top {
			top = prod.Revenue
		}
	}
	if total <= 0 {
		return 0
	}
	var raw float64
	switch share := top / total; {
	case share > 0.5:
		raw = -2
	case share > 0.3:
		raw = -0.5
	default:
		raw = 1
	}
	return raw * ABCWeight
}

// BowmanImpact rewards a high average perceived value.
func BowmanImpact(b models.Bowman) float64 {
	if len(b.Products) == 0 {
		return 0
	}
	sum := 0.0
	for _, prod := range b.Products {
		sum += prod.PerceivedValue
	}
	var raw float64
	switch avg := sum / float64(len(b.Products)); {
	case avg >= 4:
		raw = 2
	case avg >= 3:
		raw = 0.5
	default:
		raw = -1
	}
	return raw * BowmanWeight
}

// ABC tiers.
const (
	TierA = "A"
	TierB = "B"
	TierC = "C"
)

// Cumulative revenue cut-offs for the ABC tiers.
const (
	tierALimit = 0.80
	tierBLimit = 0.95
)

// ClassifiedProduct is a portfolio product with its ABC tier.
type ClassifiedProduct struct {
	Name          string  `json:"name"`
	Revenue       float64 `json:"revenue"`
	Share         float64 `json:"share"`
	CumulativePct float64 `json:"cumulativePct"`
	Tier          string  `json:"tier"`
}

// ClassifyABC ranks products by revenue and assigns tiers by cumulative
// share: A up to 80%, B up to 95%, C for the remainder. A product is tiered
// by the cumulative share before it is added, so the one crossing 80% is A.
func ClassifyABC(p models.Portfolio) []ClassifiedProduct {
	products := make([]models.PortfolioProduct, len(p.Products))
	copy(products, p.Products)
	sort.SliceStable(products, func(i, j int) bool { return products[i].Revenue > products[j].Revenue })

	total := 0.0
	for _, prod := range products {
		total += prod.Revenue
	}

	out := make([]ClassifiedProduct, 0, len(products))
	cumulative := 0.0
	for _, prod := range products {
		share := 0.0
		if total > 0 {
			share = prod.Revenue / total
		}
		before := cumulative
		cumulative += share

		tier := TierC
		switch {
		case total <= 0:
			tier = TierC
		case before < tierALimit:
			tier = TierA
		case before < tierBLimit:
			tier = TierB
		}
		out = append(out, ClassifiedProduct{
			Name:          prod.Name,
			Revenue:       prod.Revenue,
			Share:         share,
			CumulativePct: cumulative * 100,
			Tier:          tier,
		})
	}
	return out
}
