package models

// SWOT holds the four quadrants and their self-assessed impact (0, 1 or 2).
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`

	StrengthsImpact     int `json:"strengthsImpact"`
	WeaknessesImpact    int `json:"weaknessesImpact"`
	OpportunitiesImpact int `json:"opportunitiesImpact"`
	ThreatsImpact       int `json:"threatsImpact"`
}

// ValueCurveFactor scores one competitive factor against the competition.
type ValueCurveFactor struct {
	Name            string  `json:"name"`
	YourScore       float64 `json:"yourScore"`
	CompetitorScore float64 `json:"competitorScore"`
}

// FourActions is the eliminate/reduce/raise/create grid.
type FourActions struct {
	Eliminate []string `json:"eliminate"`
	Reduce    []string `json:"reduce"`
	Raise     []string `json:"raise"`
	Create    []string `json:"create"`
}

// BlueOcean holds the value curve and the four-actions grid.
type BlueOcean struct {
	Factors []ValueCurveFactor `json:"factors"`
	Actions FourActions        `json:"actions"`
}

// MarketAnalysis carries the market growth signal.
type MarketAnalysis struct {
	GrowthRatePct float64 `json:"growthRatePct"`
	MarketSize    float64 `json:"marketSize"`
	Notes         string  `json:"notes"`
}

// PortfolioProduct is one revenue line of the product portfolio.
type PortfolioProduct struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// Portfolio is the product mix used for ABC concentration.
type Portfolio struct {
	Products []PortfolioProduct `json:"products"`
}

// BowmanProduct positions a product on price and perceived value (1..5).
type BowmanProduct struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PerceivedValue float64 `json:"perceivedValue"`
}

// Bowman lists the positioned products.
type Bowman struct {
	Products []BowmanProduct `json:"products"`
}

// StrategicInputs groups the five analyses feeding the strategic score.
type StrategicInputs struct {
	SWOT      SWOT           `json:"swot"`
	BlueOcean BlueOcean      `json:"blueOcean"`
	Market    MarketAnalysis `json:"market"`
	Portfolio Portfolio      `json:"portfolio"`
	Bowman    Bowman         `json:"bowman"`
}

// Clone copies every slice so the result shares nothing with in.
func (in StrategicInputs) Clone() StrategicInputs {
	out := in
	out.SWOT.Strengths = cloneSlice(in.SWOT.Strengths)
	out.SWOT.Weaknesses = cloneSlice(in.SWOT.Weaknesses)
	out.SWOT.Opportunities = cloneSlice(in.SWOT.Opportunities)
	out.SWOT.Threats = cloneSlice(in.SWOT.Threats)
	out.BlueOcean.Factors = cloneSlice(in.BlueOcean.Factors)
	out.BlueOcean.Actions = FourActions{
		Eliminate: cloneSlice(in.BlueOcean.Actions.Eliminate),
		Reduce:    cloneSlice(in.BlueOcean.Actions.Reduce),
		Raise:     cloneSlice(in.BlueOcean.Actions.Raise),
		Create:    cloneSlice(in.BlueOcean.Actions.Create),
	}
	out.Portfolio.Products = cloneSlice(in.Portfolio.Products)
	out.Bowman.Products = cloneSlice(in.Bowman.Products)
	return out
}

// cloneSlice keeps nil as nil so JSON output does not change.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
