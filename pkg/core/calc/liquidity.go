// Package calc derives working-capital need, burn rate, runway and the
// solvency and profitability ratios from a built financial plan.
package calc

import (
	"fmt"
	"math"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/summary"
)

// RunwayDisplayCap is the largest runway shown as a number of months.
const RunwayDisplayCap = 24

// Runway is how long the closing cash lasts at the current burn rate.
// Infinite means the plan never burns cash; Months is then 0 and meaningless.
type Runway struct {
	Months   float64 `json:"months"`
	Infinite bool    `json:"infinite"`
}

// String renders the runway for display, capping long runways.
func (r Runway) String() string {
	if r.Infinite || r.Months > RunwayDisplayCap {
		return fmt.Sprintf("more than %d months", RunwayDisplayCap)
	}
	return fmt.Sprintf("%.1f months", r.Months)
}

// LiquidityReport is everything derived from one financial plan.
type LiquidityReport struct {
	NCG      monthly.MonthlyData `json:"ncg"`
	BurnRate float64             `json:"burnRate"`
	Runway   Runway              `json:"runway"`
	// RunwayLabel is Runway.String(), exposed for clients that only display it.
	RunwayLabel string `json:"runwayLabel"`
	Ratios      Ratios `json:"ratios"`
}

// NCG computes the net working-capital need per month:
// receivables + inventory - payables.
func NCG(bp statements.BP2026) monthly.MonthlyData {
	var out monthly.MonthlyData
	for _, m := range monthly.Months {
		out.Set(m, bp.Receivables.Value(m)+bp.Inventory.Value(m)-bp.Payables.Value(m))
	}
	return out
}

// BurnRate averages the absolute cash change over months where cash fell.
// Returns 0 when no month burns cash.
func BurnRate(dfc statements.DFC2026) float64 {
	total, months := 0.0, 0
	for _, m := range monthly.Months {
		if change := dfc.CashChange.Value(m); change < 0 {
			total += math.Abs(change)
			months++
		}
	}
	return safeDiv(total, float64(months))
}

// RunwayFor divides cash by burnRate. A non-positive burn rate yields the
// Infinite sentinel instead of dividing by zero.
func RunwayFor(cash, burnRate float64) Runway {
	if burnRate <= 0 {
		return Runway{Infinite: true}
	}
	months := cash / burnRate
	if months < 0 {
		months = 0
	}
	return Runway{Months: months}
}

// Analyze derives the full liquidity report. Runway uses December's closing
// cash; debt is the user-entered outstanding debt.
func Analyze(plan *statements.FinancialPlan, s summary.Summary2025, debt float64) LiquidityReport {
	burn := BurnRate(plan.DFC)
	runway := RunwayFor(plan.DFC.ClosingCash.Value(monthly.Dec), burn)
	return LiquidityReport{
		NCG:         NCG(plan.BP),
		BurnRate:    burn,
		Runway:      runway,
		RunwayLabel: runway.String(),
		Ratios:      ComputeRatios(plan, s, debt),
	}
}

// safeDiv returns 0 instead of NaN or Inf.
func safeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	r := n / d
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
