package validate

import (
	"math"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/summary"
)

// =============================================================================
// YEAR-OVER-YEAR (YoY) CALCULATIONS
// =============================================================================

// YoYResult compares one annual figure of 2026 with 2025.
type YoYResult struct {
	Label     string  `json:"label"`
	Prior     float64 `json:"prior"`   // 2025
	Current   float64 `json:"current"` // 2026
	ChangeAbs float64 `json:"changeAbs"`
	ChangePct float64 `json:"changePct"`
	// FromZero is set when 2025 was zero; ChangePct is then 0.
	FromZero bool `json:"fromZero,omitempty"`
}

// CalculateYoY returns (current - prior) / |prior| * 100, or 0 when prior is 0.
func CalculateYoY(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / math.Abs(prior) * 100
}

func yoy(label string, prior, current float64) YoYResult {
	return YoYResult{
		Label:     label,
		Prior:     prior,
		Current:   current,
		ChangeAbs: current - prior,
		ChangePct: CalculateYoY(current, prior),
		FromZero:  prior == 0 && current != 0,
	}
}

// CompareYears sets the 2026 plan totals against the 2025 summary.
func CompareYears(s summary.Summary2025, plan *statements.FinancialPlan) []YoYResult {
	dre := plan.DRE
	fixed := 0.0
	for _, m := range monthly.Months {
		fixed += dre.FixedExpenses(m)
	}
	return []YoYResult{
		yoy("Receita bruta", s.GrossRevenue, monthly.Sum(dre.GrossRevenue)),
		yoy("Receita líquida", s.NetRevenue, monthly.Sum(dre.NetRevenue)),
		yoy("Lucro bruto", s.GrossProfit, monthly.Sum(dre.GrossProfit)),
		yoy("Despesas fixas", s.FixedCosts, fixed),
		yoy("EBITDA", s.Ebitda, monthly.Sum(dre.Ebitda)),
	}
}
