// Package projection builds the 2026 projection of each growth scenario,
// either derived from the 2025 sheet by a uniform growth factor or edited
// cell by cell.
package projection

import (
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

// GrowthFactor combines a scenario's growth percentage with the strategic
// adjustment: 1 + (growthPct + strategicTotal) / 100.
func GrowthFactor(growthPct, strategicTotal float64) float64 {
	return 1 + (growthPct+strategicTotal)/100
}

// ApplyGrowth scales every month of every line, custom items included, by
// factor. Months not entered in 2025 stay absent in the projection.
func ApplyGrowth(sheet models.FinancialSheet, factor float64) models.FinancialSheet {
	return sheet.Map(func(d monthly.MonthlyData) monthly.MonthlyData {
		return d.Scale(factor)
	})
}
