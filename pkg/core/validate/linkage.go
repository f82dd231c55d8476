// Package validate checks that the 2026 statements link up and compares the
// plan against 2025.
package validate

import (
	"fmt"
	"math"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/statements"
)

// DefaultTolerance is the absolute difference accepted on a linkage, in BRL.
const DefaultTolerance = 0.01

// =============================================================================
// CROSS-STATEMENT LINKAGE VALIDATION
// =============================================================================

// LinkageReport contains all cross-statement validation results
type LinkageReport struct {
	Scenario     string   `json:"scenario"`
	DREToDFC     *Linkage `json:"dre_to_dfc"`     // EBITDA - tax == operating cash flow
	DFCToBP      *Linkage `json:"dfc_to_bp"`      // closing cash == BP cash
	CashRollover *Linkage `json:"cash_rollover"`  // opening cash == prior closing cash
	BalanceSheet *Linkage `json:"balance_sheet"`  // assets == liabilities + equity
	AllPassed    bool     `json:"all_passed"`
	FailedChecks []string `json:"failed_checks,omitempty"`
}

// Linkage is one identity checked in every month. Month, Expected and
// Actual describe the month with the largest difference.
type Linkage struct {
	Month      monthly.Month `json:"month"`
	Expected   float64       `json:"expected"`
	Actual     float64       `json:"actual"`
	Difference float64       `json:"difference"`
	IsLinked   bool          `json:"is_linked"`
	Tolerance  float64       `json:"tolerance"`
}

// ValidateLinkages checks the four identities of a built plan. openingCash
// is the 2025 closing cash the DFC must start from.
func ValidateLinkages(plan *statements.FinancialPlan, openingCash, tolerance float64) *LinkageReport {
	report := &LinkageReport{Scenario: plan.Scenario, AllPassed: true}

	dre, dfc, bp := plan.DRE, plan.DFC, plan.BP

	report.DREToDFC = worst(tolerance, func(m monthly.Month) (float64, float64) {
		return dre.Ebitda.Value(m) - dre.IncomeTax.Value(m), dfc.OperatingCashFlow.Value(m)
	})
	report.DFCToBP = worst(tolerance, func(m monthly.Month) (float64, float64) {
		return dfc.ClosingCash.Value(m), bp.Cash.Value(m)
	})
	report.CashRollover = worst(tolerance, func(m monthly.Month) (float64, float64) {
		if m == monthly.Jan {
			return openingCash, dfc.OpeningCash.Value(m)
		}
		return dfc.ClosingCash.Value(m - 1), dfc.OpeningCash.Value(m)
	})
	report.BalanceSheet = worst(tolerance, func(m monthly.Month) (float64, float64) {
		return bp.TotalAssets.Value(m), bp.TotalLiabilitiesAndEquity.Value(m)
	})

	checks := []struct {
		name string
		link *Linkage
	}{
		{"DRE EBITDA - IR → DFC operating cash flow", report.DREToDFC},
		{"DFC closing cash → BP cash", report.DFCToBP},
		{"DFC opening cash → prior closing cash", report.CashRollover},
		{"BP assets = liabilities + equity", report.BalanceSheet},
	}
	for _, c := range checks {
		if !c.link.IsLinked {
			report.AllPassed = false
			report.FailedChecks = append(report.FailedChecks, fmt.Sprintf("%s (%s: %.2f)", c.name, c.link.Month, c.link.Difference))
		}
	}
	return report
}

// worst evaluates pair in every month and keeps the largest difference.
func worst(tolerance float64, pair func(m monthly.Month) (expected, actual float64)) *Linkage {
	l := &Linkage{Tolerance: tolerance}
	for _, m := range monthly.Months {
		expected, actual := pair(m)
		diff := expected - actual
		if m == monthly.Jan || math.Abs(diff) > math.Abs(l.Difference) {
			l.Month, l.Expected, l.Actual, l.Difference = m, expected, actual, diff
		}
	}
	l.IsLinked = math.Abs(l.Difference) <= tolerance
	return l
}
