package statements

import (
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

// IncomeTaxRate is the flat combined IRPJ/CSLL rate applied to positive
// pre-tax profit.
const IncomeTaxRate = 0.34

// Assumptions are the non-sheet inputs of the financial plan.
type Assumptions struct {
	WorkingCapital models.WorkingCapital `json:"workingCapital"`
	Investments    models.Investments    `json:"investments"`
	Financing      models.Financing      `json:"financing"`
}

// DRE2026 is the monthly income statement.
type DRE2026 struct {
	GrossRevenue        monthly.MonthlyData `json:"grossRevenue"`
	Taxes               monthly.MonthlyData `json:"taxes"`
	NetRevenue          monthly.MonthlyData `json:"netRevenue"`
	VariableCosts       monthly.MonthlyData `json:"variableCosts"`
	CustomVariableCosts monthly.MonthlyData `json:"customVariableCosts"`
	GrossProfit         monthly.MonthlyData `json:"grossProfit"`

	Payroll             monthly.MonthlyData `json:"payroll"`
	Marketing           monthly.MonthlyData `json:"marketing"`
	OperationalExpenses monthly.MonthlyData `json:"operationalExpenses"` // opex + rent
	OtherFixedExpenses  monthly.MonthlyData `json:"otherFixedExpenses"`  // admin + custom fixed

	Ebitda            monthly.MonthlyData `json:"ebitda"`
	Depreciation      monthly.MonthlyData `json:"depreciation"`
	Ebit              monthly.MonthlyData `json:"ebit"`
	FinancialExpenses monthly.MonthlyData `json:"financialExpenses"`
	PreTaxProfit      monthly.MonthlyData `json:"preTaxProfit"`
	IncomeTax         monthly.MonthlyData `json:"incomeTax"`
	NetProfit         monthly.MonthlyData `json:"netProfit"`
}

// FixedExpenses sums the four fixed expense groups in month m.
func (d DRE2026) FixedExpenses(m monthly.Month) float64 {
	return d.Payroll.Value(m) + d.Marketing.Value(m) + d.OperationalExpenses.Value(m) + d.OtherFixedExpenses.Value(m)
}

// DFC2026 is the monthly cash-flow statement.
type DFC2026 struct {
	OperatingCashFlow monthly.MonthlyData `json:"operatingCashFlow"`
	InvestingCashFlow monthly.MonthlyData `json:"investingCashFlow"`
	FinancingCashFlow monthly.MonthlyData `json:"financingCashFlow"`
	CashChange        monthly.MonthlyData `json:"cashChange"`
	OpeningCash       monthly.MonthlyData `json:"openingCash"`
	ClosingCash       monthly.MonthlyData `json:"closingCash"`
}

// BP2026 is the month-end balance sheet.
type BP2026 struct {
	Cash          monthly.MonthlyData `json:"cash"`
	Receivables   monthly.MonthlyData `json:"receivables"`
	Inventory     monthly.MonthlyData `json:"inventory"`
	CurrentAssets monthly.MonthlyData `json:"currentAssets"`
	TotalAssets   monthly.MonthlyData `json:"totalAssets"`

	Payables           monthly.MonthlyData `json:"payables"`
	CurrentLiabilities monthly.MonthlyData `json:"currentLiabilities"`
	// Equity is solved as the residual, not rolled forward.
	Equity                    monthly.MonthlyData `json:"equity"`
	TotalLiabilitiesAndEquity monthly.MonthlyData `json:"totalLiabilitiesAndEquity"`
}

// FinancialPlan bundles the three statements built for one scenario.
type FinancialPlan struct {
	Scenario string  `json:"scenario"`
	DRE      DRE2026 `json:"dre"`
	DFC      DFC2026 `json:"dfc"`
	BP       BP2026  `json:"bp"`
}
