package calc

import (
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/summary"
)

// Ratios uses December balances and annual flow totals. Every ratio whose
// denominator is zero is reported as 0.
type Ratios struct {
	// Liquidity
	CurrentRatio float64 `json:"currentRatio"`
	QuickRatio   float64 `json:"quickRatio"`
	CashRatio    float64 `json:"cashRatio"`

	// Solvency
	NetDebtToEbitda float64 `json:"netDebtToEbitda"`
	DebtToEquity    float64 `json:"debtToEquity"`

	// Profitability
	ROE           float64 `json:"roe"`
	ROIC          float64 `json:"roic"`
	NetMarginPct  float64 `json:"netMarginPct"`
	AssetTurnover float64 `json:"assetTurnover"`

	// Unit economics
	CACPaybackMonths float64 `json:"cacPaybackMonths"`
}

// ComputeRatios derives the ratio set from the plan, the 2025 summary (for
// CAC, ticket and gross margin) and the outstanding debt.
func ComputeRatios(plan *statements.FinancialPlan, s summary.Summary2025, debt float64) Ratios {
	bp := plan.BP
	dec := monthly.Dec

	cash := bp.Cash.Value(dec)
	inventory := bp.Inventory.Value(dec)
	currentAssets := bp.CurrentAssets.Value(dec)
	totalAssets := bp.TotalAssets.Value(dec)
	currentLiabilities := bp.CurrentLiabilities.Value(dec)
	equity := bp.Equity.Value(dec)

	ebitda := monthly.Sum(plan.DRE.Ebitda)
	netProfit := monthly.Sum(plan.DRE.NetProfit)
	netRevenue := monthly.Sum(plan.DRE.NetRevenue)
	grossRevenue := monthly.Sum(plan.DRE.GrossRevenue)

	investedCapital := equity + debt - cash
	// GrossMarginPct is a percentage (50 means 50%).
	monthlyGrossProfitPerCustomer := (s.TicketMedio / 12) * (s.GrossMarginPct / 100)

	return Ratios{
		CurrentRatio:     safeDiv(currentAssets, currentLiabilities),
		QuickRatio:       safeDiv(currentAssets-inventory, currentLiabilities),
		CashRatio:        safeDiv(cash, currentLiabilities),
		NetDebtToEbitda:  safeDiv(debt-cash, ebitda),
		DebtToEquity:     safeDiv(debt, equity),
		ROE:              safeDiv(netProfit, equity),
		ROIC:             safeDiv(ebitda*(1-statements.IncomeTaxRate), investedCapital),
		NetMarginPct:     safeDiv(netProfit, netRevenue) * 100,
		AssetTurnover:    safeDiv(grossRevenue, totalAssets),
		CACPaybackMonths: safeDiv(s.CAC, monthlyGrossProfitPerCustomer),
	}
}
