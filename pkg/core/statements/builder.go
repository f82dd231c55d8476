// Package statements builds the 2026 income statement (DRE), cash-flow
// statement (DFC) and balance sheet (BP) from one scenario's projection.
package statements

import (
	"fmt"
	"math"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

// BalanceTolerance is the largest assets vs liabilities+equity gap Check accepts.
const BalanceTolerance = 1e-6

// Build runs the full monthly articulation: DRE first, then DFC carrying the
// cash balance forward from the 2025 closing cash, then BP with equity as the
// plug. It is a full recompute; nothing is carried over from earlier builds.
func Build(scenario string, proj models.FinancialSheet, a Assumptions) *FinancialPlan {
	plan := &FinancialPlan{Scenario: scenario}
	plan.DRE = buildDRE(proj)
	plan.DFC = buildDFC(plan.DRE, a)
	plan.BP = buildBP(plan.DRE, plan.DFC, a.WorkingCapital)
	return plan
}

// =============================================================================
// DRE
// =============================================================================

func buildDRE(p models.FinancialSheet) DRE2026 {
	var d DRE2026
	for _, m := range monthly.Months {
		gross := p.GrossRevenue.Values.Value(m)
		taxes := p.Taxes.Values.Value(m)
		net := gross - taxes

		variable := p.COGS.Values.Value(m) + p.Commissions.Values.Value(m) + p.Freight.Values.Value(m)
		customVariable := p.CustomVariableAt(m)
		grossProfit := net - variable - customVariable

		payroll := p.Payroll.Values.Value(m)
		marketing := p.FixedMarketing.Values.Value(m)
		operational := p.Opex.Values.Value(m) + p.Rent.Values.Value(m)
		otherFixed := p.Admin.Values.Value(m) + p.CustomFixedAt(m)

		ebitda := grossProfit - (payroll + marketing + operational + otherFixed)
		depreciation := 0.0
		ebit := ebitda - depreciation
		financial := 0.0
		preTax := ebit - financial
		tax := 0.0
		if preTax > 0 {
			tax = preTax * IncomeTaxRate
		}

		d.GrossRevenue.Set(m, gross)
		d.Taxes.Set(m, taxes)
		d.NetRevenue.Set(m, net)
		d.VariableCosts.Set(m, variable)
		d.CustomVariableCosts.Set(m, customVariable)
		d.GrossProfit.Set(m, grossProfit)
		d.Payroll.Set(m, payroll)
		d.Marketing.Set(m, marketing)
		d.OperationalExpenses.Set(m, operational)
		d.OtherFixedExpenses.Set(m, otherFixed)
		d.Ebitda.Set(m, ebitda)
		d.Depreciation.Set(m, depreciation)
		d.Ebit.Set(m, ebit)
		d.FinancialExpenses.Set(m, financial)
		d.PreTaxProfit.Set(m, preTax)
		d.IncomeTax.Set(m, tax)
		d.NetProfit.Set(m, preTax-tax)
	}
	return d
}

// =============================================================================
// DFC
// =============================================================================

func buildDFC(dre DRE2026, a Assumptions) DFC2026 {
	var d DFC2026
	monthlyCapex := a.Investments.Total() / monthly.Count
	cash := a.Financing.SaldoCaixaFinal2025

	for _, m := range monthly.Months {
		operating := dre.Ebitda.Value(m) - dre.IncomeTax.Value(m)
		investing := -monthlyCapex
		financing := 0.0
		change := operating + investing + financing

		d.OperatingCashFlow.Set(m, operating)
		d.InvestingCashFlow.Set(m, investing)
		d.FinancingCashFlow.Set(m, financing)
		d.CashChange.Set(m, change)
		d.OpeningCash.Set(m, cash)
		cash += change
		d.ClosingCash.Set(m, cash)
	}
	return d
}

// =============================================================================
// BP
// =============================================================================

func buildBP(dre DRE2026, dfc DFC2026, wc models.WorkingCapital) BP2026 {
	var b BP2026
	for _, m := range monthly.Months {
		cash := dfc.ClosingCash.Value(m)
		receivables := dre.GrossRevenue.Value(m) * (wc.ReceivableDays / 30)
		inventory := dre.VariableCosts.Value(m) * (wc.InventoryDays / 30)
		current := cash + receivables + inventory
		total := current

		payables := (dre.VariableCosts.Value(m) + dre.OperationalExpenses.Value(m)) * (wc.PayableDays / 30)
		liabilities := payables
		equity := total - liabilities

		b.Cash.Set(m, cash)
		b.Receivables.Set(m, receivables)
		b.Inventory.Set(m, inventory)
		b.CurrentAssets.Set(m, current)
		b.TotalAssets.Set(m, total)
		b.Payables.Set(m, payables)
		b.CurrentLiabilities.Set(m, liabilities)
		b.Equity.Set(m, equity)
		b.TotalLiabilitiesAndEquity.Set(m, liabilities+equity)
	}
	return b
}

// Check verifies the balance sheet balances in every month.
func (p *FinancialPlan) Check() error {
	for _, m := range monthly.Months {
		assets := p.BP.TotalAssets.Value(m)
		le := p.BP.TotalLiabilitiesAndEquity.Value(m)
		if diff := math.Abs(assets - le); diff > BalanceTolerance {
			return fmt.Errorf("balance sheet does not balance in %s: assets %.2f vs liabilities+equity %.2f", m, assets, le)
		}
	}
	return nil
}
