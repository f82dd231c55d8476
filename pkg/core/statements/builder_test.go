package statements

import (
	"math"
	"testing"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

func sampleProjection() models.FinancialSheet {
	var p models.FinancialSheet
	p.GrossRevenue.Values = monthly.Full(func(m monthly.Month) float64 { return 10000 + float64(m)*500 })
	p.Taxes.Values = monthly.Flat(1000)
	p.COGS.Values = monthly.Flat(2000)
	p.Commissions.Values = monthly.Flat(300)
	p.Freight.Values = monthly.Flat(200)
	p.Payroll.Values = monthly.Flat(3000)
	p.Rent.Values = monthly.Flat(800)
	p.Opex.Values = monthly.Flat(400)
	p.FixedMarketing.Values = monthly.Flat(600)
	p.Admin.Values = monthly.Flat(250)
	fixed := p.CustomFixedCosts.Add("Software")
	fixed.Values = monthly.Flat(150)
	variable := p.CustomVariableCosts.Add("Embalagem")
	variable.Values = monthly.Flat(120)
	return p
}

func sampleAssumptions() Assumptions {
	return Assumptions{
		WorkingCapital: models.WorkingCapital{ReceivableDays: 30, InventoryDays: 15, PayableDays: 45},
		Investments:    models.Investments{Items: []models.CapexItem{{Name: "Servidor", Amount: 12000}}},
		Financing:      models.Financing{SaldoCaixaFinal2025: 5000},
	}
}

func TestBalanceSheetBalances(t *testing.T) {
	plan := Build("optimistic", sampleProjection(), sampleAssumptions())
	for _, m := range monthly.Months {
		assets := plan.BP.TotalAssets.Value(m)
		le := plan.BP.TotalLiabilitiesAndEquity.Value(m)
		if math.Abs(assets-le) > 1e-9 {
			t.Errorf("%s: assets %v != liabilities+equity %v", m, assets, le)
		}
	}
	if err := plan.Check(); err != nil {
		t.Errorf("Check failed: %v", err)
	}
}

func TestDREEbitdaIdentity(t *testing.T) {
	p := sampleProjection()
	plan := Build("optimistic", p, sampleAssumptions())
	for _, m := range monthly.Months {
		fixed := p.Payroll.Values.Value(m) + p.Rent.Values.Value(m) + p.Opex.Values.Value(m) +
			p.FixedMarketing.Values.Value(m) + p.Admin.Values.Value(m) + p.CustomFixedAt(m)
		want := plan.DRE.GrossProfit.Value(m) - fixed
		if got := plan.DRE.Ebitda.Value(m); math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: expected EBITDA %v, got %v", m, want, got)
		}
	}

	// Jan: net 9000, variable 2500, custom variable 120 -> gross profit 6380
	if got := plan.DRE.GrossProfit.Value(monthly.Jan); got != 6380 {
		t.Errorf("Expected January gross profit 6380, got %v", got)
	}
	// fixed = 3000 + 600 + 1200 + 400 = 5200 -> EBITDA 1180, tax 401.2
	if got := plan.DRE.Ebitda.Value(monthly.Jan); got != 1180 {
		t.Errorf("Expected January EBITDA 1180, got %v", got)
	}
	if got := plan.DRE.IncomeTax.Value(monthly.Jan); math.Abs(got-401.2) > 1e-9 {
		t.Errorf("Expected January income tax 401.2, got %v", got)
	}
}

func TestNoIncomeTaxOnLoss(t *testing.T) {
	var p models.FinancialSheet
	p.GrossRevenue.Values = monthly.Flat(100)
	p.Payroll.Values = monthly.Flat(500)
	plan := Build("conservative", p, Assumptions{})
	if got := plan.DRE.IncomeTax.Value(monthly.Jan); got != 0 {
		t.Errorf("Expected no tax on a loss, got %v", got)
	}
	if got := plan.DRE.NetProfit.Value(monthly.Jan); got != -400 {
		t.Errorf("Expected net profit -400, got %v", got)
	}
}

func TestCashCarriesForward(t *testing.T) {
	a := sampleAssumptions()
	plan := Build("optimistic", sampleProjection(), a)

	if got := plan.DFC.OpeningCash.Value(monthly.Jan); got != 5000 {
		t.Errorf("Expected January opening cash 5000, got %v", got)
	}
	if got := plan.DFC.InvestingCashFlow.Value(monthly.Mar); got != -1000 {
		t.Errorf("Expected monthly capex -1000, got %v", got)
	}
	for _, m := range monthly.Months[1:] {
		prev := plan.DFC.ClosingCash.Value(m - 1)
		if got := plan.DFC.OpeningCash.Value(m); got != prev {
			t.Errorf("%s: opening %v != previous closing %v", m, got, prev)
		}
		want := plan.DFC.OpeningCash.Value(m) + plan.DFC.CashChange.Value(m)
		if got := plan.DFC.ClosingCash.Value(m); math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: closing %v != opening+change %v", m, got, want)
		}
		if plan.BP.Cash.Value(m) != plan.DFC.ClosingCash.Value(m) {
			t.Errorf("%s: balance sheet cash differs from DFC closing", m)
		}
	}
}

func TestWorkingCapitalBalances(t *testing.T) {
	plan := Build("optimistic", sampleProjection(), sampleAssumptions())
	// receivables = 10000 * 30/30; inventory = 2500 * 15/30; payables = (2500+1200) * 45/30
	if got := plan.BP.Receivables.Value(monthly.Jan); got != 10000 {
		t.Errorf("Expected receivables 10000, got %v", got)
	}
	if got := plan.BP.Inventory.Value(monthly.Jan); got != 1250 {
		t.Errorf("Expected inventory 1250, got %v", got)
	}
	if got := plan.BP.Payables.Value(monthly.Jan); math.Abs(got-5550) > 1e-9 {
		t.Errorf("Expected payables 5550, got %v", got)
	}
}
