package calc

import (
	"math"
	"testing"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/summary"
)

func TestBurnRateAveragesBurnMonthsOnly(t *testing.T) {
	var dfc statements.DFC2026
	dfc.CashChange = monthly.Of(-100, 50, -300, 0)

	if got := BurnRate(dfc); got != 200 {
		t.Errorf("Expected burn rate 200, got %v", got)
	}
}

func TestRunwaySentinel(t *testing.T) {
	var dfc statements.DFC2026
	dfc.CashChange = monthly.Flat(10)

	burn := BurnRate(dfc)
	if burn != 0 {
		t.Fatalf("Expected no burn, got %v", burn)
	}
	r := RunwayFor(1000, burn)
	if !r.Infinite {
		t.Errorf("Expected infinite runway when nothing burns")
	}
	if math.IsInf(r.Months, 0) || math.IsNaN(r.Months) {
		t.Errorf("Runway months must stay finite, got %v", r.Months)
	}
	if r.String() != "more than 24 months" {
		t.Errorf("Unexpected label %q", r.String())
	}
}

func TestRunwayFinite(t *testing.T) {
	r := RunwayFor(1000, 200)
	if r.Infinite || r.Months != 5 {
		t.Errorf("Expected 5 months, got %+v", r)
	}
	if r.String() != "5.0 months" {
		t.Errorf("Unexpected label %q", r.String())
	}
	if got := RunwayFor(-50, 10); got.Months != 0 {
		t.Errorf("Expected negative cash to clamp to 0 months, got %v", got.Months)
	}
}

func TestNCG(t *testing.T) {
	var bp statements.BP2026
	bp.Receivables = monthly.Flat(100)
	bp.Inventory = monthly.Flat(50)
	bp.Payables = monthly.Flat(30)

	ncg := NCG(bp)
	if got := ncg.Value(monthly.Jul); got != 120 {
		t.Errorf("Expected NCG 120, got %v", got)
	}
}

func TestRatiosNeverProduceNaN(t *testing.T) {
	plan := &statements.FinancialPlan{}
	r := ComputeRatios(plan, summary.Summary2025{}, 0)

	values := []float64{r.CurrentRatio, r.QuickRatio, r.CashRatio, r.NetDebtToEbitda, r.DebtToEquity,
		r.ROE, r.ROIC, r.NetMarginPct, r.AssetTurnover, r.CACPaybackMonths}
	for i, v := range values {
		if v != 0 {
			t.Errorf("ratio %d: expected 0 on empty plan, got %v", i, v)
		}
	}
}

func TestRatios(t *testing.T) {
	plan := &statements.FinancialPlan{}
	plan.BP.Cash = monthly.Flat(200)
	plan.BP.Inventory = monthly.Flat(100)
	plan.BP.CurrentAssets = monthly.Flat(600)
	plan.BP.TotalAssets = monthly.Flat(600)
	plan.BP.CurrentLiabilities = monthly.Flat(300)
	plan.BP.Equity = monthly.Flat(300)
	plan.DRE.Ebitda = monthly.Flat(100)
	plan.DRE.NetProfit = monthly.Flat(50)
	plan.DRE.NetRevenue = monthly.Flat(1000)
	plan.DRE.GrossRevenue = monthly.Flat(1200)

	s := summary.Summary2025{CAC: 120, TicketMedio: 1200, GrossMarginPct: 50}
	r := ComputeRatios(plan, s, 500)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"current", r.CurrentRatio, 2},
		{"quick", r.QuickRatio, 500.0 / 300},
		{"cash", r.CashRatio, 200.0 / 300},
		{"netDebtToEbitda", r.NetDebtToEbitda, 300.0 / 1200},
		{"debtToEquity", r.DebtToEquity, 500.0 / 300},
		{"roe", r.ROE, 600.0 / 300},
		{"roic", r.ROIC, 1200 * 0.66 / 600},
		{"netMargin", r.NetMarginPct, 5},
		{"assetTurnover", r.AssetTurnover, 14400.0 / 600},
		// CAC / ((TicketMedio/12) * (GrossMarginPct/100)) = 120 / (100 * 0.5)
		{"cacPayback", r.CACPaybackMonths, 120.0 / 50},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestAnalyzeUsesDecemberCash(t *testing.T) {
	plan := &statements.FinancialPlan{}
	plan.DFC.CashChange = monthly.Flat(-100)
	plan.DFC.ClosingCash = monthly.Full(func(m monthly.Month) float64 { return 2400 - 100*float64(m+1) })

	report := Analyze(plan, summary.Summary2025{}, 0)
	if report.BurnRate != 100 {
		t.Errorf("Expected burn rate 100, got %v", report.BurnRate)
	}
	if report.Runway.Infinite || report.Runway.Months != 12 {
		t.Errorf("Expected 12 months of runway, got %+v", report.Runway)
	}
}
