package validate

import (
	"math"
	"testing"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/summary"
	"business_planner/pkg/models"
)

func samplePlan() *statements.FinancialPlan {
	var p models.FinancialSheet
	p.GrossRevenue.Values = monthly.Flat(10000)
	p.Taxes.Values = monthly.Flat(1000)
	p.COGS.Values = monthly.Flat(3000)
	p.Payroll.Values = monthly.Flat(2500)
	p.Rent.Values = monthly.Flat(500)
	return statements.Build("conservative", p, statements.Assumptions{
		WorkingCapital: models.WorkingCapital{ReceivableDays: 30, InventoryDays: 30, PayableDays: 30},
		Investments:    models.Investments{Items: []models.CapexItem{{Name: "Forno", Amount: 2400}}},
		Financing:      models.Financing{SaldoCaixaFinal2025: 8000},
	})
}

func TestLinkagesPassOnBuiltPlan(t *testing.T) {
	report := ValidateLinkages(samplePlan(), 8000, DefaultTolerance)
	if !report.AllPassed {
		t.Errorf("Expected all linkages to pass, got %v", report.FailedChecks)
	}
	if report.Scenario != "conservative" {
		t.Errorf("Expected scenario conservative, got %s", report.Scenario)
	}
}

func TestLinkageDetectsWrongOpeningCash(t *testing.T) {
	report := ValidateLinkages(samplePlan(), 9000, DefaultTolerance)
	if report.AllPassed {
		t.Fatalf("Expected opening cash mismatch to fail")
	}
	if report.CashRollover.IsLinked || report.CashRollover.Month != monthly.Jan {
		t.Errorf("Expected January rollover failure, got %+v", report.CashRollover)
	}
	if math.Abs(report.CashRollover.Difference-1000) > 1e-9 {
		t.Errorf("Expected difference 1000, got %v", report.CashRollover.Difference)
	}
	if !report.DFCToBP.IsLinked || !report.BalanceSheet.IsLinked {
		t.Errorf("Expected the other linkages to hold")
	}
}

func TestLinkageDetectsTamperedMonth(t *testing.T) {
	plan := samplePlan()
	plan.BP.Cash.Set(monthly.Jul, plan.BP.Cash.Value(monthly.Jul)+50)
	report := ValidateLinkages(plan, 8000, DefaultTolerance)
	if report.DFCToBP.IsLinked || report.DFCToBP.Month != monthly.Jul {
		t.Errorf("Expected July cash linkage failure, got %+v", report.DFCToBP)
	}
	if len(report.FailedChecks) != 1 {
		t.Errorf("Expected 1 failed check, got %v", report.FailedChecks)
	}
}

func TestCalculateYoY(t *testing.T) {
	tests := []struct {
		current, prior, want float64
	}{
		{110, 100, 10},
		{90, 100, -10},
		{50, 0, 0},
		{-50, -100, 50},
	}
	for _, tt := range tests {
		if got := CalculateYoY(tt.current, tt.prior); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("CalculateYoY(%v, %v): expected %v, got %v", tt.current, tt.prior, tt.want, got)
		}
	}
}

func TestCompareYears(t *testing.T) {
	s := summary.Summary2025{GrossRevenue: 100000, NetRevenue: 90000, Ebitda: 0}
	results := CompareYears(s, samplePlan())
	if len(results) != 5 {
		t.Fatalf("Expected 5 comparisons, got %d", len(results))
	}
	if results[0].Label != "Receita bruta" || math.Abs(results[0].ChangePct-20) > 1e-9 {
		t.Errorf("Expected +20%% gross revenue, got %+v", results[0])
	}
	ebitda := results[4]
	if !ebitda.FromZero || ebitda.ChangePct != 0 {
		t.Errorf("Expected EBITDA flagged as growth from zero, got %+v", ebitda)
	}
}
