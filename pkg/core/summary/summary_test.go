package summary

import (
	"math"
	"testing"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

func sampleInputs() Inputs {
	var sheet models.FinancialSheet
	sheet.GrossRevenue.Values = monthly.Flat(10000)
	sheet.Taxes.Values = monthly.Flat(1000)
	sheet.COGS.Values = monthly.Flat(3000)
	sheet.Commissions.Values = monthly.Flat(500)
	sheet.Freight.Values = monthly.Flat(200)
	sheet.Payroll.Values = monthly.Flat(2000)
	sheet.Rent.Values = monthly.Flat(800)
	sheet.Opex.Values = monthly.Flat(300)
	sheet.FixedMarketing.Values = monthly.Flat(400)
	sheet.Admin.Values = monthly.Flat(100)
	software := sheet.CustomFixedCosts.Add("Software")
	software.Values = monthly.Flat(50)
	packaging := sheet.CustomVariableCosts.Add("Embalagem")
	packaging.Values = monthly.Flat(100)

	return Inputs{
		Sheet: sheet,
		Commercial: models.CommercialData2025{
			NewCustomers:    monthly.Flat(10),
			ActiveCustomers: monthly.Flat(100),
			LostCustomers:   monthly.Flat(2),
		},
		People: models.PeopleData2025{
			Headcount:    monthly.Of(4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5),
			Terminations: monthly.Of(0, 0, 1),
			Hires:        monthly.Of(0, 0, 1, 0, 0, 0, 1),
		},
		Marketing: models.MarketingData2025{
			Investment: monthly.Flat(1200),
			Leads:      monthly.Flat(100),
		},
	}
}

func TestMonthlyRollupAndEbitdaIdentity(t *testing.T) {
	in := sampleInputs()
	s := Compute(in)

	for _, m := range monthly.Months {
		mb := s.Months[m]
		if mb.NetRevenue != 9000 {
			t.Errorf("%s: Expected net revenue 9000, got %v", m, mb.NetRevenue)
		}
		if mb.VariableCosts != 3800 {
			t.Errorf("%s: Expected variable costs 3800, got %v", m, mb.VariableCosts)
		}
		fixed := in.Sheet.Payroll.Values.Value(m) + in.Sheet.Rent.Values.Value(m) +
			in.Sheet.Opex.Values.Value(m) + in.Sheet.FixedMarketing.Values.Value(m) +
			in.Sheet.Admin.Values.Value(m) + in.Sheet.CustomFixedAt(m)
		if math.Abs(mb.Ebitda-(mb.GrossProfit-fixed)) > 1e-9 {
			t.Errorf("%s: EBITDA identity broken: %v vs %v", m, mb.Ebitda, mb.GrossProfit-fixed)
		}
	}
}

func TestAnnualTotalsMatchSumOfMonths(t *testing.T) {
	s := Compute(sampleInputs())

	sumEbitda := 0.0
	for _, mb := range s.Months {
		sumEbitda += mb.Ebitda
	}
	if s.Ebitda != sumEbitda {
		t.Errorf("Expected annual EBITDA %v to equal sum of months %v", s.Ebitda, sumEbitda)
	}
	if s.GrossRevenue != 120000 {
		t.Errorf("Expected gross revenue 120000, got %v", s.GrossRevenue)
	}
	// gross profit 5200/month, net 9000
	if math.Abs(s.GrossMarginPct-5200.0/9000*100) > 1e-9 {
		t.Errorf("Unexpected gross margin %v", s.GrossMarginPct)
	}
	// fixed 3650/month, ebitda 1550
	if math.Abs(s.EbitdaMarginPct-1550.0/9000*100) > 1e-9 {
		t.Errorf("Unexpected EBITDA margin %v", s.EbitdaMarginPct)
	}
	wantBreakEven := s.FixedCosts / (s.GrossProfit / s.NetRevenue)
	if math.Abs(s.BreakEvenRevenue-wantBreakEven) > 1e-6 {
		t.Errorf("Expected break-even %v, got %v", wantBreakEven, s.BreakEvenRevenue)
	}
}

func TestPeopleMetrics(t *testing.T) {
	s := Compute(sampleInputs())

	if s.HeadcountFinal != 5 {
		t.Errorf("Expected final headcount 5, got %v", s.HeadcountFinal)
	}
	if s.HeadcountAvg != 4.5 {
		t.Errorf("Expected average headcount 4.5, got %v", s.HeadcountAvg)
	}
	if math.Abs(s.TurnoverPct-1/4.5*100) > 1e-9 {
		t.Errorf("Unexpected turnover %v", s.TurnoverPct)
	}
	// payroll 24000 / 4.5 / 12
	if math.Abs(s.AvgMonthlySalary-24000/4.5/12) > 1e-9 {
		t.Errorf("Unexpected average salary %v", s.AvgMonthlySalary)
	}
	if s.Hires != 2 {
		t.Errorf("Expected 2 hires, got %v", s.Hires)
	}
}

func TestMarketingMetrics(t *testing.T) {
	s := Compute(sampleInputs())

	// spend 14400 / 120 new customers
	if s.CAC != 120 {
		t.Errorf("Expected CAC 120, got %v", s.CAC)
	}
	// (120000/12)/100
	if s.TicketMedio != 100 {
		t.Errorf("Expected ticket 100, got %v", s.TicketMedio)
	}
	if s.LTV != 100*12*LTVRetentionYears {
		t.Errorf("Expected LTV 3600, got %v", s.LTV)
	}
	if s.LTVCAC != 30 {
		t.Errorf("Expected LTV/CAC 30, got %v", s.LTVCAC)
	}
	wantROI := (108000.0 - 14400) / 14400
	if math.Abs(s.MarketingROI-wantROI) > 1e-9 {
		t.Errorf("Expected ROI %v, got %v", wantROI, s.MarketingROI)
	}
	if math.Abs(s.LeadConversionPct-10) > 1e-9 {
		t.Errorf("Expected lead conversion 10%%, got %v", s.LeadConversionPct)
	}
	if math.Abs(s.ChurnPct-24) > 1e-9 {
		t.Errorf("Expected churn 24%%, got %v", s.ChurnPct)
	}
}

func TestEmptyInputsNeverProduceNaN(t *testing.T) {
	s := Compute(Inputs{})
	values := []float64{
		s.GrossMarginPct, s.EbitdaMarginPct, s.BreakEvenRevenue, s.TurnoverPct,
		s.AvgMonthlySalary, s.CAC, s.TicketMedio, s.LTV, s.LTVCAC, s.MarketingROI,
		s.ChurnPct, s.LeadConversionPct,
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != 0 {
			t.Errorf("metric %d: expected 0, got %v", i, v)
		}
	}
}

func TestNegativeNetRevenueZeroesMargins(t *testing.T) {
	var in Inputs
	in.Sheet.GrossRevenue.Values = monthly.Of(100)
	in.Sheet.Taxes.Values = monthly.Of(200)
	s := Compute(in)
	if s.GrossMarginPct != 0 || s.EbitdaMarginPct != 0 {
		t.Errorf("Expected zero margins for non-positive net revenue, got %v / %v", s.GrossMarginPct, s.EbitdaMarginPct)
	}
}
