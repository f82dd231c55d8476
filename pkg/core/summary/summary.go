// Package summary derives the 2025 P&L rollup and the HR, marketing and
// commercial KPIs from the raw 2025 sheets.
package summary

import (
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

// LTVRetentionYears is the assumed customer lifetime used for LTV. It is a
// policy constant, not a measured retention.
const LTVRetentionYears = 3

// Inputs are the four raw 2025 datasets.
type Inputs struct {
	Sheet      models.FinancialSheet     `json:"sheet"`
	Commercial models.CommercialData2025 `json:"commercial"`
	People     models.PeopleData2025     `json:"people"`
	Marketing  models.MarketingData2025  `json:"marketing"`
}

// MonthBreakdown is one month of the P&L rollup.
type MonthBreakdown struct {
	Month         string  `json:"month"`
	GrossRevenue  float64 `json:"grossRevenue"`
	Taxes         float64 `json:"taxes"`
	NetRevenue    float64 `json:"netRevenue"`
	VariableCosts float64 `json:"variableCosts"`
	GrossProfit   float64 `json:"grossProfit"`
	FixedCosts    float64 `json:"fixedCosts"`
	Ebitda        float64 `json:"ebitda"`
}

// Summary2025 is a read-only snapshot derived from Inputs.
type Summary2025 struct {
	GrossRevenue  float64 `json:"grossRevenue"`
	Taxes         float64 `json:"taxes"`
	NetRevenue    float64 `json:"netRevenue"`
	VariableCosts float64 `json:"variableCosts"`
	GrossProfit   float64 `json:"grossProfit"`
	FixedCosts    float64 `json:"fixedCosts"`
	Ebitda        float64 `json:"ebitda"`

	GrossMarginPct          float64 `json:"grossMarginPct"`
	EbitdaMarginPct         float64 `json:"ebitdaMarginPct"`
	ContributionMarginRatio float64 `json:"contributionMarginRatio"`
	BreakEvenRevenue        float64 `json:"breakEvenRevenue"`

	HeadcountFinal   float64 `json:"headcountFinal"`
	HeadcountAvg     float64 `json:"headcountAvg"`
	Hires            float64 `json:"hires"`
	Terminations     float64 `json:"terminations"`
	TurnoverPct      float64 `json:"turnoverPct"`
	TotalPayroll     float64 `json:"totalPayroll"`
	AvgMonthlySalary float64 `json:"avgMonthlySalary"`

	MarketingSpend     float64 `json:"marketingSpend"`
	Leads              float64 `json:"leads"`
	NewCustomers       float64 `json:"newCustomers"`
	AvgActiveCustomers float64 `json:"avgActiveCustomers"`
	LostCustomers      float64 `json:"lostCustomers"`
	ChurnPct           float64 `json:"churnPct"`
	LeadConversionPct  float64 `json:"leadConversionPct"`
	CAC                float64 `json:"cac"`
	TicketMedio        float64 `json:"ticketMedio"`
	LTV                float64 `json:"ltv"`
	LTVCAC             float64 `json:"ltvCac"`
	MarketingROI       float64 `json:"marketingRoi"`

	Months [monthly.Count]MonthBreakdown `json:"months"`
}

// Compute builds the summary. Annual P&L totals are sums of the monthly
// breakdown so the monthly and annual views never drift apart.
func Compute(in Inputs) Summary2025 {
	var s Summary2025
	sheet := in.Sheet

	for _, m := range monthly.Months {
		gross := sheet.GrossRevenue.Values.Value(m)
		taxes := sheet.Taxes.Values.Value(m)
		net := gross - taxes
		variable := sheet.COGS.Values.Value(m) +
			sheet.Commissions.Values.Value(m) +
			sheet.Freight.Values.Value(m) +
			sheet.CustomVariableAt(m)
		grossProfit := net - variable
		fixed := sheet.Payroll.Values.Value(m) +
			sheet.Rent.Values.Value(m) +
			sheet.Opex.Values.Value(m) +
			sheet.FixedMarketing.Values.Value(m) +
			sheet.Admin.Values.Value(m) +
			sheet.CustomFixedAt(m)

		s.Months[m] = MonthBreakdown{
			Month:         m.Key(),
			GrossRevenue:  gross,
			Taxes:         taxes,
			NetRevenue:    net,
			VariableCosts: variable,
			GrossProfit:   grossProfit,
			FixedCosts:    fixed,
			Ebitda:        grossProfit - fixed,
		}
	}

	for _, mb := range s.Months {
		s.GrossRevenue += mb.GrossRevenue
		s.Taxes += mb.Taxes
		s.NetRevenue += mb.NetRevenue
		s.VariableCosts += mb.VariableCosts
		s.GrossProfit += mb.GrossProfit
		s.FixedCosts += mb.FixedCosts
		s.Ebitda += mb.Ebitda
	}

	if s.NetRevenue > 0 {
		s.GrossMarginPct = s.GrossProfit / s.NetRevenue * 100
		s.EbitdaMarginPct = s.Ebitda / s.NetRevenue * 100
		s.ContributionMarginRatio = s.GrossProfit / s.NetRevenue
	}
	s.BreakEvenRevenue = safeDiv(s.FixedCosts, s.ContributionMarginRatio)

	// People
	s.HeadcountFinal = monthly.LastNonZero(in.People.Headcount)
	s.HeadcountAvg = monthly.Average(in.People.Headcount)
	s.Hires = monthly.Sum(in.People.Hires)
	s.Terminations = monthly.Sum(in.People.Terminations)
	s.TurnoverPct = safeDiv(s.Terminations, s.HeadcountAvg) * 100
	s.TotalPayroll = monthly.Sum(sheet.Payroll.Values)
	s.AvgMonthlySalary = safeDiv(s.TotalPayroll, s.HeadcountAvg) / 12

	// Marketing & commercial
	s.MarketingSpend = monthly.Sum(in.Marketing.Investment)
	s.Leads = monthly.Sum(in.Marketing.Leads)
	s.NewCustomers = monthly.Sum(in.Commercial.NewCustomers)
	s.AvgActiveCustomers = monthly.Average(in.Commercial.ActiveCustomers)
	s.LostCustomers = monthly.Sum(in.Commercial.LostCustomers)
	s.ChurnPct = safeDiv(s.LostCustomers, s.AvgActiveCustomers) * 100
	s.LeadConversionPct = safeDiv(s.NewCustomers, s.Leads) * 100

	s.CAC = safeDiv(s.MarketingSpend, s.NewCustomers)
	s.TicketMedio = safeDiv(s.GrossRevenue/12, s.AvgActiveCustomers)
	s.LTV = s.TicketMedio * 12 * LTVRetentionYears
	s.LTVCAC = safeDiv(s.LTV, s.CAC)
	s.MarketingROI = safeDiv(s.NetRevenue-s.MarketingSpend, s.MarketingSpend)

	return s
}

// MonthlyEbitda exposes the breakdown's EBITDA as a series.
func (s Summary2025) MonthlyEbitda() monthly.MonthlyData {
	return monthly.Full(func(m monthly.Month) float64 { return s.Months[m].Ebitda })
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
