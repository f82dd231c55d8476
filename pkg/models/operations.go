package models

import "business_planner/pkg/core/monthly"

// CommercialData2025 tracks the customer base month by month.
type CommercialData2025 struct {
	NewCustomers    monthly.MonthlyData `json:"newCustomers"`
	ActiveCustomers monthly.MonthlyData `json:"activeCustomers"`
	LostCustomers   monthly.MonthlyData `json:"lostCustomers"`
}

// Clone copies the series.
func (d CommercialData2025) Clone() CommercialData2025 {
	return CommercialData2025{
		NewCustomers:    d.NewCustomers.Clone(),
		ActiveCustomers: d.ActiveCustomers.Clone(),
		LostCustomers:   d.LostCustomers.Clone(),
	}
}

// PeopleData2025 tracks headcount movements. Headcount is a stock
// (period-end balance); hires and terminations are flows.
type PeopleData2025 struct {
	Headcount    monthly.MonthlyData `json:"headcount"`
	Hires        monthly.MonthlyData `json:"hires"`
	Terminations monthly.MonthlyData `json:"terminations"`
}

// Clone copies the series.
func (d PeopleData2025) Clone() PeopleData2025 {
	return PeopleData2025{
		Headcount:    d.Headcount.Clone(),
		Hires:        d.Hires.Clone(),
		Terminations: d.Terminations.Clone(),
	}
}

// MarketingData2025 tracks acquisition spend and funnel volume.
type MarketingData2025 struct {
	Investment monthly.MonthlyData `json:"investment"`
	Leads      monthly.MonthlyData `json:"leads"`
}

// Clone copies the series.
func (d MarketingData2025) Clone() MarketingData2025 {
	return MarketingData2025{Investment: d.Investment.Clone(), Leads: d.Leads.Clone()}
}

// WorkingCapital holds the cycle assumptions, in days.
type WorkingCapital struct {
	ReceivableDays float64 `json:"receivableDays"`
	InventoryDays  float64 `json:"inventoryDays"`
	PayableDays    float64 `json:"payableDays"`
}

// CapexItem is one planned investment for 2026.
type CapexItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Investments lists the 2026 capital expenditure plan.
type Investments struct {
	Items []CapexItem `json:"items"`
}

// Total sums every capex item.
func (i Investments) Total() float64 {
	total := 0.0
	for _, item := range i.Items {
		total += item.Amount
	}
	return total
}

// Financing holds the opening position for 2026.
type Financing struct {
	// SaldoCaixaFinal2025 is the user-entered 2025 year-end cash balance.
	SaldoCaixaFinal2025 float64 `json:"saldoCaixaFinal2025"`
	OutstandingDebt     float64 `json:"outstandingDebt"`
}

// Goals2026 are free-form targets used by the narrative reports.
type Goals2026 struct {
	RevenueTarget      float64 `json:"revenueTarget"`
	EbitdaMarginTarget float64 `json:"ebitdaMarginTarget"`
	Notes              string  `json:"notes"`
}
