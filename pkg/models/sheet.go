package models

import (
	"fmt"

	"business_planner/pkg/core/monthly"
)

// LineKey addresses one of the fixed rows of a FinancialSheet.
type LineKey string

const (
	LineGrossRevenue   LineKey = "grossRevenue"
	LineTaxes          LineKey = "taxes"
	LinePayroll        LineKey = "payroll"
	LineRent           LineKey = "rent"
	LineOpex           LineKey = "opex"
	LineFixedMarketing LineKey = "fixedMarketing"
	LineAdmin          LineKey = "admin"
	LineCOGS           LineKey = "cogs"
	LineCommissions    LineKey = "commissions"
	LineFreight        LineKey = "freight"
)

// FixedLines lists every fixed row in display order.
var FixedLines = []LineKey{
	LineGrossRevenue, LineTaxes,
	LineCOGS, LineCommissions, LineFreight,
	LinePayroll, LineRent, LineOpex, LineFixedMarketing, LineAdmin,
}

// CostGroup identifies which custom collection an item belongs to.
type CostGroup string

const (
	GroupFixed    CostGroup = "fixed"
	GroupVariable CostGroup = "variable"
)

// ParseCostGroup validates a group name.
func ParseCostGroup(s string) (CostGroup, error) {
	switch CostGroup(s) {
	case GroupFixed, GroupVariable:
		return CostGroup(s), nil
	}
	return "", fmt.Errorf("unknown cost group %q", s)
}

// Row is a single named line item.
type Row struct {
	Values monthly.MonthlyData `json:"values"`
}

// FinancialSheet holds the monthly line items of one year. The 2025 actuals
// and each scenario's 2026 projection share this shape.
type FinancialSheet struct {
	GrossRevenue   Row `json:"grossRevenue"`
	Taxes          Row `json:"taxes"`
	Payroll        Row `json:"payroll"`
	Rent           Row `json:"rent"`
	Opex           Row `json:"opex"`
	FixedMarketing Row `json:"fixedMarketing"`
	Admin          Row `json:"admin"`
	COGS           Row `json:"cogs"`
	Commissions    Row `json:"commissions"`
	Freight        Row `json:"freight"`

	CustomFixedCosts    CustomItems `json:"customFixedCosts"`
	CustomVariableCosts CustomItems `json:"customVariableCosts"`
}

// Line returns a pointer to the fixed row for key.
func (s *FinancialSheet) Line(key LineKey) (*Row, error) {
	switch key {
	case LineGrossRevenue:
		return &s.GrossRevenue, nil
	case LineTaxes:
		return &s.Taxes, nil
	case LinePayroll:
		return &s.Payroll, nil
	case LineRent:
		return &s.Rent, nil
	case LineOpex:
		return &s.Opex, nil
	case LineFixedMarketing:
		return &s.FixedMarketing, nil
	case LineAdmin:
		return &s.Admin, nil
	case LineCOGS:
		return &s.COGS, nil
	case LineCommissions:
		return &s.Commissions, nil
	case LineFreight:
		return &s.Freight, nil
	}
	return nil, fmt.Errorf("unknown line %q", key)
}

// Custom returns the custom collection for group.
func (s *FinancialSheet) Custom(group CostGroup) (*CustomItems, error) {
	switch group {
	case GroupFixed:
		return &s.CustomFixedCosts, nil
	case GroupVariable:
		return &s.CustomVariableCosts, nil
	}
	return nil, fmt.Errorf("unknown cost group %q", group)
}

// CellRef points at either a fixed row (Line) or a custom item (Group + ItemID).
type CellRef struct {
	Line   LineKey   `json:"line,omitempty"`
	Group  CostGroup `json:"group,omitempty"`
	ItemID string    `json:"itemId,omitempty"`
}

// Series resolves ref to the series it addresses.
func (s *FinancialSheet) Series(ref CellRef) (*monthly.MonthlyData, error) {
	if ref.ItemID != "" {
		items, err := s.Custom(ref.Group)
		if err != nil {
			return nil, err
		}
		item := items.Get(ref.ItemID)
		if item == nil {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, ref.ItemID)
		}
		return &item.Values, nil
	}
	row, err := s.Line(ref.Line)
	if err != nil {
		return nil, err
	}
	return &row.Values, nil
}

// SetCell writes v into the addressed month.
func (s *FinancialSheet) SetCell(ref CellRef, m monthly.Month, v float64) error {
	series, err := s.Series(ref)
	if err != nil {
		return err
	}
	series.Set(m, v)
	return nil
}

// Map returns a copy of the sheet with fn applied to every series, custom
// items included. Item ids and names are preserved.
func (s FinancialSheet) Map(fn func(monthly.MonthlyData) monthly.MonthlyData) FinancialSheet {
	out := FinancialSheet{
		CustomFixedCosts:    s.CustomFixedCosts.Map(fn),
		CustomVariableCosts: s.CustomVariableCosts.Map(fn),
	}
	for _, key := range FixedLines {
		src, _ := s.Line(key)
		dst, _ := out.Line(key)
		dst.Values = fn(src.Values)
	}
	return out
}

// Clone deep-copies the sheet.
func (s FinancialSheet) Clone() FinancialSheet {
	return s.Map(monthly.MonthlyData.Clone)
}

// CustomVariableAt sums every custom variable item in month m.
func (s FinancialSheet) CustomVariableAt(m monthly.Month) float64 {
	return s.CustomVariableCosts.SumAt(m)
}

// CustomFixedAt sums every custom fixed item in month m.
func (s FinancialSheet) CustomFixedAt(m monthly.Month) float64 {
	return s.CustomFixedCosts.SumAt(m)
}
