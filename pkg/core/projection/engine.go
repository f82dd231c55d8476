package projection

import (
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

// Scenario is one growth scenario and its 2026 projection. All mutations go
// through its methods so the mode transitions cannot be bypassed.
type Scenario struct {
	name       ScenarioName
	mode       Mode
	projection models.FinancialSheet
}

// NewScenario starts a scenario in PercentageMode with an empty projection.
func NewScenario(name ScenarioName, growthPct float64) *Scenario {
	return &Scenario{name: name, mode: PercentageMode{GrowthPct: growthPct}}
}

func (s *Scenario) Name() ScenarioName { return s.name }
func (s *Scenario) Mode() Mode         { return s.mode }

// GrowthPercentage returns the stored growth percentage (inert in manual mode).
func (s *Scenario) GrowthPercentage() float64 { return s.mode.Growth() }

// Projection returns a copy of the 2026 sheet.
func (s *Scenario) Projection() models.FinancialSheet {
	return s.projection.Clone()
}

// SetGrowthPercentage stores pct. In PercentageMode it also recalculates
// from base; in ManualMode the value is only remembered. Reports whether the
// projection was recalculated.
func (s *Scenario) SetGrowthPercentage(pct float64, base models.FinancialSheet, strategicTotal float64) bool {
	switch s.mode.(type) {
	case PercentageMode:
		s.mode = PercentageMode{GrowthPct: pct}
		s.projection = ApplyGrowth(base, GrowthFactor(pct, strategicTotal))
		return true
	default:
		s.mode = ManualMode{InertGrowthPct: pct}
		return false
	}
}

// Recalculate overwrites the projection with base grown by the scenario's
// factor. Manual edits are discarded. Only valid in PercentageMode.
func (s *Scenario) Recalculate(base models.FinancialSheet, strategicTotal float64) error {
	pm, ok := s.mode.(PercentageMode)
	if !ok {
		return ErrManualMode
	}
	s.projection = ApplyGrowth(base, GrowthFactor(pm.GrowthPct, strategicTotal))
	return nil
}

// SwitchToManual moves to ManualMode keeping the current projection.
func (s *Scenario) SwitchToManual() {
	s.mode = ManualMode{InertGrowthPct: s.mode.Growth()}
}

// SwitchToPercentage moves to PercentageMode. The projection is left as is
// until Recalculate is invoked.
func (s *Scenario) SwitchToPercentage() {
	s.mode = PercentageMode{GrowthPct: s.mode.Growth()}
}

// EditCell coerces text to a number (unparseable text becomes 0) and writes
// it into the addressed cell, switching to ManualMode first.
func (s *Scenario) EditCell(ref models.CellRef, m monthly.Month, text string) error {
	return s.SetCell(ref, m, monthly.ParseNumber(text))
}

// SetCell writes v into the addressed cell, switching to ManualMode first.
func (s *Scenario) SetCell(ref models.CellRef, m monthly.Month, v float64) error {
	if _, err := s.projection.Series(ref); err != nil {
		return err
	}
	s.SwitchToManual()
	return s.projection.SetCell(ref, m, v)
}

// AddCustomItem appends a custom row to the projection, switching to ManualMode.
func (s *Scenario) AddCustomItem(group models.CostGroup, name string) (models.CustomLineItem, error) {
	items, err := s.projection.Custom(group)
	if err != nil {
		return models.CustomLineItem{}, err
	}
	s.SwitchToManual()
	item := items.Add(name)
	return *item, nil
}

// RemoveCustomItem deletes a custom row from the projection, switching to ManualMode.
func (s *Scenario) RemoveCustomItem(group models.CostGroup, id string) error {
	items, err := s.projection.Custom(group)
	if err != nil {
		return err
	}
	if items.Get(id) == nil {
		return models.ErrItemNotFound
	}
	s.SwitchToManual()
	return items.Remove(id)
}

// RenameCustomItem renames a custom row of the projection, switching to
// ManualMode so the next recalculation cannot drop the new name.
func (s *Scenario) RenameCustomItem(group models.CostGroup, id, name string) error {
	items, err := s.projection.Custom(group)
	if err != nil {
		return err
	}
	if items.Get(id) == nil {
		return models.ErrItemNotFound
	}
	s.SwitchToManual()
	return items.Rename(id, name)
}
