package projection

import (
	"encoding/json"
	"fmt"

	"business_planner/pkg/models"
)

// Scenarios holds exactly one Scenario per ScenarioName.
type Scenarios struct {
	byName map[ScenarioName]*Scenario
}

// DefaultScenarios returns the three scenarios at their default growth.
func DefaultScenarios() *Scenarios {
	set := &Scenarios{byName: make(map[ScenarioName]*Scenario, len(ScenarioNames))}
	for _, name := range ScenarioNames {
		set.byName[name] = NewScenario(name, DefaultGrowth[name])
	}
	return set
}

// Get returns the scenario called name.
func (s *Scenarios) Get(name ScenarioName) (*Scenario, error) {
	sc, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return sc, nil
}

// All returns the scenarios in display order.
func (s *Scenarios) All() []*Scenario {
	out := make([]*Scenario, 0, len(ScenarioNames))
	for _, name := range ScenarioNames {
		if sc, ok := s.byName[name]; ok {
			out = append(out, sc)
		}
	}
	return out
}

// RecalculateAll recalculates every scenario still in PercentageMode and
// returns the names that changed.
func (s *Scenarios) RecalculateAll(base models.FinancialSheet, strategicTotal float64) []ScenarioName {
	var changed []ScenarioName
	for _, sc := range s.All() {
		if err := sc.Recalculate(base, strategicTotal); err == nil {
			changed = append(changed, sc.name)
		}
	}
	return changed
}

// Clone deep-copies the set.
func (s *Scenarios) Clone() *Scenarios {
	out := &Scenarios{byName: make(map[ScenarioName]*Scenario, len(s.byName))}
	for name, sc := range s.byName {
		out.byName[name] = &Scenario{name: sc.name, mode: sc.mode, projection: sc.projection.Clone()}
	}
	return out
}

// scenarioData is the persisted form of a Scenario.
type scenarioData struct {
	Mode             ModeKind              `json:"mode"`
	GrowthPercentage float64               `json:"growthPercentage"`
	Projection       models.FinancialSheet `json:"projection"`
}

func (s *Scenario) MarshalJSON() ([]byte, error) {
	return json.Marshal(scenarioData{
		Mode:             s.mode.Kind(),
		GrowthPercentage: s.mode.Growth(),
		Projection:       s.projection,
	})
}

func (s *Scenarios) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.byName)
}

// UnmarshalJSON fills the set from persisted data. Scenarios missing from
// the payload keep their defaults; unknown names are rejected.
func (s *Scenarios) UnmarshalJSON(data []byte) error {
	var raw map[string]scenarioData
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scenarios: %w", err)
	}
	set := DefaultScenarios()
	for key, sd := range raw {
		name, err := ParseScenarioName(key)
		if err != nil {
			return err
		}
		sc := &Scenario{name: name, projection: sd.Projection}
		switch sd.Mode {
		case ModeManual:
			sc.mode = ManualMode{InertGrowthPct: sd.GrowthPercentage}
		case ModePercentage, "":
			sc.mode = PercentageMode{GrowthPct: sd.GrowthPercentage}
		default:
			return fmt.Errorf("scenario %s: unknown mode %q", name, sd.Mode)
		}
		set.byName[name] = sc
	}
	*s = *set
	return nil
}
