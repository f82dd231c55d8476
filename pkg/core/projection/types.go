package projection

import (
	"errors"
	"fmt"
)

// ScenarioName identifies one of the three fixed growth scenarios.
type ScenarioName string

const (
	Optimistic   ScenarioName = "optimistic"
	Conservative ScenarioName = "conservative"
	Disruptive   ScenarioName = "disruptive"
)

// ScenarioNames lists the scenarios in display order. The set is fixed.
var ScenarioNames = []ScenarioName{Optimistic, Conservative, Disruptive}

// DefaultGrowth is the starting growth percentage for each scenario.
var DefaultGrowth = map[ScenarioName]float64{
	Optimistic:   20,
	Conservative: 10,
	Disruptive:   35,
}

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrManualMode      = errors.New("scenario is in manual mode")
)

// ParseScenarioName validates a scenario name.
func ParseScenarioName(s string) (ScenarioName, error) {
	for _, n := range ScenarioNames {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// ModeKind is the persisted tag of a Mode.
type ModeKind string

const (
	ModePercentage ModeKind = "percentage"
	ModeManual     ModeKind = "manual"
)

// Mode is the per-scenario input mode: PercentageMode or ManualMode.
type Mode interface {
	Kind() ModeKind
	// Growth returns the stored growth percentage. It drives the projection
	// only in PercentageMode.
	Growth() float64
	isMode()
}

// PercentageMode derives the projection from the 2025 sheet on each
// explicit recalculation.
type PercentageMode struct {
	GrowthPct float64
}

// ManualMode owns the projection cell by cell. The growth percentage is
// kept only so switching back restores it.
type ManualMode struct {
	InertGrowthPct float64
}

func (PercentageMode) Kind() ModeKind    { return ModePercentage }
func (m PercentageMode) Growth() float64 { return m.GrowthPct }
func (PercentageMode) isMode()           {}

func (ManualMode) Kind() ModeKind    { return ModeManual }
func (m ManualMode) Growth() float64 { return m.InertGrowthPct }
func (ManualMode) isMode()           {}
