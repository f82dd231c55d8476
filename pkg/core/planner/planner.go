// Package planner owns one user's plan and exposes its dependency graph:
// raw 2025 inputs feed the summary and the strategic score, the score and
// each scenario's growth feed the projections, and the base scenario feeds
// the financial statements and liquidity ratios.
//
// Inputs change only through named operations. Derived values are pure
// functions recomputed on demand and memoized on their inputs. Scenario
// projections and the financial plan change only on explicit triggers.
package planner

import (
	"errors"
	"fmt"
	"sync"

	"business_planner/pkg/core/calc"
	"business_planner/pkg/core/importer"
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/strategic"
	"business_planner/pkg/core/summary"
	"business_planner/pkg/models"
)

// ErrNoFinancialPlan is returned by Liquidity before CalculateFinancialPlan.
var ErrNoFinancialPlan = errors.New("financial plan not calculated")

// Planner serializes all access to a PlanState.
type Planner struct {
	mu    sync.Mutex
	state PlanState
	plan  *statements.FinancialPlan
	memo  *memo

	listenersMu sync.RWMutex
	listeners   map[Topic][]Listener
	wildcard    []Listener
}

// New wraps state. cacheSize bounds each memo cache (0 picks the default).
func New(state PlanState, cacheSize int) (*Planner, error) {
	m, err := newMemo(cacheSize)
	if err != nil {
		return nil, err
	}
	state.normalize()
	return &Planner{
		state:     state.clone(),
		memo:      m,
		listeners: make(map[Topic][]Listener),
	}, nil
}

// State returns a deep copy of the current state.
func (p *Planner) State() PlanState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Replace swaps the whole state, as when a snapshot is loaded or PUT.
func (p *Planner) Replace(state PlanState) {
	state.normalize()
	p.mu.Lock()
	p.state = state.clone()
	p.plan = nil
	p.mu.Unlock()
	p.publish(Event{Topic: TopicState, Persist: true})
}

// =============================================================================
// Derived values
// =============================================================================

// Summary returns the 2025 summary.
func (p *Planner) Summary() summary.Summary2025 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summaryLocked()
}

func (p *Planner) summaryLocked() summary.Summary2025 {
	return p.memo.summary(summary.Inputs{
		Sheet:      p.state.Sheet2025,
		Commercial: p.state.Commercial,
		People:     p.state.People,
		Marketing:  p.state.Marketing,
	})
}

// StrategicScore returns the composite strategic adjustment.
func (p *Planner) StrategicScore() strategic.StrategicScore {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.memo.score(p.state.Strategic)
}

func (p *Planner) strategicTotalLocked() float64 {
	return p.memo.score(p.state.Strategic).Total
}

// =============================================================================
// 2025 inputs
// =============================================================================

// EditSheetCell coerces text and writes it into the 2025 sheet.
func (p *Planner) EditSheetCell(ref models.CellRef, m monthly.Month, text string) error {
	return p.SetSheetCell(ref, m, monthly.ParseNumber(text))
}

// SetSheetCell writes v into the 2025 sheet.
func (p *Planner) SetSheetCell(ref models.CellRef, m monthly.Month, v float64) error {
	p.mu.Lock()
	err := p.state.Sheet2025.SetCell(ref, m, v)
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.publish(Event{Topic: TopicSheet, Persist: true})
	return nil
}

// SetSheetSeries replaces a whole 2025 series.
func (p *Planner) SetSheetSeries(ref models.CellRef, values monthly.MonthlyData) error {
	p.mu.Lock()
	series, err := p.state.Sheet2025.Series(ref)
	if err == nil {
		*series = values.Clone()
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.publish(Event{Topic: TopicSheet, Persist: true})
	return nil
}

// AddSheetItem appends a custom item to the 2025 sheet.
func (p *Planner) AddSheetItem(group models.CostGroup, name string) (models.CustomLineItem, error) {
	p.mu.Lock()
	items, err := p.state.Sheet2025.Custom(group)
	var item models.CustomLineItem
	if err == nil {
		item = *items.Add(name)
	}
	p.mu.Unlock()
	if err != nil {
		return models.CustomLineItem{}, err
	}
	p.publish(Event{Topic: TopicSheet, Persist: true})
	return item, nil
}

// RemoveSheetItem deletes a custom item from the 2025 sheet.
func (p *Planner) RemoveSheetItem(group models.CostGroup, id string) error {
	return p.mutateSheetItems(group, func(items *models.CustomItems) error {
		return items.Remove(id)
	})
}

// RenameSheetItem renames a custom item of the 2025 sheet.
func (p *Planner) RenameSheetItem(group models.CostGroup, id, name string) error {
	return p.mutateSheetItems(group, func(items *models.CustomItems) error {
		return items.Rename(id, name)
	})
}

func (p *Planner) mutateSheetItems(group models.CostGroup, fn func(*models.CustomItems) error) error {
	p.mu.Lock()
	items, err := p.state.Sheet2025.Custom(group)
	if err == nil {
		err = fn(items)
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.publish(Event{Topic: TopicSheet, Persist: true})
	return nil
}

// ImportTSV applies pasted spreadsheet rows to the fixed 2025 lines.
func (p *Planner) ImportTSV(text string) (importer.Result, error) {
	res := importer.ParseTSV(text)
	if len(res.Order) == 0 {
		return res, nil
	}
	p.mu.Lock()
	err := res.Apply(&p.state.Sheet2025)
	p.mu.Unlock()
	if err != nil {
		return res, err
	}
	p.publish(Event{Topic: TopicSheet, Persist: true})
	return res, nil
}

// DistributeTarget selects where Distribute writes.
type DistributeTarget struct {
	Ref models.CellRef `json:"ref"`
	// Scenario, when set, targets that scenario's projection instead of the
	// 2025 sheet. Writing into a projection switches it to manual mode.
	Scenario projection.ScenarioName `json:"scenario,omitempty"`
}

// Distribute spreads total over the target series. The seasonal policy uses
// the 2025 series at the same ref as its reference.
func (p *Planner) Distribute(target DistributeTarget, total float64, policy monthly.Policy) (monthly.MonthlyData, error) {
	p.mu.Lock()
	var reference monthly.MonthlyData
	series, err := p.state.Sheet2025.Series(target.Ref)
	switch {
	case err == nil:
		reference = *series
	case target.Scenario == "":
		p.mu.Unlock()
		return monthly.MonthlyData{}, err
	default:
		// items added only to the projection have no 2025 reference
		err = nil
	}
	values := monthly.Distribute(total, policy, reference)

	ev := Event{Topic: TopicSheet, Persist: true}
	if target.Scenario == "" {
		*series = values.Clone()
	} else {
		var sc *projection.Scenario
		sc, err = p.state.Scenarios.Get(target.Scenario)
		for _, m := range monthly.Months {
			if err != nil {
				break
			}
			err = sc.SetCell(target.Ref, m, values.Value(m))
		}
		ev = Event{Topic: TopicScenario, Scenario: target.Scenario, Persist: true}
	}
	p.mu.Unlock()
	if err != nil {
		return monthly.MonthlyData{}, err
	}
	p.publish(ev)
	return values, nil
}

// UpdateCommercial replaces the commercial data.
func (p *Planner) UpdateCommercial(d models.CommercialData2025) {
	p.mu.Lock()
	p.state.Commercial = d.Clone()
	p.mu.Unlock()
	p.publish(Event{Topic: TopicCommercial, Persist: true})
}

// UpdatePeople replaces the people data.
func (p *Planner) UpdatePeople(d models.PeopleData2025) {
	p.mu.Lock()
	p.state.People = d.Clone()
	p.mu.Unlock()
	p.publish(Event{Topic: TopicPeople, Persist: true})
}

// UpdateMarketing replaces the marketing data.
func (p *Planner) UpdateMarketing(d models.MarketingData2025) {
	p.mu.Lock()
	p.state.Marketing = d.Clone()
	p.mu.Unlock()
	p.publish(Event{Topic: TopicMarketing, Persist: true})
}

// UpdateStrategic replaces the strategic analyses. Projections are not
// recalculated; the new score applies on the next recalculation.
func (p *Planner) UpdateStrategic(in models.StrategicInputs) {
	p.mu.Lock()
	p.state.Strategic = in.Clone()
	p.mu.Unlock()
	p.publish(Event{Topic: TopicStrategic, Persist: true})
}

// UpdateAssumptions replaces working capital, investments and financing.
func (p *Planner) UpdateAssumptions(a statements.Assumptions) {
	p.mu.Lock()
	a.Investments.Items = append([]models.CapexItem(nil), a.Investments.Items...)
	p.state.Assumptions = a
	p.mu.Unlock()
	p.publish(Event{Topic: TopicAssumptions, Persist: true})
}

// UpdateGoals replaces the 2026 goals.
func (p *Planner) UpdateGoals(g models.Goals2026) {
	p.mu.Lock()
	p.state.Goals = g
	p.mu.Unlock()
	p.publish(Event{Topic: TopicGoals, Persist: true})
}

// SetNarrative stores generated text verbatim.
func (p *Planner) SetNarrative(report, text string) {
	p.mu.Lock()
	p.state.Narratives[report] = text
	p.mu.Unlock()
	p.publish(Event{Topic: TopicNarrative, Persist: true})
}

// =============================================================================
// Scenarios
// =============================================================================

// withScenario runs fn on the named scenario under the lock and publishes a
// scenario event if fn succeeds.
func (p *Planner) withScenario(name projection.ScenarioName, fn func(sc *projection.Scenario) error) error {
	p.mu.Lock()
	sc, err := p.state.Scenarios.Get(name)
	if err == nil {
		err = fn(sc)
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.publish(Event{Topic: TopicScenario, Scenario: name, Persist: true})
	return nil
}

// Scenario returns a copy of one scenario's mode, growth and projection.
func (p *Planner) Scenario(name projection.ScenarioName) (projection.Mode, models.FinancialSheet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sc, err := p.state.Scenarios.Get(name)
	if err != nil {
		return nil, models.FinancialSheet{}, err
	}
	return sc.Mode(), sc.Projection(), nil
}

// SetGrowth stores the growth percentage. In percentage mode this is a
// recalculation trigger; in manual mode the value is only remembered.
func (p *Planner) SetGrowth(name projection.ScenarioName, pct float64) (recalculated bool, err error) {
	err = p.withScenario(name, func(sc *projection.Scenario) error {
		recalculated = sc.SetGrowthPercentage(pct, p.state.Sheet2025, p.strategicTotalLocked())
		return nil
	})
	return recalculated, err
}

// EditScenarioCell coerces text and writes it into a projection, switching
// that scenario to manual mode.
func (p *Planner) EditScenarioCell(name projection.ScenarioName, ref models.CellRef, m monthly.Month, text string) error {
	return p.withScenario(name, func(sc *projection.Scenario) error {
		return sc.EditCell(ref, m, text)
	})
}

// SetScenarioCell writes a number into a projection, switching that scenario
// to manual mode.
func (p *Planner) SetScenarioCell(name projection.ScenarioName, ref models.CellRef, m monthly.Month, v float64) error {
	return p.withScenario(name, func(sc *projection.Scenario) error {
		return sc.SetCell(ref, m, v)
	})
}

// AddScenarioItem appends a custom item to a projection.
func (p *Planner) AddScenarioItem(name projection.ScenarioName, group models.CostGroup, itemName string) (models.CustomLineItem, error) {
	var item models.CustomLineItem
	err := p.withScenario(name, func(sc *projection.Scenario) error {
		var err error
		item, err = sc.AddCustomItem(group, itemName)
		return err
	})
	return item, err
}

// RemoveScenarioItem deletes a custom item from a projection.
func (p *Planner) RemoveScenarioItem(name projection.ScenarioName, group models.CostGroup, id string) error {
	return p.withScenario(name, func(sc *projection.Scenario) error {
		return sc.RemoveCustomItem(group, id)
	})
}

// RenameScenarioItem renames a custom item of a projection.
func (p *Planner) RenameScenarioItem(name projection.ScenarioName, group models.CostGroup, id, itemName string) error {
	return p.withScenario(name, func(sc *projection.Scenario) error {
		return sc.RenameCustomItem(group, id, itemName)
	})
}

// SetMode switches a scenario between percentage and manual mode. Neither
// switch recomputes the projection.
func (p *Planner) SetMode(name projection.ScenarioName, kind projection.ModeKind) error {
	return p.withScenario(name, func(sc *projection.Scenario) error {
		switch kind {
		case projection.ModeManual:
			sc.SwitchToManual()
		case projection.ModePercentage:
			sc.SwitchToPercentage()
		default:
			return fmt.Errorf("unknown mode %q", kind)
		}
		return nil
	})
}

// Recalculate overwrites a percentage-mode projection from the 2025 sheet.
func (p *Planner) Recalculate(name projection.ScenarioName) error {
	return p.withScenario(name, func(sc *projection.Scenario) error {
		return sc.Recalculate(p.state.Sheet2025, p.strategicTotalLocked())
	})
}

// SetBaseScenario picks the scenario feeding the financial plan. The plan
// already built is kept until CalculateFinancialPlan runs again.
func (p *Planner) SetBaseScenario(name projection.ScenarioName) error {
	if _, err := projection.ParseScenarioName(string(name)); err != nil {
		return err
	}
	p.mu.Lock()
	p.state.BaseScenario = name
	p.mu.Unlock()
	p.publish(Event{Topic: TopicScenario, Scenario: name, Persist: true})
	return nil
}

// =============================================================================
// Financial plan
// =============================================================================

// CalculateFinancialPlan rebuilds DRE, DFC and BP from the base scenario.
func (p *Planner) CalculateFinancialPlan() (*statements.FinancialPlan, error) {
	p.mu.Lock()
	sc, err := p.state.Scenarios.Get(p.state.BaseScenario)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	plan := statements.Build(string(sc.Name()), sc.Projection(), p.state.Assumptions)
	p.plan = plan
	p.mu.Unlock()

	if err := plan.Check(); err != nil {
		fmt.Printf("[PLANNER] Warning: %v\n", err)
	}
	p.publish(Event{Topic: TopicPlan})
	return plan, nil
}

// FinancialPlan returns the last built plan, or nil.
func (p *Planner) FinancialPlan() *statements.FinancialPlan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plan
}

// Liquidity derives NCG, burn rate, runway and ratios from the last built plan.
func (p *Planner) Liquidity() (calc.LiquidityReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.plan == nil {
		return calc.LiquidityReport{}, ErrNoFinancialPlan
	}
	return calc.Analyze(p.plan, p.summaryLocked(), p.state.Assumptions.Financing.OutstandingDebt), nil
}
