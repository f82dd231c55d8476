package planner

import (
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/models"
)

// SchemaVersion is stamped on every snapshot.
const SchemaVersion = 1

// DefaultBaseScenario feeds the financial plan until the user picks another.
const DefaultBaseScenario = projection.Conservative

// PlanState is the full persisted snapshot of one user's plan. Derived
// values (summary, strategic score, statements) are never stored here.
type PlanState struct {
	SchemaVersion int `json:"schemaVersion"`

	Sheet2025  models.FinancialSheet     `json:"sheet2025"`
	Commercial models.CommercialData2025 `json:"commercial2025"`
	People     models.PeopleData2025     `json:"people2025"`
	Marketing  models.MarketingData2025  `json:"marketing2025"`
	Strategic  models.StrategicInputs    `json:"strategic"`

	Scenarios    *projection.Scenarios   `json:"scenarios2026"`
	BaseScenario projection.ScenarioName `json:"baseScenario"`

	Assumptions statements.Assumptions `json:"assumptions"`
	Goals       models.Goals2026       `json:"goals2026"`

	// Narratives holds generated report text, stored verbatim by report name.
	Narratives map[string]string `json:"narratives"`
}

// DefaultPlanState is the state of a brand-new plan.
func DefaultPlanState() PlanState {
	return PlanState{
		SchemaVersion: SchemaVersion,
		Scenarios:     projection.DefaultScenarios(),
		BaseScenario:  DefaultBaseScenario,
		Assumptions: statements.Assumptions{
			WorkingCapital: models.WorkingCapital{ReceivableDays: 30, InventoryDays: 30, PayableDays: 30},
		},
		Narratives: map[string]string{},
	}
}

// normalize fills anything a decoded snapshot may have left nil.
func (s *PlanState) normalize() {
	s.SchemaVersion = SchemaVersion
	if s.Scenarios == nil {
		s.Scenarios = projection.DefaultScenarios()
	}
	if _, err := projection.ParseScenarioName(string(s.BaseScenario)); err != nil {
		s.BaseScenario = DefaultBaseScenario
	}
	if s.Narratives == nil {
		s.Narratives = map[string]string{}
	}
}

// clone deep-copies the state.
func (s PlanState) clone() PlanState {
	out := s
	out.Sheet2025 = s.Sheet2025.Clone()
	out.Commercial = s.Commercial.Clone()
	out.People = s.People.Clone()
	out.Marketing = s.Marketing.Clone()
	out.Strategic = s.Strategic.Clone()
	out.Scenarios = s.Scenarios.Clone()
	out.Narratives = make(map[string]string, len(s.Narratives))
	for k, v := range s.Narratives {
		out.Narratives[k] = v
	}
	out.Assumptions.Investments.Items = append([]models.CapexItem(nil), s.Assumptions.Investments.Items...)
	return out
}
