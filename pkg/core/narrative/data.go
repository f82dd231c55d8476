package narrative

import (
	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/statements"
)

// ScenarioTotals are the annual figures of one 2026 scenario.
type ScenarioTotals struct {
	Name         projection.ScenarioName
	Mode         projection.ModeKind
	GrowthPct    float64
	GrossRevenue float64
	Ebitda       float64
}

// PlanTotals are the annual figures of the built financial plan.
type PlanTotals struct {
	NetRevenue  float64
	Ebitda      float64
	NetProfit   float64
	ClosingCash float64
}

// Data collects the template variables for report from the planner. The
// financial-plan report needs a built plan.
func (s *Service) Data(report Report) (map[string]interface{}, error) {
	st := s.planner.State()
	data := map[string]interface{}{
		"Summary":      s.planner.Summary(),
		"Score":        s.planner.StrategicScore(),
		"Strategic":    st.Strategic,
		"Goals":        st.Goals,
		"BaseScenario": st.BaseScenario,
	}

	if report == ReportScenarios {
		var totals []ScenarioTotals
		for _, sc := range st.Scenarios.All() {
			proj := sc.Projection()
			dre := statements.Build(string(sc.Name()), proj, st.Assumptions).DRE
			totals = append(totals, ScenarioTotals{
				Name:         sc.Name(),
				Mode:         sc.Mode().Kind(),
				GrowthPct:    sc.Mode().Growth(),
				GrossRevenue: monthly.Sum(dre.GrossRevenue),
				Ebitda:       monthly.Sum(dre.Ebitda),
			})
		}
		data["Scenarios"] = totals
	}

	if report == ReportFinancialPlan {
		plan := s.planner.FinancialPlan()
		if plan == nil {
			return nil, planner.ErrNoFinancialPlan
		}
		liquidity, err := s.planner.Liquidity()
		if err != nil {
			return nil, err
		}
		data["Totals"] = PlanTotals{
			NetRevenue:  monthly.Sum(plan.DRE.NetRevenue),
			Ebitda:      monthly.Sum(plan.DRE.Ebitda),
			NetProfit:   monthly.Sum(plan.DRE.NetProfit),
			ClosingCash: plan.DFC.ClosingCash.Value(monthly.Dec),
		}
		data["Liquidity"] = liquidity
	}
	return data, nil
}
