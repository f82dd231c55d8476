// Command plan runs the planning engine offline over a saved plan snapshot:
// optional spreadsheet import, scenario recalculation, financial plan and
// liquidity report, and optionally one narrative.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"business_planner/pkg/core/agent"
	coreConfig "business_planner/pkg/core/config"
	"business_planner/pkg/core/narrative"
	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/prompt"
	"business_planner/pkg/core/store"
	"business_planner/pkg/core/validate"
)

func main() {
	statePath := flag.String("state", "", "plan snapshot JSON (empty starts a new plan)")
	tsvPath := flag.String("import", "", "tab-separated 2025 sheet to import")
	base := flag.String("base", "", "base scenario (optimistic, conservative, disruptive)")
	report := flag.String("narrative", "", "generate one narrative report")
	out := flag.String("out", "", "write the updated snapshot here")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	state := planner.DefaultPlanState()
	if *statePath != "" {
		raw, err := os.ReadFile(*statePath)
		if err != nil {
			log.Fatalf("read snapshot: %v", err)
		}
		if state, err = store.MergeDefaults(raw); err != nil {
			log.Fatalf("parse snapshot: %v", err)
		}
	}

	p, err := planner.New(state, 0)
	if err != nil {
		log.Fatal(err)
	}

	if *tsvPath != "" {
		raw, err := os.ReadFile(*tsvPath)
		if err != nil {
			log.Fatalf("read import: %v", err)
		}
		res, err := p.ImportTSV(string(raw))
		if err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Printf("[IMPORT] %d lines imported, %d rows ignored\n", len(res.Order), res.Ignored)
	}

	score := p.StrategicScore()
	fmt.Printf("Strategic score: %+.1f\n", score.Total)

	for _, name := range projection.ScenarioNames {
		if err := p.Recalculate(name); err != nil {
			fmt.Printf("  %-13s kept as edited (%v)\n", name, err)
			continue
		}
		fmt.Printf("  %-13s recalculated\n", name)
	}

	if *base != "" {
		name, err := projection.ParseScenarioName(*base)
		if err != nil {
			log.Fatal(err)
		}
		if err := p.SetBaseScenario(name); err != nil {
			log.Fatal(err)
		}
	}

	plan, err := p.CalculateFinancialPlan()
	if err != nil {
		log.Fatal(err)
	}
	st := p.State()
	linkage := validate.ValidateLinkages(plan, st.Assumptions.Financing.SaldoCaixaFinal2025, validate.DefaultTolerance)
	liquidity, err := p.Liquidity()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nFinancial plan (%s)\n", plan.Scenario)
	for _, y := range validate.CompareYears(p.Summary(), plan) {
		fmt.Printf("  %-16s %14.2f -> %14.2f (%+.1f%%)\n", y.Label, y.Prior, y.Current, y.ChangePct)
	}
	fmt.Printf("  Burn rate: %.2f  Runway: %s\n", liquidity.BurnRate, liquidity.RunwayLabel)
	fmt.Printf("  Current ratio: %.2f  Net debt/EBITDA: %.2f\n", liquidity.Ratios.CurrentRatio, liquidity.Ratios.NetDebtToEbitda)
	if linkage.AllPassed {
		fmt.Println("  Statements linked: OK")
	} else {
		for _, f := range linkage.FailedChecks {
			fmt.Printf("  Linkage failed: %s\n", f)
		}
	}

	if *report != "" {
		r, err := narrative.ParseReport(*report)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err := coreConfig.Load(coreConfig.DefaultPath)
		if err != nil {
			log.Fatal(err)
		}
		svc := narrative.NewService(agent.NewManager(cfg.Agents), prompt.Get(), p)
		text, err := svc.Generate(context.Background(), r, nil)
		if err != nil {
			log.Fatalf("narrative: %v", err)
		}
		fmt.Printf("\n%s\n", text)
	}

	if *out != "" {
		raw, err := json.MarshalIndent(p.State(), "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*out, raw, 0644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Snapshot written to %s\n", *out)
	}
}
