// Package narrative generates the text reports of a plan through a language
// model and stores them on the planner.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/prompt"
	"business_planner/pkg/core/utils"
)

// Report names one narrative. It is also the agent type used to route the
// call and the key under which the text is stored.
type Report string

const (
	ReportSummary       Report = "summary"
	ReportSWOT          Report = "swot"
	ReportStrategic     Report = "strategic"
	ReportScenarios     Report = "scenarios"
	ReportFinancialPlan Report = "financial-plan"
)

// Reports lists every report.
var Reports = []Report{ReportSummary, ReportSWOT, ReportStrategic, ReportScenarios, ReportFinancialPlan}

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrInFlight      = errors.New("report generation already in progress")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// ParseReport validates a report name.
func ParseReport(s string) (Report, error) {
	for _, r := range Reports {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

// Executor runs a prompt for an agent type. *agent.Manager satisfies it.
type Executor interface {
	ExecutePrompt(ctx context.Context, agentType string, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// Service generates narratives for one planner.
type Service struct {
	exec    Executor
	prompts *prompt.Registry
	planner *planner.Planner

	group    singleflight.Group
	mu       sync.Mutex
	inflight map[Report]bool
}

// NewService wires a service. A nil registry uses the global one.
func NewService(exec Executor, prompts *prompt.Registry, p *planner.Planner) *Service {
	if prompts == nil {
		prompts = prompt.Get()
	}
	return &Service{
		exec:     exec,
		prompts:  prompts,
		planner:  p,
		inflight: make(map[Report]bool),
	}
}

// InFlight reports whether a generation of report is running.
func (s *Service) InFlight(report Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[report]
}

func (s *Service) setInFlight(report Report, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.inflight[report] = true
	} else {
		delete(s.inflight, report)
	}
}

// Generate renders the report prompt, calls the model and stores the text
// verbatim on the planner. Concurrent calls for the same report share one
// model call. data overrides the variables taken from the planner; nil uses
// Data(report). On failure the stored text is left as it was.
func (s *Service) Generate(ctx context.Context, report Report, data map[string]interface{}) (string, error) {
	if _, err := ParseReport(string(report)); err != nil {
		return "", err
	}

	v, err, shared := s.group.Do(string(report), func() (interface{}, error) {
		s.setInFlight(report, true)
		defer s.setInFlight(report, false)
		return s.generate(ctx, report, data)
	})
	if shared {
		fmt.Printf("[NARRATIVE] %s: joined in-flight generation\n", report)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) generate(ctx context.Context, report Report, data map[string]interface{}) (string, error) {
	pt, err := s.prompts.GetPrompt(prompt.NarrativePromptID(string(report)))
	if err != nil {
		return "", err
	}

	if data == nil {
		data, err = s.Data(report)
		if err != nil {
			return "", err
		}
	}
	pctx := prompt.NewContext()
	for k, v := range data {
		pctx.Set(k, v)
	}
	userPrompt, err := prompt.RenderUserPrompt(pt, pctx)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", report, err)
	}

	fmt.Printf("[NARRATIVE] Generating %s (%d chars of prompt)\n", report, len(userPrompt))
	text, err := s.exec.ExecutePrompt(ctx, string(report), userPrompt, pt.SystemPrompt, nil)
	if err != nil {
		fmt.Printf("[NARRATIVE] %s failed: %v\n", report, err)
		return "", fmt.Errorf("generate %s: %w", report, err)
	}
	if utils.CleanMarkdown(text) == "" {
		return "", ErrEmptyResponse
	}

	s.planner.SetNarrative(string(report), text)
	return text, nil
}
