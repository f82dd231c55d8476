package narrative

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/planner"
	"business_planner/pkg/models"
)

type fakeExecutor struct {
	calls   int32
	text    string
	err     error
	release chan struct{}

	mu         sync.Mutex
	lastPrompt string
	lastAgent  string
}

func (f *fakeExecutor) ExecutePrompt(ctx context.Context, agentType, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.lastPrompt, f.lastAgent = prompt, agentType
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.text, f.err
}

func newService(t *testing.T, exec Executor) (*Service, *planner.Planner) {
	t.Helper()
	p, err := planner.New(planner.DefaultPlanState(), 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = p.SetSheetSeries(models.CellRef{Line: models.LineGrossRevenue}, monthly.Flat(10000))
	return NewService(exec, nil, p), p
}

func TestGenerateStoresTextVerbatim(t *testing.T) {
	exec := &fakeExecutor{text: "## Diagnóstico\n\nAno sólido.  "}
	s, p := newService(t, exec)

	text, err := s.Generate(context.Background(), ReportSummary, nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != exec.text {
		t.Errorf("Expected verbatim text, got %q", text)
	}
	if got := p.State().Narratives["summary"]; got != exec.text {
		t.Errorf("Expected stored text %q, got %q", exec.text, got)
	}
	if exec.lastAgent != "summary" {
		t.Errorf("Expected agent type summary, got %s", exec.lastAgent)
	}
	if !strings.Contains(exec.lastPrompt, "R$ 120.000,00") {
		t.Errorf("Expected annual revenue in prompt, got %q", exec.lastPrompt)
	}
}

func TestFailureLeavesStoredText(t *testing.T) {
	exec := &fakeExecutor{text: "primeira versão"}
	s, p := newService(t, exec)
	if _, err := s.Generate(context.Background(), ReportSWOT, nil); err != nil {
		t.Fatal(err)
	}

	exec.text, exec.err = "", errors.New("quota exceeded")
	if _, err := s.Generate(context.Background(), ReportSWOT, nil); err == nil {
		t.Fatalf("Expected error")
	}
	if got := p.State().Narratives["swot"]; got != "primeira versão" {
		t.Errorf("Expected previous text to survive, got %q", got)
	}

	exec.err = nil
	if _, err := s.Generate(context.Background(), ReportSWOT, nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Expected ErrEmptyResponse, got %v", err)
	}
}

func TestConcurrentCallsShareOneGeneration(t *testing.T) {
	exec := &fakeExecutor{text: "ok", release: make(chan struct{})}
	s, _ := newService(t, exec)

	var wg sync.WaitGroup
	results := make([]string, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = s.Generate(context.Background(), ReportStrategic, nil)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !s.InFlight(ReportStrategic) {
		if time.Now().After(deadline) {
			t.Fatalf("generation never started")
		}
		time.Sleep(time.Millisecond)
	}
	if s.InFlight(ReportSWOT) {
		t.Errorf("Expected other reports to be idle")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = s.Generate(context.Background(), ReportStrategic, nil)
	}()
	time.Sleep(20 * time.Millisecond)
	close(exec.release)
	wg.Wait()

	if got := atomic.LoadInt32(&exec.calls); got != 1 {
		t.Errorf("Expected 1 model call, got %d", got)
	}
	if results[0] != "ok" || results[1] != "ok" {
		t.Errorf("Expected both callers to get the result, got %v", results)
	}
	if s.InFlight(ReportStrategic) {
		t.Errorf("Expected in-flight flag to clear")
	}
}

func TestFinancialPlanReportNeedsPlan(t *testing.T) {
	exec := &fakeExecutor{text: "ok"}
	s, p := newService(t, exec)

	if _, err := s.Generate(context.Background(), ReportFinancialPlan, nil); !errors.Is(err, planner.ErrNoFinancialPlan) {
		t.Errorf("Expected ErrNoFinancialPlan, got %v", err)
	}
	if exec.calls != 0 {
		t.Errorf("Expected no model call")
	}

	if _, err := p.CalculateFinancialPlan(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Generate(context.Background(), ReportFinancialPlan, nil); err != nil {
		t.Errorf("Expected success once the plan is built, got %v", err)
	}
	if !strings.Contains(exec.lastPrompt, "Runway") {
		t.Errorf("Expected liquidity figures in prompt")
	}
}

func TestScenariosReport(t *testing.T) {
	exec := &fakeExecutor{text: "ok"}
	s, _ := newService(t, exec)
	data, err := s.Data(ReportScenarios)
	if err != nil {
		t.Fatal(err)
	}
	totals := data["Scenarios"].([]ScenarioTotals)
	if len(totals) != 3 {
		t.Fatalf("Expected 3 scenarios, got %d", len(totals))
	}
	if _, err := s.Generate(context.Background(), ReportScenarios, nil); err != nil {
		t.Errorf("Expected scenarios report to render, got %v", err)
	}
}

func TestUnknownReport(t *testing.T) {
	s, _ := newService(t, &fakeExecutor{text: "ok"})
	if _, err := s.Generate(context.Background(), "forecast", nil); !errors.Is(err, ErrUnknownReport) {
		t.Errorf("Expected ErrUnknownReport, got %v", err)
	}
}

func TestRenderHelpers(t *testing.T) {
	html, err := RenderHTML("```markdown\n# Título\n\nTexto **forte**.\n```")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<h1>Título</h1>") || !strings.Contains(html, "<strong>forte</strong>") {
		t.Errorf("Unexpected HTML %q", html)
	}

	short, _ := Preview("# Título\n\nTexto curto.")
	if short != "Título Texto curto." {
		t.Errorf("Expected plain preview, got %q", short)
	}

	long, _ := Preview(strings.Repeat("palavra ", 100))
	if !strings.HasSuffix(long, "…") || len([]rune(long)) > PreviewLength+1 {
		t.Errorf("Expected truncated preview, got %d runes", len([]rune(long)))
	}
}
