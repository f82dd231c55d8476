package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	missing, err := fs.Load(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("Expected nil, nil for a missing plan, got %v, %v", missing, err)
	}

	state := planner.DefaultPlanState()
	state.Sheet2025.GrossRevenue.Values = monthly.Of(1000, 0)
	item := state.Sheet2025.CustomFixedCosts.Add("Software")
	item.Values = monthly.Flat(50)
	sc, _ := state.Scenarios.Get(projection.Disruptive)
	_ = sc.EditCell(models.CellRef{Line: models.LineRent}, monthly.Mar, "800")
	state.Narratives["swot"] = "Texto"

	if err := fs.Save(ctx, "user@example.com", state); err != nil {
		t.Fatal(err)
	}
	loaded, err := fs.Load(ctx, "user@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Fatal("Expected a saved plan")
	}

	rev := loaded.Sheet2025.GrossRevenue.Values
	if rev.Value(monthly.Jan) != 1000 || !rev.Has(monthly.Feb) || rev.Has(monthly.Mar) {
		t.Errorf("Revenue presence not preserved: %+v", rev)
	}
	if got := loaded.Sheet2025.CustomFixedCosts.Get(item.ID); got == nil || got.Name != "Software" {
		t.Errorf("Custom item lost")
	}
	dis, _ := loaded.Scenarios.Get(projection.Disruptive)
	if dis.Mode().Kind() != projection.ModeManual {
		t.Errorf("Expected disruptive to stay manual")
	}
	if loaded.Narratives["swot"] != "Texto" {
		t.Errorf("Narrative lost")
	}
}

func TestFileStoreRejectsEmptyUser(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())
	if err := fs.Save(context.Background(), " ", planner.DefaultPlanState()); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("Expected ErrInvalidUser, got %v", err)
	}
}

func TestFileStoreKeepsLookalikeUsersApart(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	state := planner.DefaultPlanState()
	state.Sheet2025.GrossRevenue.Values = monthly.Flat(1)
	if err := fs.Save(ctx, "alice@corp.com", state); err != nil {
		t.Fatal(err)
	}

	other, err := fs.Load(ctx, "alice_corp_com")
	if err != nil {
		t.Fatal(err)
	}
	if other != nil {
		t.Errorf("Expected no plan for alice_corp_com, got alice@corp.com's plan")
	}
	own, err := fs.Load(ctx, "alice@corp.com")
	if err != nil || own == nil {
		t.Fatalf("Expected the saved plan back, got %v, %v", own, err)
	}
}

func TestMergeDefaultsBackfillsMissingFields(t *testing.T) {
	old := []byte(`{
		"sheet2025": {"grossRevenue": {"values": {"jan": 10}}},
		"assumptions": {"workingCapital": {"receivableDays": 45}},
		"narratives": null
	}`)

	state, err := MergeDefaults(old)
	if err != nil {
		t.Fatal(err)
	}
	if state.Sheet2025.GrossRevenue.Values.Value(monthly.Jan) != 10 {
		t.Errorf("Persisted value lost")
	}
	wc := state.Assumptions.WorkingCapital
	if wc.ReceivableDays != 45 || wc.PayableDays != 30 || wc.InventoryDays != 30 {
		t.Errorf("Expected nested defaults to backfill, got %+v", wc)
	}
	if state.Scenarios == nil || len(state.Scenarios.All()) != 3 {
		t.Fatalf("Expected default scenarios")
	}
	if state.BaseScenario != planner.DefaultBaseScenario {
		t.Errorf("Expected default base scenario, got %q", state.BaseScenario)
	}
	if state.Narratives == nil {
		t.Errorf("Expected narratives map to be backfilled")
	}
}

func TestLoadToleratesHandEditedFile(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewFileStore(dir)
	raw := `{"sheet2025": {"taxes": {"values": {"fev": 7,}},},}`
	path, err := fs.path("edited")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "edited-") {
		t.Errorf("Expected a readable file name in %s, got %s", dir, path)
	}
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	state, err := fs.Load(context.Background(), "edited")
	if err != nil {
		t.Fatal(err)
	}
	if got := state.Sheet2025.Taxes.Values.Value(monthly.Feb); got != 7 {
		t.Errorf("Expected 7, got %v", got)
	}
}

// memStore records saves and can be told to fail.
type memStore struct {
	mu    sync.Mutex
	saves int
	fail  bool
	last  planner.PlanState
}

func (m *memStore) Load(ctx context.Context, userID string) (*planner.PlanState, error) {
	return nil, nil
}

func (m *memStore) Save(ctx context.Context, userID string, state planner.PlanState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	m.saves++
	m.last = state
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestAutoSaverDebounces(t *testing.T) {
	ms := &memStore{}
	p, err := planner.New(planner.DefaultPlanState(), 0)
	if err != nil {
		t.Fatal(err)
	}
	saver := NewAutoSaver(ms, "u1", p.State, 30*time.Millisecond)
	saver.Attach(p)

	for i := 0; i < 5; i++ {
		_ = p.SetSheetCell(models.CellRef{Line: models.LineRent}, monthly.Jan, float64(i))
	}
	if !saver.PendingChanges() {
		t.Errorf("Expected pending changes right after a mutation")
	}
	if saver.Report().Status != StatusPending {
		t.Errorf("Expected pending status, got %s", saver.Report().Status)
	}

	waitFor(t, func() bool { return saver.Report().Status == StatusSaved })
	if got := ms.count(); got != 1 {
		t.Errorf("Expected a single debounced save, got %d", got)
	}
	if saver.PendingChanges() {
		t.Errorf("Expected no pending changes after save")
	}

	// rebuilding the plan is not a persisted change
	_, _ = p.CalculateFinancialPlan()
	time.Sleep(60 * time.Millisecond)
	if got := ms.count(); got != 1 {
		t.Errorf("Expected no save for a non-persisted event, got %d", got)
	}
}

func TestAutoSaverKeepsChangesOnFailure(t *testing.T) {
	ms := &memStore{fail: true}
	state := planner.DefaultPlanState()
	saver := NewAutoSaver(ms, "u2", func() planner.PlanState { return state }, time.Hour)

	saver.Touch()
	if err := saver.SaveNow(context.Background()); err == nil {
		t.Fatal("Expected failure")
	}
	report := saver.Report()
	if report.Status != StatusFailed || report.LastError == "" || !report.PendingChanges {
		t.Errorf("Unexpected report after failure: %+v", report)
	}

	ms.mu.Lock()
	ms.fail = false
	ms.mu.Unlock()
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if saver.Report().Status != StatusSaved || ms.count() != 1 {
		t.Errorf("Expected retry to succeed, got %+v", saver.Report())
	}
}
