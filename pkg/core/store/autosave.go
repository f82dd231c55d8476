package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"business_planner/pkg/core/planner"
)

// DefaultAutoSaveDelay is the quiet period after the last mutation before a
// snapshot is written.
const DefaultAutoSaveDelay = 3 * time.Second

const autoSaveTimeout = 30 * time.Second

// SaveStatus is what the status indicator shows.
type SaveStatus string

const (
	StatusIdle    SaveStatus = "idle"
	StatusPending SaveStatus = "pending"
	StatusSaving  SaveStatus = "saving"
	StatusSaved   SaveStatus = "saved"
	StatusFailed  SaveStatus = "failed"
)

// SaveReport is a point-in-time view of an AutoSaver.
type SaveReport struct {
	Status         SaveStatus `json:"status"`
	PendingChanges bool       `json:"pendingChanges"`
	LastSavedAt    time.Time  `json:"lastSavedAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
}

// AutoSaver debounces snapshot writes for one user. Each Touch restarts the
// timer; a failed write keeps the changes dirty so the next Touch or SaveNow
// retries it.
type AutoSaver struct {
	store    Store
	userID   string
	snapshot func() planner.PlanState
	delay    time.Duration

	saveMu sync.Mutex // serializes writes

	mu        sync.Mutex
	timer     *time.Timer
	status    SaveStatus
	dirty     bool
	inFlight  int
	lastSaved time.Time
	lastErr   error
}

// NewAutoSaver saves snapshot() for userID into s. delay <= 0 picks
// DefaultAutoSaveDelay.
func NewAutoSaver(s Store, userID string, snapshot func() planner.PlanState, delay time.Duration) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutoSaveDelay
	}
	return &AutoSaver{store: s, userID: userID, snapshot: snapshot, delay: delay, status: StatusIdle}
}

// Attach subscribes the saver to every persisted mutation of p.
func (a *AutoSaver) Attach(p *planner.Planner) {
	p.SubscribeAll(func(ev planner.Event) {
		if ev.Persist {
			a.Touch()
		}
	})
}

// Touch marks the state dirty and restarts the debounce timer.
func (a *AutoSaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = true
	a.status = StatusPending
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), autoSaveTimeout)
		defer cancel()
		if err := a.save(ctx); err != nil {
			fmt.Printf("[AUTOSAVE] Save failed for %s: %v\n", a.userID, err)
		}
	})
}

// SaveNow cancels any pending timer and writes immediately.
func (a *AutoSaver) SaveNow(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	return a.save(ctx)
}

// Flush writes only if there are unsaved changes. Used on shutdown.
func (a *AutoSaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	dirty := a.dirty
	a.mu.Unlock()
	if !dirty {
		return nil
	}
	return a.SaveNow(ctx)
}

func (a *AutoSaver) save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	a.dirty = false
	a.inFlight++
	a.status = StatusSaving
	a.mu.Unlock()

	err := a.store.Save(ctx, a.userID, a.snapshot())

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight--
	if err != nil {
		a.dirty = true
		a.lastErr = err
		a.status = StatusFailed
		return err
	}
	a.lastErr = nil
	a.lastSaved = time.Now()
	if a.dirty {
		// mutated while saving; the timer already holds the next write
		a.status = StatusPending
	} else {
		a.status = StatusSaved
	}
	return nil
}

// PendingChanges reports unsaved or in-flight changes, which should trigger
// a confirm-before-leaving warning.
func (a *AutoSaver) PendingChanges() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty || a.inFlight > 0
}

// Report returns the current status.
func (a *AutoSaver) Report() SaveReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := SaveReport{
		Status:         a.status,
		PendingChanges: a.dirty || a.inFlight > 0,
		LastSavedAt:    a.lastSaved,
	}
	if a.lastErr != nil {
		r.LastError = a.lastErr.Error()
	}
	return r
}
