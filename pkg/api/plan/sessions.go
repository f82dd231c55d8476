package plan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"business_planner/pkg/core/narrative"
	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/prompt"
	"business_planner/pkg/core/store"
)

// Session is one user's live plan.
type Session struct {
	UserID     string
	Planner    *planner.Planner
	Saver      *store.AutoSaver
	Narratives *narrative.Service
}

// Sessions loads plans lazily from the store and keeps them in memory.
type Sessions struct {
	store     store.Store
	exec      narrative.Executor
	prompts   *prompt.Registry
	delay     time.Duration
	cacheSize int

	mu     sync.Mutex
	byUser map[string]*Session
}

func NewSessions(st store.Store, exec narrative.Executor, prompts *prompt.Registry, autoSaveDelay time.Duration, cacheSize int) *Sessions {
	return &Sessions{
		store:     st,
		exec:      exec,
		prompts:   prompts,
		delay:     autoSaveDelay,
		cacheSize: cacheSize,
		byUser:    make(map[string]*Session),
	}
}

// Get returns the user's session, loading the saved plan (or a new one) on
// first access. The store is read without holding the lock; when two
// callers race on a new user, the first to insert wins and both get its
// session.
func (s *Sessions) Get(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, store.ErrInvalidUser
	}

	s.mu.Lock()
	sess, ok := s.byUser[userID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	state := planner.DefaultPlanState()
	saved, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load plan for %s: %w", userID, err)
	}
	if saved != nil {
		state = *saved
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byUser[userID]; ok {
		return sess, nil
	}

	p, err := planner.New(state, s.cacheSize)
	if err != nil {
		return nil, err
	}
	saver := store.NewAutoSaver(s.store, userID, p.State, s.delay)
	saver.Attach(p)

	sess = &Session{
		UserID:     userID,
		Planner:    p,
		Saver:      saver,
		Narratives: narrative.NewService(s.exec, s.prompts, p),
	}
	s.byUser[userID] = sess
	fmt.Printf("[API] Session opened for %s (saved plan: %v)\n", userID, saved != nil)
	return sess, nil
}

// FlushAll writes every session with pending changes, as on shutdown.
func (s *Sessions) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.byUser))
	for _, sess := range s.byUser {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := sess.Saver.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sess.UserID, err))
		}
	}
	return errors.Join(errs...)
}
