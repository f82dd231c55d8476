package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"business_planner/pkg/core/planner"
)

// DefaultFileDir is used when no directory is configured.
var DefaultFileDir = filepath.Join(".cache", "plans")

// ErrInvalidUser is returned for an empty user id.
var ErrInvalidUser = errors.New("invalid user id")

// FileStore keeps one JSON file per user. Files may be hand-edited: loading
// tolerates the damage SmartParse can repair.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultFileDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("plan dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path names the user's file <readable>-<hash>.json. The readable part only
// helps a person find the file; the hash of the raw id keeps ids that
// sanitize alike ("a@b.c" and "a_b_c") apart.
func (s *FileStore) path(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidUser
	}
	readable := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, userID)
	if len(readable) > 64 {
		readable = readable[:64]
	}
	sum := sha256.Sum256([]byte(userID))
	return filepath.Join(s.dir, readable+"-"+hex.EncodeToString(sum[:8])+".json"), nil
}

// Load reads the user's file; a missing file means no saved plan.
func (s *FileStore) Load(ctx context.Context, userID string) (*planner.PlanState, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	raw, err := os.ReadFile(path)
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	state, err := MergeDefaults(raw)
	if err != nil {
		return nil, fmt.Errorf("plan file %s: %w", path, err)
	}
	return &state, nil
}

// Save writes the snapshot atomically through a temp file.
func (s *FileStore) Save(ctx context.Context, userID string, state planner.PlanState) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}
