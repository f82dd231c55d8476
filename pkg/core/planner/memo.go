package planner

import (
	"fmt"
	"hash/fnv"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"

	"business_planner/pkg/core/strategic"
	"business_planner/pkg/core/summary"
	"business_planner/pkg/models"
)

// DefaultCacheSize is the number of memoized results kept per derivation.
const DefaultCacheSize = 32

// memo keeps the pure derivations keyed by a structural hash of their inputs,
// so an unchanged input never recomputes.
type memo struct {
	summaries *lru.Cache[uint64, summary.Summary2025]
	scores    *lru.Cache[uint64, strategic.StrategicScore]
}

func newMemo(size int) (*memo, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	summaries, err := lru.New[uint64, summary.Summary2025](size)
	if err != nil {
		return nil, fmt.Errorf("summary cache: %w", err)
	}
	scores, err := lru.New[uint64, strategic.StrategicScore](size)
	if err != nil {
		return nil, fmt.Errorf("strategic cache: %w", err)
	}
	return &memo{summaries: summaries, scores: scores}, nil
}

// structuralHash is FNV-64a over the canonical JSON of v.
func structuralHash(v any) (uint64, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	h.Write(raw)
	return h.Sum64(), nil
}

func (c *memo) summary(in summary.Inputs) summary.Summary2025 {
	key, err := structuralHash(in)
	if err != nil {
		return summary.Compute(in)
	}
	if s, ok := c.summaries.Get(key); ok {
		return s
	}
	s := summary.Compute(in)
	c.summaries.Add(key, s)
	return s
}

func (c *memo) score(in models.StrategicInputs) strategic.StrategicScore {
	key, err := structuralHash(in)
	if err != nil {
		return strategic.Compute(in)
	}
	s, ok := c.scores.Get(key)
	if !ok {
		s = strategic.Compute(in)
		c.scores.Add(key, s)
	}
	// components are shared with the cache
	s.Components = append([]strategic.Component(nil), s.Components...)
	return s
}
