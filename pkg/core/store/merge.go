package store

import (
	"encoding/json"
	"fmt"

	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/utils"
)

// MergeDefaults decodes a persisted snapshot over DefaultPlanState key by
// key, so fields added after the snapshot was written keep their defaults.
// Nested objects are merged; arrays and scalars in the snapshot replace the
// default; null never overrides a default.
func MergeDefaults(raw []byte) (planner.PlanState, error) {
	defaults, err := toTree(planner.DefaultPlanState())
	if err != nil {
		return planner.PlanState{}, err
	}

	var persisted map[string]interface{}
	if _, err := utils.SmartParse(string(raw), &persisted); err != nil {
		return planner.PlanState{}, fmt.Errorf("decode snapshot: %w", err)
	}

	merged, err := json.Marshal(deepMerge(defaults, persisted))
	if err != nil {
		return planner.PlanState{}, err
	}
	var state planner.PlanState
	if err := json.Unmarshal(merged, &state); err != nil {
		return planner.PlanState{}, fmt.Errorf("decode merged snapshot: %w", err)
	}
	return state, nil
}

func toTree(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func deepMerge(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = make(map[string]interface{}, len(src))
	}
	for k, v := range src {
		if v == nil {
			continue
		}
		srcMap, srcIsMap := v.(map[string]interface{})
		dstMap, dstIsMap := dst[k].(map[string]interface{})
		if srcIsMap && dstIsMap {
			dst[k] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
	return dst
}
