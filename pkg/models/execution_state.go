package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mohae/deepcopy"
)

// ExecutionState is the last known run result of a node.
type ExecutionState struct {
	Status    NodeStatus `json:"status"`
	Output    any        `json:"output,omitempty"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ExecutionStates maps node ids to execution states. It serializes as an
// explicit list of [id, state] pairs ordered by node id.
type ExecutionStates map[string]*ExecutionState

// MarshalJSON writes the states as [[id, state], ...].
func (es ExecutionStates) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(es))
	for id := range es {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	pairs := make([][2]any, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, [2]any{id, es[id]})
	}

	return json.Marshal(pairs)
}

// UnmarshalJSON reads the [[id, state], ...] list form.
func (es *ExecutionStates) UnmarshalJSON(data []byte) error {
	var pairs []json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("execution states must be a list of pairs: %w", err)
	}

	out := make(ExecutionStates, len(pairs))

	for i, raw := range pairs {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
			return fmt.Errorf("execution state %d is not an [id, state] pair", i)
		}

		var id string
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return fmt.Errorf("execution state %d has a non-string id: %w", i, err)
		}

		var state ExecutionState
		if err := json.Unmarshal(pair[1], &state); err != nil {
			return fmt.Errorf("execution state %q is malformed: %w", id, err)
		}

		out[id] = &state
	}

	*es = out

	return nil
}

// Clone deep-copies the states.
func (es ExecutionStates) Clone() ExecutionStates {
	if es == nil {
		return nil
	}

	out := make(ExecutionStates, len(es))
	for id, s := range es {
		c := *s
		if s.Output != nil {
			c.Output = deepcopy.Copy(s.Output)
		}

		out[id] = &c
	}

	return out
}
