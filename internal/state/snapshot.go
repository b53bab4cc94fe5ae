package state

import (
	"encoding/json"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// Snapshot serializes the state to its plain-data form. The state carries
// no non-data members, so the snapshot is complete: restoring it reproduces
// every field exactly.
func (s *WorkflowState) Snapshot() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, types.WrapError(types.STATE_INVALID, "failed to serialize state", err)
	}
	return data, nil
}

// Restore reconstructs a WorkflowState from a snapshot produced by
// Snapshot. The restored state is re-validated so a corrupted snapshot
// cannot smuggle an invalid state past construction-time checks.
func Restore(data []byte) (*WorkflowState, error) {
	var s WorkflowState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, types.WrapError(types.STATE_INVALID, "failed to restore state", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
