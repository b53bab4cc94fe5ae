// Package checkpoint persists workflow state snapshots between traversal
// steps, keyed by session. The engine itself only requires state to be
// plain data; the storage format is owned here.
package checkpoint

import (
	"context"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// Store persists state snapshots keyed by session identifier.
type Store interface {
	// Save stores a snapshot, replacing any existing one for the session.
	Save(ctx context.Context, sessionID string, snapshot []byte) error
	// Load returns the snapshot for the session, or CHECKPOINT_NOT_FOUND.
	Load(ctx context.Context, sessionID string) ([]byte, error)
	// Delete removes the session's snapshot. Deleting a missing snapshot
	// is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// ErrNotFound is the sentinel for a missing checkpoint.
var ErrNotFound = types.NewError(types.CHECKPOINT_NOT_FOUND, "no checkpoint for session")
