package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_SaveLoadDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, "session-1", []byte(`{"a":1}`)))

			got, err := store.Load(ctx, "session-1")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), got)

			// Save replaces the existing snapshot.
			require.NoError(t, store.Save(ctx, "session-1", []byte(`{"a":2}`)))
			got, err = store.Load(ctx, "session-1")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":2}`), got)

			require.NoError(t, store.Delete(ctx, "session-1"))
			_, err = store.Load(ctx, "session-1")
			require.Error(t, err)
			assert.True(t, types.HasCode(err, types.CHECKPOINT_NOT_FOUND))

			// Deleting a missing snapshot is not an error.
			assert.NoError(t, store.Delete(ctx, "session-1"))
		})
	}
}

func TestStore_WorkflowStateRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s, err := state.New("user-1", "session-1",
				state.WithProjectGoal("build a study planner"))
			require.NoError(t, err)
			s.ProjectType = "web-app"

			snapshot, err := s.Snapshot()
			require.NoError(t, err)
			require.NoError(t, store.Save(ctx, s.SessionID, snapshot))

			data, err := store.Load(ctx, s.SessionID)
			require.NoError(t, err)

			restored, err := state.Restore(data)
			require.NoError(t, err)
			assert.Equal(t, s, restored)
		})
	}
}

func TestMemoryStore_CopiesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	snapshot := []byte(`{"a":1}`)
	require.NoError(t, store.Save(ctx, "session-1", snapshot))
	snapshot[2] = 'x'

	got, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}
