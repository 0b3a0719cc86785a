package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordRun(ctx, RunRecord{
		RunID:       "run-1",
		Environment: "development",
		StartedAt:   started,
		FinishedAt:  started.Add(90 * time.Second),
		SystemCount: 3,
		EventCount:  12,
	}))
	require.NoError(t, store.RecordRun(ctx, RunRecord{
		RunID:       "run-2",
		Environment: "development",
		StartedAt:   started.Add(time.Hour),
		FinishedAt:  started.Add(time.Hour + time.Minute),
		SystemCount: 2,
		EventCount:  5,
		FailedCount: 1,
		FailedIDs:   "db-01",
	}))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, 1, runs[0].FailedCount)
	assert.Equal(t, "db-01", runs[0].FailedIDs)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, 3, runs[1].SystemCount)
}

func TestListRuns_Limit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordRun(ctx, RunRecord{
			RunID:      string(rune('a' + i)),
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}))
	}

	runs, err := store.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRecordRun_DuplicateRunIDFails(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := RunRecord{RunID: "run-1", StartedAt: time.Now(), FinishedAt: time.Now()}
	require.NoError(t, store.RecordRun(ctx, record))
	assert.Error(t, store.RecordRun(ctx, record))
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "runs.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
}
