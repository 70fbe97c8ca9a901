package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recordcompare/internal/compare"
	"github.com/roach88/recordcompare/internal/journal"
	"github.com/roach88/recordcompare/internal/testutil"
)

// seedJournal records one finished run with two snapshots and one
// unfinished run.
func seedJournal(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	jr, err := journal.Open(path,
		journal.WithClock(testutil.NewStepClock(start, time.Minute).Now),
		journal.WithIDs(journal.NewFixedIDs("run-a", "run-b")))
	require.NoError(t, err)
	defer jr.Close()

	id, err := jr.BeginRun(ctx, compare.RunInfo{Database: "shop", Collection: "orders", Token: "t3st", Total: 2})
	require.NoError(t, err)
	require.NoError(t, jr.RecordSnapshot(ctx, id, compare.SnapshotInfo{Seq: 1, Name: "orders-id1-t3st", Path: "/snap/orders-id1-t3st.json", ContentHash: "aa11"}))
	require.NoError(t, jr.RecordSnapshot(ctx, id, compare.SnapshotInfo{Seq: 2, Name: "orders-id2-t3st", Path: "/snap/orders-id2-t3st.json", ContentHash: "bb22"}))
	require.NoError(t, jr.FinishRun(ctx, id, compare.Result{Status: compare.StatusCompleted, Exported: 2, Launched: 1}))

	_, err = jr.BeginRun(ctx, compare.RunInfo{Database: "shop", Collection: "invoices", Token: "t3st", Total: 5})
	require.NoError(t, err)
	return path
}

func TestHistoryWithoutJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	stdout, _, err := execute(t, &RootOptions{}, "", "history", "--journal", path)

	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", stdout)
	assert.NoFileExists(t, path)
}

func TestHistoryListsRunsNewestFirst(t *testing.T) {
	path := seedJournal(t)
	stdout, _, err := execute(t, &RootOptions{}, "", "history", "--journal", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, "COLLECTION")
	b, a := strings.Index(stdout, "run-b"), strings.Index(stdout, "run-a")
	require.NotEqual(t, -1, a)
	require.NotEqual(t, -1, b)
	assert.Less(t, b, a)
	assert.Contains(t, stdout, "completed")
	assert.Contains(t, stdout, "running")
}

func TestHistoryLimit(t *testing.T) {
	path := seedJournal(t)
	stdout, _, err := execute(t, &RootOptions{}, "", "history", "--journal", path, "--limit", "1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []journal.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-b", resp.Data[0].ID)
	assert.Equal(t, "invoices", resp.Data[0].Collection)
}

func TestHistoryRunDetail(t *testing.T) {
	path := seedJournal(t)
	stdout, _, err := execute(t, &RootOptions{}, "", "history", "run-a", "--journal", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "run-a")
	assert.Contains(t, stdout, "orders")
	assert.Contains(t, stdout, "2 total, 2 exported, 1 compared")
	assert.Contains(t, stdout, "/snap/orders-id1-t3st.json")
	assert.Contains(t, stdout, "bb22")
}

func TestHistoryRunDetailJSON(t *testing.T) {
	path := seedJournal(t)
	stdout, _, err := execute(t, &RootOptions{}, "", "history", "run-a", "--journal", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "run-a", resp.Data.Run.ID)
	assert.Equal(t, "completed", resp.Data.Run.Status)
	require.Len(t, resp.Data.Snapshots, 2)
	assert.Equal(t, "aa11", resp.Data.Snapshots[0].ContentHash)
}

func TestHistoryUnknownRun(t *testing.T) {
	path := seedJournal(t)
	stdout, _, err := execute(t, &RootOptions{}, "", "history", "run-z", "--journal", path)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E_RUN_NOT_FOUND]: run run-z not found")
}
