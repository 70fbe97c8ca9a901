package compare

import "context"

// RunInfo describes a comparison run when it starts.
type RunInfo struct {
	Database   string
	Collection string
	Filter     string
	Sort       string
	Token      string
	Total      int64
}

// SnapshotInfo describes one exported snapshot file.
type SnapshotInfo struct {
	Seq         int
	Name        string
	Path        string
	ContentHash string
}

// Recorder keeps a history of comparison runs. Recorder failures are
// logged by the driver and never abort a run.
type Recorder interface {
	BeginRun(ctx context.Context, info RunInfo) (runID string, err error)
	RecordSnapshot(ctx context.Context, runID string, s SnapshotInfo) error
	FinishRun(ctx context.Context, runID string, r Result) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) BeginRun(context.Context, RunInfo) (string, error) { return "", nil }

func (NopRecorder) RecordSnapshot(context.Context, string, SnapshotInfo) error { return nil }

func (NopRecorder) FinishRun(context.Context, string, Result) error { return nil }
