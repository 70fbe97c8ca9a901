package compare

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/session"
	"github.com/roach88/recordcompare/internal/snapshot"
)

// Status is the outcome of a comparison run.
type Status string

const (
	StatusNoCollection Status = "no-collection"
	StatusNotEnough    Status = "not-enough"
	StatusCompleted    Status = "completed"
	StatusStopped      Status = "stopped"
	StatusFailed       Status = "failed"
)

// Result summarizes a comparison run.
type Result struct {
	Status   Status
	Total    int64
	Exported int
	Launched int
	Files    []string
	Token    string
}

// Config holds the collaborators of a Driver.
type Config struct {
	Dir       *snapshot.Dir
	Launcher  Launcher
	Confirmer Confirmer

	// Tokens defaults to snapshot.RandomTokens.
	Tokens snapshot.TokenGenerator

	// Recorder defaults to NopRecorder.
	Recorder Recorder

	// Out receives operator-facing status lines.
	Out io.Writer

	Logger *slog.Logger
}

// Driver runs pairwise comparisons.
type Driver struct {
	dir       *snapshot.Dir
	launcher  Launcher
	confirmer Confirmer
	tokens    snapshot.TokenGenerator
	recorder  Recorder
	out       io.Writer
	logger    *slog.Logger
}

// NewDriver creates a Driver from cfg.
func NewDriver(cfg Config) *Driver {
	d := &Driver{
		dir:       cfg.Dir,
		launcher:  cfg.Launcher,
		confirmer: cfg.Confirmer,
		tokens:    cfg.Tokens,
		recorder:  cfg.Recorder,
		out:       cfg.Out,
		logger:    cfg.Logger,
	}
	if d.tokens == nil {
		d.tokens = snapshot.RandomTokens{}
	}
	if d.recorder == nil {
		d.recorder = NopRecorder{}
	}
	if d.out == nil {
		d.out = io.Discard
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Compare runs one comparison over the active collection of state.
//
// A missing collection or fewer than two matching documents is reported
// on the output and returned as a status, not an error. Write, launch and
// store failures abort the run and are returned as *Error; files written
// before the failure stay on disk.
func (d *Driver) Compare(ctx context.Context, store docstore.Store, state *session.State) (Result, error) {
	if !state.HasCollection() {
		d.println("No collection selected.")
		return Result{Status: StatusNoCollection}, nil
	}

	coll := store.Collection(state.Collection())
	total, err := coll.Count(ctx, state.Filter())
	if err != nil {
		return Result{Status: StatusFailed}, &Error{Code: ErrCodeStoreFailed, Message: "count failed", Err: err}
	}
	d.printf("Total results: %d\n", total)

	if total < 2 {
		d.println("Not enough results to compare.")
		return Result{Status: StatusNotEnough, Total: total}, nil
	}

	res := Result{Status: StatusCompleted, Total: total, Token: d.tokens.Generate()}
	runID := d.beginRun(ctx, store, state, res)

	res, err = d.run(ctx, coll, state, res, runID)
	if err != nil {
		res.Status = StatusFailed
	}
	d.finishRun(ctx, runID, res)

	switch res.Status {
	case StatusCompleted:
		d.printf("Compared %d records (%d comparisons).\n", res.Exported, res.Launched)
	case StatusStopped:
		d.printf("Stopped after %d comparisons.\n", res.Launched)
	}
	return res, err
}

// run streams the sorted result set keeping only the previous snapshot
// path, so memory does not grow with the collection.
func (d *Driver) run(ctx context.Context, coll docstore.Collection, state *session.State, res Result, runID string) (Result, error) {
	cur, err := coll.Find(ctx, state.Filter(), state.Sort(), 0)
	if err != nil {
		return res, &Error{Code: ErrCodeStoreFailed, Message: "find failed", Err: err}
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			d.logger.Warn("closing cursor failed", "error", cerr)
		}
	}()

	var previous string
	for cur.Next(ctx) {
		original := cur.Document()
		canonical := doc.Canonicalize(original)
		name := snapshot.Name(coll.Name(), original, res.Token)

		path, err := d.dir.Write(name, doc.Render(canonical))
		if err != nil {
			return res, &Error{Code: ErrCodeWriteFailed, Message: "cannot write snapshot", Path: name, Err: err}
		}
		res.Exported++
		res.Files = append(res.Files, path)

		hash := doc.ContentHash(canonical)
		d.logger.Debug("snapshot written", "path", path, "hash", hash)
		d.recordSnapshot(ctx, runID, SnapshotInfo{Seq: res.Exported, Name: name, Path: path, ContentHash: hash})

		if previous != "" {
			d.println("Comparing records...")
			if err := d.launcher.Launch(ctx, previous, path); err != nil {
				return res, &Error{Code: ErrCodeLaunchFailed, Message: "cannot launch diff tool", Path: path, Err: err}
			}
			res.Launched++

			ok, err := d.confirmer.Confirm(ContinuePrompt)
			if err != nil {
				return res, &Error{Code: ErrCodeConfirmFailed, Message: "cannot read confirmation", Err: err}
			}
			if !ok {
				res.Status = StatusStopped
				return res, nil
			}
		}
		previous = path
	}

	if err := cur.Err(); err != nil {
		return res, &Error{Code: ErrCodeStoreFailed, Message: "cursor failed", Err: err}
	}
	return res, nil
}

func (d *Driver) beginRun(ctx context.Context, store docstore.Store, state *session.State, res Result) string {
	snap := state.Snapshot()
	runID, err := d.recorder.BeginRun(ctx, RunInfo{
		Database:   store.Target().Database,
		Collection: snap.Collection,
		Filter:     snap.Filter,
		Sort:       snap.Sort,
		Token:      res.Token,
		Total:      res.Total,
	})
	if err != nil {
		d.logger.Warn("journal: begin run failed", "error", err)
		return ""
	}
	return runID
}

func (d *Driver) recordSnapshot(ctx context.Context, runID string, s SnapshotInfo) {
	if runID == "" {
		return
	}
	if err := d.recorder.RecordSnapshot(ctx, runID, s); err != nil {
		d.logger.Warn("journal: record snapshot failed", "run", runID, "error", err)
	}
}

func (d *Driver) finishRun(ctx context.Context, runID string, res Result) {
	if runID == "" {
		return
	}
	if err := d.recorder.FinishRun(ctx, runID, res); err != nil {
		d.logger.Warn("journal: finish run failed", "run", runID, "error", err)
	}
}

func (d *Driver) println(line string) {
	fmt.Fprintln(d.out, line)
}

func (d *Driver) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}
