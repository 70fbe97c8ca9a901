package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/roach88/recordcompare/internal/compare"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/docstore/memstore"
	"github.com/roach88/recordcompare/internal/journal"
	"github.com/roach88/recordcompare/internal/repl"
	"github.com/roach88/recordcompare/internal/snapshot"
	"github.com/roach88/recordcompare/internal/testutil"
)

// DefaultDatabase is reported when a scenario names none.
const DefaultDatabase = "test"

// SnapshotDirPlaceholder replaces the temporary snapshot directory in
// transcripts so they are stable across runs.
const SnapshotDirPlaceholder = "$SNAPSHOTS"

// journalEpoch is the fixed start of the journal clock.
var journalEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Transcript is everything written to the console, input echoed.
	Transcript string `json:"transcript"`

	// Launches are the diff tool invocations, as snapshot file names.
	Launches [][2]string `json:"launches"`

	// Files are the snapshot file names left on disk, sorted.
	Files []string `json:"files"`

	// Runs are the journaled comparison runs, newest first.
	Runs []journal.Run `json:"runs"`

	// Errors lists failed expectations.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a failed expectation.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario and evaluates its expectations.
//
// Each run is isolated: fresh store, fresh snapshot directory, fresh
// in-memory journal. An error is returned only when the run itself could
// not be set up; failed expectations are reported in Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := memstore.New()
	for name := range scenario.Collections {
		docs, err := scenario.Documents(name)
		if err != nil {
			return nil, err
		}
		mem.Add(name, docs...)
	}

	database := scenario.Database
	if database == "" {
		database = DefaultDatabase
	}
	store, err := mem.Connect(ctx, docstore.Target{
		Host:     docstore.DefaultHost,
		Port:     docstore.DefaultPort,
		Database: database,
	})
	if err != nil {
		return nil, err
	}

	dirPath, err := os.MkdirTemp("", "recordcompare-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	defer os.RemoveAll(dirPath)

	jr, err := journal.Open(":memory:", journal.WithClock(testutil.NewStepClock(journalEpoch, time.Second).Now))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer jr.Close()

	var out bytes.Buffer
	input := strings.Join(scenario.Input, "\n") + "\n"
	console := repl.NewConsole(strings.NewReader(input), &out, repl.WithEcho())
	launcher := &testutil.RecordingLauncher{}

	driver := compare.NewDriver(compare.Config{
		Dir:       snapshot.NewDir(dirPath, logger),
		Launcher:  launcher,
		Confirmer: console,
		Tokens:    testutil.NewConstantTokens(scenario.Token),
		Recorder:  jr,
		Out:       &out,
		Logger:    logger,
	})

	r := repl.New(repl.Config{
		Console:      console,
		Store:        store,
		Connector:    mem.Connector(),
		Driver:       driver,
		PreviewLimit: scenario.PreviewLimit,
		Logger:       logger,
	})
	if err := r.Run(ctx); err != nil {
		return nil, fmt.Errorf("session failed: %w", err)
	}

	result := &Result{
		Pass:       true,
		Transcript: strings.ReplaceAll(out.String(), dirPath, SnapshotDirPlaceholder),
		Launches:   [][2]string{},
	}
	for _, l := range launcher.Launches() {
		result.Launches = append(result.Launches, [2]string{filepath.Base(l.Left), filepath.Base(l.Right)})
	}
	if result.Files, err = listFiles(dirPath); err != nil {
		return nil, err
	}
	if result.Runs, err = jr.ListRuns(ctx, 0); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	evaluate(scenario.Expect, result)
	return result, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	files := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// evaluate checks every expectation and records failures on result.
func evaluate(exp Expect, result *Result) {
	if exp.Launches != nil && len(result.Launches) != *exp.Launches {
		result.AddError("launches: expected %d, got %d", *exp.Launches, len(result.Launches))
	}

	if exp.Files != nil {
		want := append([]string(nil), exp.Files...)
		sort.Strings(want)
		if strings.Join(want, "\n") != strings.Join(result.Files, "\n") {
			result.AddError("files: expected %v, got %v", want, result.Files)
		}
	}

	if exp.Runs != nil && len(result.Runs) != *exp.Runs {
		result.AddError("runs: expected %d, got %d", *exp.Runs, len(result.Runs))
	}

	for _, s := range exp.OutputContains {
		if !strings.Contains(result.Transcript, s) {
			result.AddError("output: expected to contain %q", s)
		}
	}
	for _, s := range exp.OutputExcludes {
		if strings.Contains(result.Transcript, s) {
			result.AddError("output: expected not to contain %q", s)
		}
	}
}
