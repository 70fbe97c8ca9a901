package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/recordcompare/internal/compare"
)

// StatusRunning marks a run that has begun but not finished. A run left in
// this state was interrupted.
const StatusRunning = "running"

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one journaled comparison run.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Database   string     `json:"database"`
	Collection string     `json:"collection"`
	Filter     string     `json:"filter,omitempty"`
	Sort       string     `json:"sort,omitempty"`
	Token      string     `json:"token"`
	Total      int64      `json:"total"`
	Status     string     `json:"status"`
	Exported   int        `json:"exported"`
	Launched   int        `json:"launched"`
}

// Snapshot is one journaled snapshot file.
type Snapshot struct {
	Seq         int    `json:"seq"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentHash string `json:"content_hash"`
}

// timeLayout is fixed-width so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// BeginRun implements compare.Recorder.
func (j *Journal) BeginRun(ctx context.Context, info compare.RunInfo) (string, error) {
	id := j.ids.Generate()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, database_name, collection, filter, sort, token, total, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, j.now().UTC().Format(timeLayout), info.Database, info.Collection,
		info.Filter, info.Sort, info.Token, info.Total, StatusRunning)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordSnapshot implements compare.Recorder.
func (j *Journal) RecordSnapshot(ctx context.Context, runID string, s compare.SnapshotInfo) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO snapshots (run_id, seq, name, path, content_hash)
		VALUES (?, ?, ?, ?, ?)
	`, runID, s.Seq, s.Name, s.Path, s.ContentHash)
	if err != nil {
		return fmt.Errorf("insert snapshot %d of run %s: %w", s.Seq, runID, err)
	}
	return nil
}

// FinishRun implements compare.Recorder.
func (j *Journal) FinishRun(ctx context.Context, runID string, r compare.Result) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, exported = ?, launched = ?
		WHERE id = ?
	`, j.now().UTC().Format(timeLayout), string(r.Status), r.Exported, r.Launched, runID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, database_name, collection, filter, sort, token, total, status, exported, launched
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run and its snapshots in export order.
func (j *Journal) ReadRun(ctx context.Context, id string) (Run, []Snapshot, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, database_name, collection, filter, sort, token, total, status, exported, launched
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, name, path, content_hash
		FROM snapshots
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Seq, &s.Name, &s.Path, &s.ContentHash); err != nil {
			return Run{}, nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return run, snaps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r        Run
		started  string
		finished sql.NullString
	)
	err := s.Scan(&r.ID, &started, &finished, &r.Database, &r.Collection, &r.Filter, &r.Sort,
		&r.Token, &r.Total, &r.Status, &r.Exported, &r.Launched)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at of run %s: %w", r.ID, err)
	}
	if finished.Valid {
		t, err := time.Parse(timeLayout, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at of run %s: %w", r.ID, err)
		}
		r.FinishedAt = &t
	}
	return r, nil
}
