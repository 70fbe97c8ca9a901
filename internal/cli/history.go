package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/recordcompare/internal/config"
	"github.com/roach88/recordcompare/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// RunDetail is the history output for a single run.
type RunDetail struct {
	Run       journal.Run        `json:"run"`
	Snapshots []journal.Snapshot `json:"snapshots"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded comparison runs",
		Long: `List comparison runs from the run journal, newest first.

With a run ID, show that run and the snapshot files it wrote.

Examples:
  recordcompare history
  recordcompare history --limit 5 --format json
  recordcompare history 01929b4e-8c3a-7d2f-9e1a-5b6c7d8e9f00`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(cmd, opts, runID)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().String("journal", "", "run journal database path")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions, runID string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := config.Load(config.Options{File: opts.ConfigFile, Flags: cmd.Flags()})
	if err != nil {
		return WrapExitError(ExitCommandError, "configuration", err)
	}

	// Opening would create an empty journal; nothing recorded is not an error.
	if _, err := os.Stat(cfg.Journal.Path); errors.Is(err, os.ErrNotExist) {
		if runID != "" {
			return runNotFound(out, runID)
		}
		return out.Success([]journal.Run{}, func(w io.Writer) {
			fmt.Fprintln(w, "No runs recorded.")
		})
	}

	jr, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal "+cfg.Journal.Path, err)
	}
	defer jr.Close()

	ctx := commandContext(cmd)

	if runID != "" {
		run, snaps, err := jr.ReadRun(ctx, runID)
		if errors.Is(err, journal.ErrRunNotFound) {
			return runNotFound(out, runID)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "read journal", err)
		}
		detail := RunDetail{Run: run, Snapshots: snaps}
		return out.Success(detail, func(w io.Writer) { writeRunDetail(w, detail) })
	}

	runs, err := jr.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "read journal", err)
	}
	return out.Success(runs, func(w io.Writer) { writeRunList(w, runs) })
}

func runNotFound(out *OutputFormatter, runID string) error {
	msg := fmt.Sprintf("run %s not found", runID)
	if err := out.Failure(CodeRunNotFound, msg, nil); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func writeRunList(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDATABASE\tCOLLECTION\tSTATUS\tLAUNCHED\tTOTAL")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Database, r.Collection,
			r.Status, r.Launched, r.Total)
	}
	tw.Flush()
}

func writeRunDetail(w io.Writer, d RunDetail) {
	r := d.Run
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Started:\t%s\n", r.StartedAt.Local().Format(time.DateTime))
	if r.FinishedAt != nil {
		fmt.Fprintf(tw, "Finished:\t%s\n", r.FinishedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(tw, "Database:\t%s\n", r.Database)
	fmt.Fprintf(tw, "Collection:\t%s\n", r.Collection)
	fmt.Fprintf(tw, "Query:\t%s\n", r.Filter)
	fmt.Fprintf(tw, "Sort:\t%s\n", r.Sort)
	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "Results:\t%d total, %d exported, %d compared\n", r.Total, r.Exported, r.Launched)
	tw.Flush()

	if len(d.Snapshots) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tFILE\tSHA-256")
	for _, s := range d.Snapshots {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Seq, s.Path, s.ContentHash)
	}
	tw.Flush()
}
