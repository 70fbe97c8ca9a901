package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/recordcompare/internal/compare"
	"github.com/roach88/recordcompare/internal/config"
	"github.com/roach88/recordcompare/internal/docstore/mongostore"
	"github.com/roach88/recordcompare/internal/journal"
	"github.com/roach88/recordcompare/internal/repl"
	"github.com/roach88/recordcompare/internal/snapshot"
)

// runSession wires configuration, store, snapshot directory, journal and
// diff tool together and hands the console to the REPL.
func runSession(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := cfg.ValidateSession(); err != nil {
		return WrapExitError(ExitCommandError, "configuration", err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "configuration", err)
	}
	slog.SetDefault(logger)
	logger.Debug("configuration loaded",
		"target", cfg.Target().ConnectionString(),
		"database", cfg.Database,
		"snapshot_dir", cfg.SnapshotDir,
		"diff_tool", cfg.Diff.Tool,
		"journal", cfg.Journal.Enabled)

	ctx := commandContext(cmd)

	dir := snapshot.NewDir(cfg.SnapshotDir, logger)
	if _, err := dir.Reset(); err != nil {
		return WrapExitError(ExitCommandError, "snapshot directory", err)
	}

	connector := opts.Connector
	if connector == nil {
		connector = mongostore.Connector(cfg.ConnectTimeout)
	}
	target := cfg.Target()
	store, err := connector(ctx, target)
	if err != nil {
		return WrapExitError(ExitCommandError, "connect to "+target.ConnectionString(), err)
	}

	var recorder compare.Recorder = compare.NopRecorder{}
	if cfg.Journal.Enabled {
		jr, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Warn("run journal unavailable, runs will not be recorded", "path", cfg.Journal.Path, "error", err)
		} else {
			defer func() {
				if err := jr.Close(); err != nil {
					logger.Error("error closing journal", "error", err)
				}
			}()
			recorder = jr
		}
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	var consoleOpts []repl.ConsoleOption
	if isTerminal(out) {
		consoleOpts = append(consoleOpts, repl.WithStyles(repl.DefaultStyles))
	}
	console := repl.NewConsole(in, out, consoleOpts...)

	launcher := opts.Launcher
	if launcher == nil {
		launcher = &compare.ExecLauncher{
			Tool:   cfg.Diff.Tool,
			Args:   cfg.Diff.Args,
			Wait:   cfg.Diff.Wait,
			Stdin:  terminalInput(in),
			Stdout: out,
			Stderr: cmd.ErrOrStderr(),
			Logger: logger,
		}
	}

	driver := compare.NewDriver(compare.Config{
		Dir:       dir,
		Launcher:  launcher,
		Confirmer: console,
		Tokens:    opts.Tokens,
		Recorder:  recorder,
		Out:       out,
		Logger:    logger,
	})

	r := repl.New(repl.Config{
		Console:      console,
		Store:        store,
		Connector:    connector,
		Driver:       driver,
		PreviewLimit: int64(cfg.PreviewLimit),
		Logger:       logger,
	})
	defer func() {
		// set may have replaced the initial connection.
		if err := r.Store().Close(context.Background()); err != nil {
			logger.Error("error closing connection", "error", err)
		}
	}()

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "session", err)
	}
	return nil
}

// loadConfig loads the layered configuration with the command's flags on
// top and applies --no-journal.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		File:  opts.ConfigFile,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configuration", err)
	}
	if opts.NoJournal {
		cfg.Journal.Enabled = false
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// terminalInput returns in when it is a terminal the diff tool can share.
// Any other input is buffered by the console, so the tool gets none.
func terminalInput(in io.Reader) io.Reader {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return f
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
