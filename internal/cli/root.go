package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/recordcompare/internal/compare"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/snapshot"
)

// RootOptions holds the global flags and the session overrides.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	NoJournal  bool

	// Connector, Launcher and Tokens replace MongoDB, the configured diff
	// tool and random tokens. Nil uses the real ones.
	Connector docstore.Connector
	Launcher  compare.Launcher
	Tokens    snapshot.TokenGenerator
}

// ValidFormats are the accepted --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the recordcompare command tree. The root command
// itself runs the interactive session.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordcompare",
		Short: "Step through versions of MongoDB records in a diff tool",
		Long: `recordcompare opens an interactive console against a MongoDB database.

Select a collection and filter with "find", order with "sort", then
"compare" writes each matching document to a snapshot file with sorted
keys and opens consecutive pairs in the configured diff tool.

Commands inside the console:
  set [-h host] [-d db] [--port n]   change the connection
  find <collection> [filter]          select a collection and filter
  sort [spec]                         set the sort order
  compare                             diff consecutive documents
  exit                                leave

Example:
  recordcompare -h db01 -d orders --diff-tool meld`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}

	// -h selects the host, so help is long-form only.
	cmd.Flags().Bool("help", false, "help for recordcompare")

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./recordcompare.yaml)")

	f := cmd.Flags()
	f.StringP("host", "h", "", "MongoDB host, host:port or mongodb:// URI")
	f.Int("port", 0, "MongoDB port")
	f.StringP("db", "d", "", "database name")
	f.String("read-preference", "", "read preference mode")
	f.String("snapshot-dir", "", "directory for snapshot files")
	f.String("diff-tool", "", "diff tool executable")
	f.Int("preview-limit", 0, "documents shown by find")
	f.String("journal", "", "run journal database path")
	f.BoolVar(&opts.NoJournal, "no-journal", false, "do not record runs")

	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}
