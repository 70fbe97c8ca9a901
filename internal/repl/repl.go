package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/roach88/recordcompare/internal/compare"
	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/session"
)

// Prompts shown by the dispatcher.
const (
	CommandPrompt = "> "
	DisplayPrompt = "Display results? [y/n]: "
)

// DefaultPreviewLimit bounds the documents printed by find.
const DefaultPreviewLimit = 10

// Config holds the collaborators of a REPL.
type Config struct {
	Console *Console

	// Store is the initial connection. The REPL owns it from here on and
	// closes it when set replaces it.
	Store docstore.Store

	// Connector opens the replacement connection for set.
	Connector docstore.Connector

	Driver *compare.Driver

	// PreviewLimit defaults to DefaultPreviewLimit.
	PreviewLimit int64

	Logger *slog.Logger
}

type handler func(ctx context.Context, rest string) error

// REPL is the command dispatcher. It is not safe for concurrent use; a
// single loop owns the session state.
type REPL struct {
	console      *Console
	store        docstore.Store
	connector    docstore.Connector
	driver       *compare.Driver
	previewLimit int64
	logger       *slog.Logger

	state    *session.State
	handlers map[string]handler
}

// New creates a REPL with an empty session.
func New(cfg Config) *REPL {
	r := &REPL{
		console:      cfg.Console,
		store:        cfg.Store,
		connector:    cfg.Connector,
		driver:       cfg.Driver,
		previewLimit: cfg.PreviewLimit,
		logger:       cfg.Logger,
		state:        session.New(),
	}
	if r.previewLimit <= 0 {
		r.previewLimit = DefaultPreviewLimit
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.handlers = map[string]handler{
		"set":     r.set,
		"find":    r.find,
		"sort":    r.sort,
		"compare": r.compare,
	}
	return r
}

// State returns the session state.
func (r *REPL) State() *session.State {
	return r.state
}

// Store returns the current connection.
func (r *REPL) Store() docstore.Store {
	return r.store
}

// Run prints the connection banner and processes commands until exit or
// end of input. Only a console read failure is returned as an error.
func (r *REPL) Run(ctx context.Context) error {
	r.printTarget()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.console.ReadLine(CommandPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if !r.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the loop should go on.
func (r *REPL) Execute(ctx context.Context, line string) bool {
	verb, rest := splitTwo(line)

	if verb == "exit" {
		r.console.Note("Exiting...")
		return false
	}

	h, ok := r.handlers[verb]
	if !ok {
		r.logger.Debug("unrecognized command", "verb", verb)
		r.printTarget()
		r.printState()
		return true
	}

	if err := h(ctx, rest); err != nil {
		r.console.Error(err)
	}
	return true
}

// splitTwo splits a line at the first run of whitespace into a verb and
// the trimmed remainder.
func splitTwo(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func (r *REPL) printTarget() {
	t := r.store.Target()
	r.console.Field("Server", t.ConnectionString())
	r.console.Field("Database", t.Database)
}

func (r *REPL) printState() {
	snap := r.state.Snapshot()
	r.console.Field("Collection", snap.Collection)
	r.console.Field("Query", snap.Filter)
	r.console.Field("Sort", snap.Sort)
	r.console.Println("")
}

// renderPreview prints a stored document as retrieved, without
// canonicalizing it.
func (r *REPL) renderPreview(d doc.Document) {
	r.console.Printf("%s", doc.Render(d))
}
