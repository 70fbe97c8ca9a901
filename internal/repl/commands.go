package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/query"
)

// set reconnects with the given options layered over the current target.
// A failed connection leaves the current one in place.
func (r *REPL) set(ctx context.Context, rest string) error {
	target, changed, err := parseSetArgs(r.store.Target(), strings.Fields(rest))
	if err != nil {
		return err
	}

	if changed {
		store, err := r.connector(ctx, target)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", target.ConnectionString(), err)
		}
		if err := r.store.Close(ctx); err != nil {
			r.logger.Warn("closing previous connection failed", "error", err)
		}
		r.store = store
		r.logger.Info("reconnected", "server", target.ConnectionString(), "database", target.Database)
	}

	r.printTarget()
	r.printState()
	return nil
}

// parseSetArgs applies set's flags to current. changed is false when no
// flag was given.
func parseSetArgs(current docstore.Target, args []string) (docstore.Target, bool, error) {
	fs := pflag.NewFlagSet("set", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	t := current
	fs.StringVarP(&t.Host, "host", "h", current.Host, "server host, host:port or connection string")
	fs.StringVarP(&t.Database, "db", "d", current.Database, "database name")
	fs.IntVar(&t.Port, "port", current.Port, "server port")
	fs.StringVar(&t.ReadPreference, "read-preference", current.ReadPreference, "read preference mode")

	if err := fs.Parse(args); err != nil {
		return current, false, fmt.Errorf("set: %w", err)
	}
	if fs.NArg() > 0 {
		return current, false, fmt.Errorf("set: unexpected argument %q", fs.Arg(0))
	}
	if t.Database == "" {
		return current, false, fmt.Errorf("set: database must not be empty")
	}
	return t, fs.NFlag() > 0, nil
}

// find selects a collection and optionally replaces the filter. Both are
// parsed before anything is applied, so bad input changes nothing. A
// collection without a filter keeps the active filter.
func (r *REPL) find(ctx context.Context, rest string) error {
	collection, filterText := splitTwo(rest)

	var (
		filter    query.Filter
		hasFilter bool
	)
	if filterText != "" {
		f, err := query.ParseFilter(filterText)
		if err != nil {
			return err
		}
		filter, hasFilter = f, true
	}

	if collection != "" {
		r.state.SetCollection(collection)
		if hasFilter {
			r.state.SetFilter(filter)
		}
	}

	r.printState()
	if !r.state.HasCollection() {
		return nil
	}

	coll := r.store.Collection(r.state.Collection())
	n, err := coll.Count(ctx, r.state.Filter())
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	r.console.Printf("Total results: %d\n", n)
	if n == 0 {
		return nil
	}

	show, err := r.console.Confirm(DisplayPrompt)
	if err != nil || !show {
		return err
	}
	return r.preview(ctx, coll)
}

func (r *REPL) preview(ctx context.Context, coll docstore.Collection) error {
	cur, err := coll.Find(ctx, r.state.Filter(), r.state.Sort(), r.previewLimit)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			r.logger.Warn("closing cursor failed", "error", cerr)
		}
	}()

	for cur.Next(ctx) {
		r.renderPreview(cur.Document())
	}
	return cur.Err()
}

// sort replaces the sort specification. A blank remainder leaves it as is;
// {} restores natural order.
func (r *REPL) sort(_ context.Context, rest string) error {
	if rest != "" {
		s, err := query.ParseSort(rest)
		if err != nil {
			return err
		}
		r.state.SetSort(s)
	}
	r.printState()
	return nil
}

func (r *REPL) compare(ctx context.Context, _ string) error {
	r.printState()
	_, err := r.driver.Compare(ctx, r.store, r.state)
	return err
}
