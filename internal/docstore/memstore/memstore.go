// Package memstore is an in-memory docstore used by tests and the
// scenario harness. It evaluates the common subset of the MongoDB query
// language against doc values.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/query"
)

// Store holds collections of documents in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]doc.Document
	connects    []docstore.Target
}

// New returns an empty store.
func New() *Store {
	return &Store{collections: make(map[string][]doc.Document)}
}

// Add appends documents to a collection, creating it if needed.
func (s *Store) Add(collection string, docs ...doc.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], docs...)
}

// Connect returns a handle on the store bound to t.
func (s *Store) Connect(_ context.Context, t docstore.Target) (docstore.Store, error) {
	s.mu.Lock()
	s.connects = append(s.connects, t)
	s.mu.Unlock()
	return &handle{store: s, target: t}, nil
}

// Connector adapts Connect to docstore.Connector.
func (s *Store) Connector() docstore.Connector {
	return s.Connect
}

// Connects returns every target passed to Connect, oldest first.
func (s *Store) Connects() []docstore.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.connects)
}

func (s *Store) documents(collection string) []doc.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.collections[collection])
}

type handle struct {
	store  *Store
	target docstore.Target
}

func (h *handle) Collection(name string) docstore.Collection {
	return &collection{store: h.store, name: name}
}

func (h *handle) Target() docstore.Target {
	return h.target
}

func (h *handle) Close(context.Context) error {
	return nil
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) Count(ctx context.Context, filter query.Filter) (int64, error) {
	matched, err := c.match(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (c *collection) Find(ctx context.Context, filter query.Filter, sort query.Sort, limit int64) (docstore.Cursor, error) {
	matched, err := c.match(filter)
	if err != nil {
		return nil, err
	}
	sortDocuments(matched, sort)
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return &sliceCursor{docs: matched, pos: -1}, nil
}

func (c *collection) match(filter query.Filter) ([]doc.Document, error) {
	m, err := compileFilter(filter.Document())
	if err != nil {
		return nil, err
	}
	var out []doc.Document
	for _, d := range c.store.documents(c.name) {
		if m(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// sortDocuments orders docs by the sort keys; missing fields sort as null.
// The sort is stable so equal keys keep insertion order.
func sortDocuments(docs []doc.Document, sort query.Sort) {
	if sort.IsZero() {
		return
	}
	slices.SortStableFunc(docs, func(a, b doc.Document) int {
		for _, key := range sort {
			path := query.SplitPath(key.Field)
			av, _ := a.Lookup(path)
			bv, _ := b.Lookup(path)
			if c := doc.Compare(av, bv); c != 0 {
				if key.Direction == query.Descending {
					return -c
				}
				return c
			}
		}
		return 0
	})
}

type sliceCursor struct {
	docs []doc.Document
	pos  int
}

func (c *sliceCursor) Next(context.Context) bool {
	if c.pos+1 >= len(c.docs) {
		c.pos = len(c.docs)
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Document() doc.Document {
	if c.pos < 0 || c.pos >= len(c.docs) {
		return nil
	}
	return c.docs[c.pos]
}

func (c *sliceCursor) Err() error {
	return nil
}

func (c *sliceCursor) Close(context.Context) error {
	return nil
}
