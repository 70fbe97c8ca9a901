// Package docstore defines the document store client used by the console:
// connect to a target, open a collection, count and stream matching
// documents.
//
// Implementations:
//   - mongostore: MongoDB via go.mongodb.org/mongo-driver/v2
//   - memstore: in-memory collections for tests and scenarios
package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/query"
)

// Default connection values.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 27017
	DefaultReadPreference = "secondaryPreferred"
)

// Target identifies the server and database to read from.
type Target struct {
	Host           string
	Port           int
	Database       string
	ReadPreference string
}

// ConnectionString builds the MongoDB URI for t. A host that already
// carries a scheme is used verbatim; a host with its own port keeps it.
func (t Target) ConnectionString() string {
	host := t.Host
	if host == "" {
		host = DefaultHost
	}
	if strings.HasPrefix(host, "mongodb://") || strings.HasPrefix(host, "mongodb+srv://") {
		return host
	}
	if strings.Contains(host, ":") {
		return "mongodb://" + host
	}
	port := t.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("mongodb://%s:%d", host, port)
}

// Store is a connected document store.
type Store interface {
	// Collection returns a handle to the named collection. It does not
	// touch the server.
	Collection(name string) Collection

	// Target reports what the store is connected to.
	Target() Target

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Collection reads documents from one collection.
type Collection interface {
	Name() string

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, filter query.Filter) (int64, error)

	// Find streams documents matching filter in sort order. A limit of 0
	// means no limit. Callers must Close the cursor.
	Find(ctx context.Context, filter query.Filter, sort query.Sort, limit int64) (Cursor, error)
}

// Cursor iterates a lazily fetched result set.
//
//	for cur.Next(ctx) {
//	    d := cur.Document()
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	Next(ctx context.Context) bool
	Document() doc.Document
	Err() error
	Close(ctx context.Context) error
}

// Connector opens a Store for a target. The console reconnects through it
// when the operator changes the target with "set".
type Connector func(ctx context.Context, t Target) (Store, error)
