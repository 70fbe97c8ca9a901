// Package mongostore implements docstore on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/roach88/recordcompare/internal/bsondoc"
	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/query"
)

// DefaultConnectTimeout bounds server selection and the initial ping.
const DefaultConnectTimeout = 10 * time.Second

// Store is a MongoDB-backed docstore.Store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	target docstore.Target
}

// Connect opens a client for t and pings the server so a bad target fails
// here rather than on the first query.
func Connect(ctx context.Context, t docstore.Target, timeout time.Duration) (*Store, error) {
	if t.Database == "" {
		return nil, fmt.Errorf("no database selected")
	}
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	rp, err := ReadPreference(t.ReadPreference)
	if err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(t.ConnectionString()).
		SetReadPreference(rp).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", t.ConnectionString(), err)
	}

	return &Store{
		client: client,
		db:     client.Database(t.Database),
		target: t,
	}, nil
}

// Connector returns a docstore.Connector that connects with timeout.
func Connector(timeout time.Duration) docstore.Connector {
	return func(ctx context.Context, t docstore.Target) (docstore.Store, error) {
		return Connect(ctx, t, timeout)
	}
}

// ReadPreference maps a read preference mode name onto the driver's type.
// An empty mode means secondaryPreferred.
func ReadPreference(mode string) (*readpref.ReadPref, error) {
	switch mode {
	case "", "secondaryPreferred":
		return readpref.SecondaryPreferred(), nil
	case "primary":
		return readpref.Primary(), nil
	case "primaryPreferred":
		return readpref.PrimaryPreferred(), nil
	case "secondary":
		return readpref.Secondary(), nil
	case "nearest":
		return readpref.Nearest(), nil
	default:
		return nil, fmt.Errorf("unknown read preference %q", mode)
	}
}

// Collection implements docstore.Store.
func (s *Store) Collection(name string) docstore.Collection {
	return &collection{coll: s.db.Collection(name)}
}

// Target implements docstore.Store.
func (s *Store) Target() docstore.Target {
	return s.target
}

// Close implements docstore.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type collection struct {
	coll *mongo.Collection
}

func (c *collection) Name() string {
	return c.coll.Name()
}

func (c *collection) Count(ctx context.Context, filter query.Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, filter.BSON())
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func (c *collection) Find(ctx context.Context, filter query.Filter, sort query.Sort, limit int64) (docstore.Cursor, error) {
	cur, err := c.coll.Find(ctx, filter.BSON(), FindOptions(sort, limit))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	return &cursor{cur: cur}, nil
}

// FindOptions builds the driver options for a sort and limit.
func FindOptions(sort query.Sort, limit int64) *options.FindOptionsBuilder {
	opts := options.Find()
	if !sort.IsZero() {
		opts.SetSort(sort.BSON())
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

// cursor decodes each raw document into an ordered bson.D so stored field
// order survives into doc.Document.
type cursor struct {
	cur     *mongo.Cursor
	current doc.Document
	err     error
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.err != nil || !c.cur.Next(ctx) {
		return false
	}
	var d bson.D
	if err := c.cur.Decode(&d); err != nil {
		c.err = fmt.Errorf("decode document: %w", err)
		return false
	}
	c.current = bsondoc.FromD(d)
	return true
}

func (c *cursor) Document() doc.Document {
	return c.current
}

func (c *cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.cur.Err()
}

func (c *cursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
