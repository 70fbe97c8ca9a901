package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/docstore"
	"github.com/roach88/recordcompare/internal/query"
)

func seeded(t *testing.T) docstore.Collection {
	t.Helper()
	s := New()
	s.Add("orders",
		doc.D(doc.F("_id", doc.Int(3)), doc.F("status", doc.String("open")), doc.F("qty", doc.Int(5)), doc.F("tags", doc.A(doc.String("rush")))),
		doc.D(doc.F("_id", doc.Int(1)), doc.F("status", doc.String("closed")), doc.F("qty", doc.Float(2.5))),
		doc.D(doc.F("_id", doc.Int(2)), doc.F("status", doc.String("open")), doc.F("qty", doc.Int(9)),
			doc.F("Adt", doc.D(doc.F("By", doc.String("ops"))))),
	)
	store, err := s.Connect(context.Background(), docstore.Target{Database: "shop"})
	require.NoError(t, err)
	return store.Collection("orders")
}

func ids(t *testing.T, cur docstore.Cursor) []int64 {
	t.Helper()
	ctx := context.Background()
	var out []int64
	for cur.Next(ctx) {
		id, ok := cur.Document().Get("_id")
		require.True(t, ok)
		out = append(out, int64(id.(doc.Int)))
	}
	require.NoError(t, cur.Err())
	require.NoError(t, cur.Close(ctx))
	return out
}

func mustFilter(t *testing.T, text string) query.Filter {
	t.Helper()
	f, err := query.ParseFilter(text)
	require.NoError(t, err)
	return f
}

func mustSort(t *testing.T, text string) query.Sort {
	t.Helper()
	s, err := query.ParseSort(text)
	require.NoError(t, err)
	return s
}

func TestFindNaturalOrder(t *testing.T) {
	c := seeded(t)
	cur, err := c.Find(context.Background(), query.Filter{}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(t, cur))
}

func TestFindSortAndLimit(t *testing.T) {
	c := seeded(t)
	ctx := context.Background()

	cur, err := c.Find(ctx, query.Filter{}, mustSort(t, `{"_id": 1}`), 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(t, cur))

	cur, err = c.Find(ctx, query.Filter{}, mustSort(t, `{"qty": -1}`), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(t, cur))
}

func TestFindSortIsStable(t *testing.T) {
	c := seeded(t)
	cur, err := c.Find(context.Background(), query.Filter{}, mustSort(t, `{"status": 1}`), 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, ids(t, cur))
}

func TestFilterOperators(t *testing.T) {
	tests := []struct {
		filter string
		want   []int64
	}{
		{`{}`, []int64{3, 1, 2}},
		{`{"status": "open"}`, []int64{3, 2}},
		{`{"qty": {"$gt": 2.5}}`, []int64{3, 2}},
		{`{"qty": {"$gte": 2.5, "$lt": 9}}`, []int64{3, 1}},
		{`{"qty": {"$lte": 5}}`, []int64{3, 1}},
		{`{"_id": {"$in": [1, 2]}}`, []int64{1, 2}},
		{`{"_id": {"$nin": [1, 2]}}`, []int64{3}},
		{`{"status": {"$ne": "open"}}`, []int64{1}},
		{`{"status": {"$eq": "closed"}}`, []int64{1}},
		{`{"tags": "rush"}`, []int64{3}},
		{`{"tags": {"$exists": false}}`, []int64{1, 2}},
		{`{"Adt.By": "ops"}`, []int64{2}},
		{`{"missing": null}`, []int64{3, 1, 2}},
		{`{"$or": [{"_id": 1}, {"qty": 9}]}`, []int64{1, 2}},
		{`{"$and": [{"status": "open"}, {"qty": {"$lt": 6}}]}`, []int64{3}},
		{`{"$nor": [{"status": "open"}]}`, []int64{1}},
		{`{"status": {"$gt": 1}}`, nil},
	}

	c := seeded(t)
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			ctx := context.Background()
			f := mustFilter(t, tt.filter)

			cur, err := c.Find(ctx, f, nil, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(t, cur))

			n, err := c.Count(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), n)
		})
	}
}

func TestFilterUnsupportedOperator(t *testing.T) {
	c := seeded(t)
	ctx := context.Background()

	_, err := c.Count(ctx, mustFilter(t, `{"tags": {"$size": 1}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$size")

	_, err = c.Find(ctx, mustFilter(t, `{"$where": "true"}`), nil, 0)
	require.Error(t, err)
}

func TestFilterObjectIDLiteral(t *testing.T) {
	s := New()
	s.Add("users",
		doc.D(doc.F("_id", doc.D(doc.F("$oid", doc.String("65a1b2c3d4e5f60718293a4b"))))),
		doc.D(doc.F("_id", doc.D(doc.F("$oid", doc.String("65a1b2c3d4e5f60718293a4c"))))),
	)
	store, err := s.Connect(context.Background(), docstore.Target{Database: "app"})
	require.NoError(t, err)

	n, err := store.Collection("users").Count(context.Background(),
		mustFilter(t, `{"_id": {"$oid": "65a1b2c3d4e5f60718293a4c"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUnknownCollectionIsEmpty(t *testing.T) {
	store, err := New().Connect(context.Background(), docstore.Target{Database: "x"})
	require.NoError(t, err)

	n, err := store.Collection("nothing").Count(context.Background(), query.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConnectRecordsTargets(t *testing.T) {
	s := New()
	connect := s.Connector()

	store, err := connect(context.Background(), docstore.Target{Host: "a", Database: "one"})
	require.NoError(t, err)
	assert.Equal(t, "one", store.Target().Database)
	require.NoError(t, store.Close(context.Background()))

	_, err = connect(context.Background(), docstore.Target{Host: "b", Database: "two"})
	require.NoError(t, err)

	got := s.Connects()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Host)
}
