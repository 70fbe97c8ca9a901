package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recordcompare/internal/query"
)

func TestNewStateIsEmpty(t *testing.T) {
	s := New()

	assert.False(t, s.HasCollection())
	assert.True(t, s.Filter().IsZero())
	assert.True(t, s.Sort().IsZero())
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestSetCollectionKeepsFilterAndSort(t *testing.T) {
	s := New()
	f, err := query.ParseFilter(`{"status": "open"}`)
	require.NoError(t, err)
	sort, err := query.ParseSort(`{"_id": 1}`)
	require.NoError(t, err)

	s.SetCollection("orders")
	s.SetFilter(f)
	s.SetSort(sort)
	s.SetCollection("invoices")

	assert.Equal(t, Snapshot{
		Collection: "invoices",
		Filter:     `{"status":"open"}`,
		Sort:       `{"_id":1}`,
	}, s.Snapshot())
}

func TestSetFilterReplacesWholesale(t *testing.T) {
	s := New()
	first, err := query.ParseFilter(`{"a": 1, "b": 2}`)
	require.NoError(t, err)
	second, err := query.ParseFilter(`{"c": 3}`)
	require.NoError(t, err)

	s.SetFilter(first)
	s.SetFilter(second)
	assert.Equal(t, `{"c":3}`, s.Snapshot().Filter)

	s.SetFilter(query.Filter{})
	assert.True(t, s.Filter().IsZero())
}

func TestSetSortEmptyMeansNaturalOrder(t *testing.T) {
	s := New()
	s.SetSort(query.Sort{{Field: "_id", Direction: query.Descending}})
	assert.Equal(t, `{"_id":-1}`, s.Snapshot().Sort)

	s.SetSort(query.Sort{})
	assert.Nil(t, s.Sort())
	assert.Equal(t, "", s.Snapshot().Sort)
}
