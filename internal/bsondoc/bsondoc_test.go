package bsondoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roach88/recordcompare/internal/doc"
)

func TestFromDKeepsOrder(t *testing.T) {
	d := bson.D{
		{Key: "_id", Value: int32(2)},
		{Key: "b", Value: int64(1)},
		{Key: "a", Value: 2.5},
	}

	got := FromD(d)
	assert.Equal(t, []string{"_id", "b", "a"}, got.Keys())
	assert.Equal(t, `{"_id":2,"b":1,"a":2.5}`, doc.Compact(got))
}

func TestFromValueScalars(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "null"},
		{"bson null", bson.Null{}, "null"},
		{"undefined", bson.Undefined{}, "null"},
		{"bool", true, "true"},
		{"int32", int32(7), "7"},
		{"int64", int64(-7), "-7"},
		{"double", 1.5, "1.5"},
		{"string", "s", `"s"`},
		{"symbol", bson.Symbol("sym"), `"sym"`},
		{"datetime", bson.NewDateTimeFromTime(ts), `{"$date":"2024-01-02T03:04:05.678Z"}`},
		{"time", ts, `{"$date":"2024-01-02T03:04:05.678Z"}`},
		{"timestamp", bson.Timestamp{T: 10, I: 2}, `{"$timestamp":{"t":10,"i":2}}`},
		{"binary", bson.Binary{Subtype: 0, Data: []byte("hi")}, `{"$binary":{"base64":"aGk=","subType":"00"}}`},
		{"regex", bson.Regex{Pattern: "^a", Options: "i"}, `{"$regularExpression":{"pattern":"^a","options":"i"}}`},
		{"javascript", bson.JavaScript("x"), `{"$code":"x"}`},
		{"minkey", bson.MinKey{}, `{"$minKey":1}`},
		{"maxkey", bson.MaxKey{}, `{"$maxKey":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, doc.Compact(FromValue(tt.input)))
		})
	}
}

func TestFromValueObjectIDIsNotNumeric(t *testing.T) {
	oid, err := bson.ObjectIDFromHex("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)

	v := FromValue(oid)
	assert.False(t, doc.IsNumeric(v))
	assert.Equal(t, `{"$oid":"65a1b2c3d4e5f60718293a4b"}`, doc.Compact(v))
}

func TestFromValueNested(t *testing.T) {
	v := FromValue(bson.D{
		{Key: "arr", Value: bson.A{int32(1), bson.D{{Key: "z", Value: "x"}}}},
		{Key: "m", Value: bson.M{"b": int32(2), "a": int32(1)}},
	})

	assert.Equal(t, `{"arr":[1,{"z":"x"}],"m":{"a":1,"b":2}}`, doc.Compact(v))
}

func TestFromValueUnknownType(t *testing.T) {
	type custom struct{ N int }
	assert.Equal(t, `"{3}"`, doc.Compact(FromValue(custom{N: 3})))
}
