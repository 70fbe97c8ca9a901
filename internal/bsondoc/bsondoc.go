// Package bsondoc converts BSON values decoded by the MongoDB driver into
// doc values.
//
// Scalars JSON can express map onto the matching doc kind. BSON types with no
// doc equivalent (ObjectID, Decimal128, Binary, Regex, Timestamp, ...) become
// one-field Documents shaped like their MongoDB Extended JSON form, so they
// render readably and compare deterministically.
package bsondoc

import (
	"encoding/base64"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roach88/recordcompare/internal/doc"
)

// FromD converts an ordered BSON document, keeping field order.
func FromD(d bson.D) doc.Document {
	out := make(doc.Document, len(d))
	for i, e := range d {
		out[i] = doc.Field{Key: e.Key, Value: FromValue(e.Value)}
	}
	return out
}

// FromValue converts a single decoded BSON value. It is total: values of
// unknown types fall back to their fmt representation as a String.
func FromValue(v any) doc.Value {
	switch val := v.(type) {
	case nil, bson.Null, bson.Undefined:
		return doc.Null{}
	case bool:
		return doc.Bool(val)
	case int32:
		return doc.Int(val)
	case int64:
		return doc.Int(val)
	case int:
		return doc.Int(val)
	case float64:
		return doc.Float(val)
	case string:
		return doc.String(val)
	case bson.Symbol:
		return doc.String(val)
	case bson.DateTime:
		return doc.NewTime(val.Time())
	case time.Time:
		return doc.NewTime(val)
	case bson.D:
		return FromD(val)
	case bson.M:
		return fromM(val)
	case bson.A:
		return fromSlice(val)
	case []any:
		return fromSlice(val)
	case bson.ObjectID:
		return wrap("$oid", doc.String(val.Hex()))
	case bson.Decimal128:
		return wrap("$numberDecimal", doc.String(val.String()))
	case bson.Timestamp:
		return wrap("$timestamp", doc.D(
			doc.F("t", doc.Int(val.T)),
			doc.F("i", doc.Int(val.I)),
		))
	case bson.Binary:
		return wrap("$binary", doc.D(
			doc.F("base64", doc.String(base64.StdEncoding.EncodeToString(val.Data))),
			doc.F("subType", doc.String(fmt.Sprintf("%02x", val.Subtype))),
		))
	case bson.Regex:
		return wrap("$regularExpression", doc.D(
			doc.F("pattern", doc.String(val.Pattern)),
			doc.F("options", doc.String(val.Options)),
		))
	case bson.JavaScript:
		return wrap("$code", doc.String(val))
	case bson.MinKey:
		return wrap("$minKey", doc.Int(1))
	case bson.MaxKey:
		return wrap("$maxKey", doc.Int(1))
	default:
		return doc.String(fmt.Sprintf("%v", val))
	}
}

func wrap(key string, v doc.Value) doc.Document {
	return doc.D(doc.F(key, v))
}

func fromSlice(vals []any) doc.Array {
	arr := make(doc.Array, len(vals))
	for i, elem := range vals {
		arr[i] = FromValue(elem)
	}
	return arr
}

// fromM converts an unordered bson.M; keys are sorted so the result is
// deterministic.
func fromM(m bson.M) doc.Document {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, doc.CompareKeys)

	out := make(doc.Document, 0, len(m))
	for _, k := range keys {
		out = append(out, doc.Field{Key: k, Value: FromValue(m[k])})
	}
	return out
}
