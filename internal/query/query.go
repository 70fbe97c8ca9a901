// Package query defines the Filter and Sort Specification carried by the
// session, and parses both from MongoDB Extended JSON text as typed at the
// console (e.g. {"status": "open", "_id": {"$gt": 10}}).
package query

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roach88/recordcompare/internal/bsondoc"
	"github.com/roach88/recordcompare/internal/doc"
)

// ParseError reports malformed filter or sort text typed by the operator.
type ParseError struct {
	Kind  string // "filter" or "sort"
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Filter is a structured predicate evaluated by the store. The zero Filter
// matches every document.
type Filter struct {
	expr bson.D
}

// ParseFilter parses a filter from Extended JSON. An empty object yields
// the zero (match-all) Filter.
func ParseFilter(text string) (Filter, error) {
	text = strings.TrimSpace(text)
	var d bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), false, &d); err != nil {
		return Filter{}, &ParseError{Kind: "filter", Input: text, Err: err}
	}
	return Filter{expr: d}, nil
}

// IsZero reports whether f matches everything.
func (f Filter) IsZero() bool {
	return len(f.expr) == 0
}

// BSON returns the filter for the MongoDB driver. The zero Filter yields
// an empty document, never nil.
func (f Filter) BSON() bson.D {
	if f.expr == nil {
		return bson.D{}
	}
	return f.expr
}

// Document returns the filter expression as a doc value.
func (f Filter) Document() doc.Document {
	return bsondoc.FromD(f.BSON())
}

// String renders the filter on one line; empty for the zero Filter.
func (f Filter) String() string {
	if f.IsZero() {
		return ""
	}
	return doc.Compact(f.Document())
}

// Direction is the ordering of one sort key.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// SortKey orders results by one field.
type SortKey struct {
	Field     string
	Direction Direction
}

// Sort is an ordered list of sort keys. A nil or empty Sort means natural
// (insertion) order.
type Sort []SortKey

// ParseSort parses a sort specification such as {"_id": 1, "Adt.UT": -1}.
// Each direction must be the number 1 or -1.
func ParseSort(text string) (Sort, error) {
	text = strings.TrimSpace(text)
	var d bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), false, &d); err != nil {
		return nil, &ParseError{Kind: "sort", Input: text, Err: err}
	}

	s := make(Sort, 0, len(d))
	for _, e := range d {
		dir, err := parseDirection(bsondoc.FromValue(e.Value))
		if err != nil {
			return nil, &ParseError{Kind: "sort", Input: text, Err: fmt.Errorf("field %q: %w", e.Key, err)}
		}
		s = append(s, SortKey{Field: e.Key, Direction: dir})
	}
	return s, nil
}

func parseDirection(v doc.Value) (Direction, error) {
	var n float64
	switch val := v.(type) {
	case doc.Int:
		n = float64(val)
	case doc.Float:
		n = float64(val)
	default:
		return 0, fmt.Errorf("direction must be 1 or -1, got %s", doc.Compact(v))
	}
	switch n {
	case 1:
		return Ascending, nil
	case -1:
		return Descending, nil
	default:
		return 0, fmt.Errorf("direction must be 1 or -1, got %s", doc.Compact(v))
	}
}

// IsZero reports whether s leaves results in natural order.
func (s Sort) IsZero() bool {
	return len(s) == 0
}

// BSON returns the sort document for the MongoDB driver.
func (s Sort) BSON() bson.D {
	d := make(bson.D, len(s))
	for i, k := range s {
		d[i] = bson.E{Key: k.Field, Value: int32(k.Direction)}
	}
	return d
}

// String renders the sort on one line; empty for natural order.
func (s Sort) String() string {
	if s.IsZero() {
		return ""
	}
	d := make(doc.Document, len(s))
	for i, k := range s {
		d[i] = doc.Field{Key: k.Field, Value: doc.Int(k.Direction)}
	}
	return doc.Compact(d)
}

// SplitPath splits a dotted field path ("Adt.UT") into its segments.
func SplitPath(field string) []string {
	return strings.Split(field, ".")
}
