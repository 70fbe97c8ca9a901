package memstore

import (
	"fmt"
	"strings"

	"github.com/roach88/recordcompare/internal/doc"
	"github.com/roach88/recordcompare/internal/query"
)

// matcher reports whether a document satisfies a compiled filter.
type matcher func(doc.Document) bool

// literalWrappers are the Extended JSON wrapper keys produced by bsondoc.
// A sub-document keyed by one of these is a value, not an operator set.
var literalWrappers = map[string]bool{
	"$oid":               true,
	"$numberDecimal":     true,
	"$numberDouble":      true,
	"$timestamp":         true,
	"$binary":            true,
	"$regularExpression": true,
	"$code":              true,
	"$minKey":            true,
	"$maxKey":            true,
	"$date":              true,
}

// compileFilter turns a filter document into a matcher. Unsupported
// operators are rejected up front so a typo never silently matches all.
func compileFilter(filter doc.Document) (matcher, error) {
	var clauses []matcher
	for _, f := range filter {
		m, err := compileClause(f.Key, f.Value)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, m)
	}
	return func(d doc.Document) bool {
		for _, m := range clauses {
			if !m(d) {
				return false
			}
		}
		return true
	}, nil
}

func compileClause(key string, value doc.Value) (matcher, error) {
	switch key {
	case "$and", "$or", "$nor":
		return compileLogical(key, value)
	}
	if strings.HasPrefix(key, "$") {
		return nil, fmt.Errorf("unsupported top-level operator %s", key)
	}

	path := query.SplitPath(key)
	if ops, ok := operatorDocument(value); ok {
		var preds []func(doc.Value, bool) bool
		for _, op := range ops {
			p, err := compileOperator(op.Key, op.Value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			preds = append(preds, p)
		}
		return func(d doc.Document) bool {
			v, found := d.Lookup(path)
			for _, p := range preds {
				if !p(v, found) {
					return false
				}
			}
			return true
		}, nil
	}

	return func(d doc.Document) bool {
		v, found := d.Lookup(path)
		return equals(v, found, value)
	}, nil
}

func compileLogical(op string, value doc.Value) (matcher, error) {
	arr, ok := value.(doc.Array)
	if !ok || len(arr) == 0 {
		return nil, fmt.Errorf("%s requires a non-empty array", op)
	}
	subs := make([]matcher, 0, len(arr))
	for _, elem := range arr {
		sub, ok := elem.(doc.Document)
		if !ok {
			return nil, fmt.Errorf("%s elements must be documents", op)
		}
		m, err := compileFilter(sub)
		if err != nil {
			return nil, err
		}
		subs = append(subs, m)
	}

	return func(d doc.Document) bool {
		switch op {
		case "$and":
			for _, m := range subs {
				if !m(d) {
					return false
				}
			}
			return true
		case "$or":
			for _, m := range subs {
				if m(d) {
					return true
				}
			}
			return false
		default: // $nor
			for _, m := range subs {
				if m(d) {
					return false
				}
			}
			return true
		}
	}, nil
}

// operatorDocument reports whether v is a set of query operators such as
// {"$gt": 1}. Extended JSON wrappers like {"$oid": ...} are literals.
func operatorDocument(v doc.Value) (doc.Document, bool) {
	d, ok := v.(doc.Document)
	if !ok || len(d) == 0 {
		return nil, false
	}
	if !strings.HasPrefix(d[0].Key, "$") || literalWrappers[d[0].Key] {
		return nil, false
	}
	return d, true
}

func compileOperator(op string, arg doc.Value) (func(doc.Value, bool) bool, error) {
	switch op {
	case "$eq":
		return func(v doc.Value, found bool) bool { return equals(v, found, arg) }, nil
	case "$ne":
		return func(v doc.Value, found bool) bool { return !equals(v, found, arg) }, nil
	case "$gt", "$gte", "$lt", "$lte":
		return func(v doc.Value, found bool) bool {
			return found && anyElement(v, func(e doc.Value) bool { return ordered(op, e, arg) })
		}, nil
	case "$in", "$nin":
		list, ok := arg.(doc.Array)
		if !ok {
			return nil, fmt.Errorf("%s requires an array", op)
		}
		in := func(v doc.Value, found bool) bool {
			for _, candidate := range list {
				if equals(v, found, candidate) {
					return true
				}
			}
			return false
		}
		if op == "$in" {
			return in, nil
		}
		return func(v doc.Value, found bool) bool { return !in(v, found) }, nil
	case "$exists":
		want := truthy(arg)
		return func(_ doc.Value, found bool) bool { return found == want }, nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", op)
	}
}

// equals applies MongoDB equality: a missing field equals null, and an
// array field matches when the whole array or any element is equal.
func equals(v doc.Value, found bool, want doc.Value) bool {
	if !found {
		_, isNull := want.(doc.Null)
		return isNull || want == nil
	}
	if doc.Equal(v, want) {
		return true
	}
	if arr, ok := v.(doc.Array); ok {
		for _, e := range arr {
			if doc.Equal(e, want) {
				return true
			}
		}
	}
	return false
}

func anyElement(v doc.Value, pred func(doc.Value) bool) bool {
	if arr, ok := v.(doc.Array); ok {
		for _, e := range arr {
			if pred(e) {
				return true
			}
		}
		return false
	}
	return pred(v)
}

// ordered compares only within comparable kinds, as MongoDB's range
// operators do not cross type brackets.
func ordered(op string, v, arg doc.Value) bool {
	if !sameBracket(v, arg) {
		return false
	}
	c := doc.Compare(v, arg)
	switch op {
	case "$gt":
		return c > 0
	case "$gte":
		return c >= 0
	case "$lt":
		return c < 0
	default:
		return c <= 0
	}
}

func sameBracket(a, b doc.Value) bool {
	if doc.IsNumeric(a) && doc.IsNumeric(b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Kind() == b.Kind()
}

func truthy(v doc.Value) bool {
	switch x := v.(type) {
	case doc.Bool:
		return bool(x)
	case doc.Int:
		return x != 0
	case doc.Float:
		return x != 0
	case nil, doc.Null:
		return false
	default:
		return true
	}
}
