package doc

import (
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindArray
	KindDocument
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindTime:     "time",
	KindArray:    "array",
	KindDocument: "document",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a sealed interface over the document value variants.
type Value interface {
	Kind() Kind
	docValue() // Sealed - only this package implements it
}

// Null represents an explicit null field value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) docValue()  {}

// Bool represents a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) docValue()  {}

// Int represents an integral number. Stores narrower integers widen to Int.
type Int int64

func (Int) Kind() Kind { return KindInt }
func (Int) docValue()  {}

// Float represents a floating point number.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (Float) docValue()  {}

// String represents a text value.
type String string

func (String) Kind() Kind { return KindString }
func (String) docValue()  {}

// Time represents an instant. It is always compared and rendered in UTC.
type Time time.Time

func (Time) Kind() Kind { return KindTime }
func (Time) docValue()  {}

// UTC returns the instant as a UTC time.Time.
func (t Time) UTC() time.Time {
	return time.Time(t).UTC()
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time(t.UTC())
}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind { return KindArray }
func (Array) docValue()  {}

// Field is one key/value entry of a Document.
type Field struct {
	Key   string
	Value Value
}

// Document is an ordered sequence of fields. Order is whatever the store
// returned; use Canonicalize for an order-independent form.
type Document []Field

func (Document) Kind() Kind { return KindDocument }
func (Document) docValue()  {}

// F is a shorthand for Field construction.
// Example: D(F("name", String("cart")), F("count", Int(5)))
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// D builds a Document from fields, keeping their order.
func D(fields ...Field) Document {
	if fields == nil {
		return Document{}
	}
	return Document(fields)
}

// A builds an Array from values.
func A(vals ...Value) Array {
	if vals == nil {
		return Array{}
	}
	return Array(vals)
}

// Get returns the value of the first field named key.
func (d Document) Get(key string) (Value, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether the document has a field named key.
func (d Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns field names in document order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, f := range d {
		keys[i] = f.Key
	}
	return keys
}

// Lookup resolves a dotted path ("Adt.UT") through nested Documents.
// Array elements are not traversed.
func (d Document) Lookup(path []string) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	v, ok := d.Get(path[0])
	if !ok {
		return nil, false
	}
	if len(path) == 1 {
		return v, true
	}
	sub, ok := v.(Document)
	if !ok {
		return nil, false
	}
	return sub.Lookup(path[1:])
}

// IsNumeric reports whether v holds a number. Strings that look numeric
// are not numbers.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}
