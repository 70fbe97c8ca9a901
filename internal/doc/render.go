package doc

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the rendering of Time values inside {"$date": ...}.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

const indentUnit = "  "

// Render produces the multi-line text form of d written to snapshot files:
// two-space indentation, fields in the order given, a trailing newline.
// Callers wanting order-independent text render Canonicalize(d).
//
// Render never fails; every Value variant has a text form.
func Render(d Document) []byte {
	var buf bytes.Buffer
	writeValue(&buf, d, "", true)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Compact renders v on a single line without insignificant whitespace,
// e.g. {"a":2,"b":1}. Used for status lines and hashing.
func Compact(v Value) string {
	var buf bytes.Buffer
	writeValue(&buf, v, "", false)
	return buf.String()
}

func writeValue(buf *bytes.Buffer, v Value, indent string, pretty bool) {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		writeFloat(buf, float64(val), pretty)
	case String:
		writeString(buf, string(val))
	case Time:
		writeWrapped(buf, "$date", val.UTC().Format(TimeLayout), pretty)
	case Array:
		writeArray(buf, val, indent, pretty)
	case Document:
		writeDocument(buf, val, indent, pretty)
	}
}

func writeDocument(buf *bytes.Buffer, d Document, indent string, pretty bool) {
	if len(d) == 0 {
		buf.WriteString("{}")
		return
	}
	inner := indent + indentUnit
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		if pretty {
			buf.WriteByte('\n')
			buf.WriteString(inner)
		}
		writeString(buf, f.Key)
		buf.WriteByte(':')
		if pretty {
			buf.WriteByte(' ')
		}
		writeValue(buf, f.Value, inner, pretty)
	}
	if pretty {
		buf.WriteByte('\n')
		buf.WriteString(indent)
	}
	buf.WriteByte('}')
}

func writeArray(buf *bytes.Buffer, arr Array, indent string, pretty bool) {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return
	}
	inner := indent + indentUnit
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if pretty {
			buf.WriteByte('\n')
			buf.WriteString(inner)
		}
		writeValue(buf, elem, inner, pretty)
	}
	if pretty {
		buf.WriteByte('\n')
		buf.WriteString(indent)
	}
	buf.WriteByte(']')
}

// writeWrapped renders a scalar that JSON cannot express directly as a
// one-field extended JSON object, kept on one line even in pretty mode.
func writeWrapped(buf *bytes.Buffer, key, text string, pretty bool) {
	buf.WriteByte('{')
	writeString(buf, key)
	buf.WriteByte(':')
	if pretty {
		buf.WriteByte(' ')
	}
	writeString(buf, text)
	buf.WriteByte('}')
}

func writeFloat(buf *bytes.Buffer, f float64, pretty bool) {
	switch {
	case math.IsNaN(f):
		writeWrapped(buf, "$numberDouble", "NaN", pretty)
		return
	case math.IsInf(f, 1):
		writeWrapped(buf, "$numberDouble", "Infinity", pretty)
		return
	case math.IsInf(f, -1):
		writeWrapped(buf, "$numberDouble", "-Infinity", pretty)
		return
	}
	buf.WriteString(FormatFloat(f))
}

// FormatFloat formats f the way encoding/json does, except that integral
// values keep a ".0" suffix so a float never renders like an int.
func FormatFloat(f float64) string {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// writeString writes s as a JSON string literal exactly as stored; <, >
// and & are left unescaped.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}

// FormatTime renders t in the layout used inside {"$date": ...}.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
