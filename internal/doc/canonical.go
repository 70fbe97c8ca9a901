package doc

import (
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Canonicalize returns a new Document whose fields are sorted by key at
// every Document nesting level. Nested Documents are canonicalized before
// they are placed; all other values, Arrays included, are kept as they are.
//
// The input is never modified. Fields with duplicate keys keep their
// relative order (the sort is stable).
//
// Canonicalize is idempotent: Canonicalize(Canonicalize(d)) equals
// Canonicalize(d).
func Canonicalize(d Document) Document {
	out := make(Document, len(d))
	for i, f := range d {
		if sub, ok := f.Value.(Document); ok {
			out[i] = Field{Key: f.Key, Value: Canonicalize(sub)}
			continue
		}
		out[i] = f
	}
	slices.SortStableFunc(out, func(a, b Field) int {
		return CompareKeys(a.Key, b.Key)
	})
	return out
}

// CompareKeys orders field names by their NFC form, compared in UTF-16
// code units as RFC 8785 does, so keys that display alike sort alike. Keys
// with the same NFC form fall back to their stored form, keeping the order
// total.
func CompareKeys(a, b string) int {
	if c := compareUTF16(norm.NFC.String(a), norm.NFC.String(b)); c != 0 {
		return c
	}
	return compareUTF16(a, b)
}

// compareUTF16 compares by UTF-16 code units. Go's native string
// comparison uses UTF-8 bytes, which disagrees for characters above
// U+FFFF versus U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
