// Package doc provides the document value model for recordcompare.
//
// Documents retrieved from a store are converted into this model before they
// are named, canonicalized and rendered. The model is a sealed tagged union:
// only Null, Bool, Int, Float, String, Time, Array and Document implement
// Value, so every switch over a Value can be exhaustive.
//
// Key properties:
//   - Document preserves field order as stored; Canonicalize produces a new
//     Document with fields sorted at every Document nesting level
//   - Render is total: every well-formed Value renders, including NaN floats
//   - Keys sort by UTF-16 code units (RFC 8785 ordering), not UTF-8 bytes
//
// doc imports nothing internal.
package doc
