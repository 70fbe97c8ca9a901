package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/recordcompare/internal/doc"
)

// Fields consulted when naming a snapshot.
const (
	FieldID        = "_id"
	FieldEntityID  = "EntityId"
	FieldAudit     = "Adt"
	FieldUpdatedAt = "UT"
	FieldSaveTime  = "SaveTime"
)

// Name derives the snapshot file name (without extension) for d.
//
// The identifier segment comes from _id when it is numeric, else from
// EntityId when that is numeric. The timestamp segment comes from Adt.UT,
// else SaveTime. The token is always appended, so the result is never
// empty and degrades to "<collection>-<token>". Path separators and ".."
// in the collection name become "_" so the file stays in its directory.
func Name(collection string, d doc.Document, token string) string {
	var b strings.Builder
	b.WriteString(fileSafe.Replace(collection))

	if id, ok := recordID(d); ok {
		b.WriteString("-id")
		b.WriteString(id)
	}

	if ts, ok := updatedAt(d); ok {
		b.WriteByte('-')
		b.WriteString(FormatTimestamp(ts))
	}

	b.WriteByte('-')
	b.WriteString(token)
	return b.String()
}

var fileSafe = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// recordID returns the formatted numeric identifier of d, if any.
func recordID(d doc.Document) (string, bool) {
	for _, field := range []string{FieldID, FieldEntityID} {
		v, ok := d.Get(field)
		if !ok || !doc.IsNumeric(v) {
			continue
		}
		return formatNumber(v), true
	}
	return "", false
}

// updatedAt returns the audit update time, falling back to the save time.
// Only time-typed values count.
func updatedAt(d doc.Document) (time.Time, bool) {
	if v, ok := d.Lookup([]string{FieldAudit, FieldUpdatedAt}); ok {
		if t, ok := v.(doc.Time); ok {
			return t.UTC(), true
		}
	}
	if v, ok := d.Get(FieldSaveTime); ok {
		if t, ok := v.(doc.Time); ok {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in UTC as yyyyMMdd_HHmmss_fff.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s_%03d", t.Format("20060102_150405"), t.Nanosecond()/int(time.Millisecond))
}

func formatNumber(v doc.Value) string {
	switch n := v.(type) {
	case doc.Int:
		return strconv.FormatInt(int64(n), 10)
	case doc.Float:
		return strconv.FormatFloat(float64(n), 'f', -1, 64)
	default:
		return ""
	}
}
