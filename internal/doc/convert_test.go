package doc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	v, err := FromAny(map[string]any{
		"b":    1,
		"a":    []any{true, nil, 1.5, "s"},
		"when": ts,
		"sub":  map[string]any{"y": int64(2), "x": int32(1)},
	})
	require.NoError(t, err)

	d, ok := v.(Document)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "sub", "when"}, d.Keys())
	assert.Equal(t, `{"a":[true,null,1.5,"s"],"b":1,"sub":{"x":1,"y":2},"when":{"$date":"2024-01-02T03:04:05.000Z"}}`, Compact(d))
}

func TestFromAnyRejectsUnsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `["ch"]`)
}
