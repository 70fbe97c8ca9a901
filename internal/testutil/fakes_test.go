package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingLauncher_CapturesContent(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "a.json")
	right := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(left, []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(right, []byte("B"), 0o644))

	var l RecordingLauncher
	require.NoError(t, l.Launch(context.Background(), left, right))

	got := l.Launches()
	require.Len(t, got, 1)
	assert.Equal(t, Launch{Left: left, Right: right, LeftContent: "A", RightContent: "B"}, got[0])
}

func TestRecordingLauncher_Err(t *testing.T) {
	l := RecordingLauncher{Err: errors.New("boom")}
	require.Error(t, l.Launch(context.Background(), "a", "b"))
	assert.Empty(t, l.Launches())
}

func TestScriptedConfirmer(t *testing.T) {
	c := NewScriptedConfirmer(true, false)

	ok, err := c.Confirm("first? ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.Confirm("second? ")
	assert.False(t, ok)

	// exhausted script behaves like a closed console
	ok, err = c.Confirm("third? ")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"first? ", "second? ", "third? "}, c.Prompts())
}

func TestAlwaysConfirm(t *testing.T) {
	c := AlwaysConfirm(2)
	a, _ := c.Confirm("")
	b, _ := c.Confirm("")
	d, _ := c.Confirm("")
	assert.Equal(t, []bool{true, true, false}, []bool{a, b, d})
}
