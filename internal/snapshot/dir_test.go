package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recordcompare/internal/doc"
)

func TestDirResetCreatesMissingDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "snapshots", "nested")
	d := NewDir(root, nil)

	removed, err := d.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.DirExists(t, root)
}

func TestDirResetRemovesFilesOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "old-1.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "old-2.json"), []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "keep"), 0o755))

	removed, err := NewDir(root, nil).Reset()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep", entries[0].Name())
}

func TestDirResetFailsWhenPathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewDir(file, nil).Reset()
	require.Error(t, err)
}

func TestDirWrite(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root, nil)

	p, err := d.Write("orders-id1-abcd", []byte("{}\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "orders-id1-abcd.json"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestDirWriteNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root, nil)

	first, err := d.Write("orders-abcd", []byte("first"))
	require.NoError(t, err)
	second, err := d.Write("orders-abcd", []byte("second"))
	require.NoError(t, err)
	third, err := d.Write("orders-abcd", []byte("third"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "orders-abcd.json"), first)
	assert.Equal(t, filepath.Join(root, "orders-abcd-2.json"), second)
	assert.Equal(t, filepath.Join(root, "orders-abcd-3.json"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestDirWriteMissingDir(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "missing"), nil)
	_, err := d.Write("x", []byte("{}"))
	require.Error(t, err)
}

func TestDirWriteCollectionWithSeparators(t *testing.T) {
	root := filepath.Join(t.TempDir(), "snapshots")
	d := NewDir(root, nil)
	_, err := d.Reset()
	require.NoError(t, err)

	rec := doc.D(doc.F("_id", doc.Int(1)))
	for _, collection := range []string{"audit/orders", "../escaped"} {
		t.Run(collection, func(t *testing.T) {
			p, err := d.Write(Name(collection, rec, "k3xq"), []byte("{}"))
			require.NoError(t, err)
			assert.Equal(t, root, filepath.Dir(p))
		})
	}

	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escaped-id1-k3xq.json"))
}

func TestDirWriteRejectsPathNames(t *testing.T) {
	d := NewDir(t.TempDir(), nil)
	for _, name := range []string{"", "a/b", "../x", ".."} {
		_, err := d.Write(name, []byte("{}"))
		assert.Error(t, err, name)
	}
}

func TestDirWriteFailureRemovesFile(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root, nil)

	orig := writeFile
	writeFile = func(*os.File, []byte) (int, error) { return 0, errors.New("disk full") }
	t.Cleanup(func() { writeFile = orig })

	_, err := d.Write("orders-id1-k3xq", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
