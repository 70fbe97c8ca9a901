package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileExt is appended to every snapshot name.
const FileExt = ".json"

// maxSuffix bounds the search for a free name when documents of one run
// derive the same base name.
const maxSuffix = 10000

var writeFile = (*os.File).Write

// Dir is the process-scoped snapshot directory.
type Dir struct {
	path   string
	logger *slog.Logger
}

// NewDir returns a Dir rooted at path. A nil logger uses slog.Default().
func NewDir(path string, logger *slog.Logger) *Dir {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{path: path, logger: logger}
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Reset creates the directory if needed and deletes every regular file in
// it. Deletion is best-effort: failures are logged and counted, never
// returned. Only a directory that cannot be created or listed is an error.
func (d *Dir) Reset() (removed int, err error) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return 0, fmt.Errorf("create snapshot dir: %w", err)
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		return 0, fmt.Errorf("list snapshot dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		p := filepath.Join(d.path, entry.Name())
		if err := os.Remove(p); err != nil {
			d.logger.Warn("could not remove old snapshot", "path", p, "error", err)
			continue
		}
		removed++
	}

	d.logger.Debug("snapshot dir reset", "path", d.path, "removed", removed)
	return removed, nil
}

// Write creates a new file for name and writes data to it. Existing files
// are never overwritten: when <name>.json is taken, <name>-2.json,
// <name>-3.json, ... are tried. Returns the path written.
func (d *Dir) Write(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	for n := 1; n <= maxSuffix; n++ {
		candidate := name
		if n > 1 {
			candidate = name + "-" + strconv.Itoa(n)
		}
		p := filepath.Join(d.path, candidate+FileExt)

		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create snapshot %s: %w", p, err)
		}

		_, err = writeFile(f, data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			if rerr := os.Remove(p); rerr != nil {
				d.logger.Warn("could not remove partial snapshot", "path", p, "error", rerr)
			}
			return "", fmt.Errorf("write snapshot %s: %w", p, err)
		}
		return p, nil
	}
	return "", fmt.Errorf("no free snapshot name for %q in %s", name, d.path)
}
