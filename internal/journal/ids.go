package journal

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7IDs generates time-ordered UUIDv7 run IDs, so sorting by ID
// roughly follows start time.
type UUIDv7IDs struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7IDs) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedIDs returns predetermined IDs in order, for tests.
type FixedIDs struct {
	mu    sync.Mutex
	ids   []string
	index int
}

// NewFixedIDs creates a generator returning ids in order.
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// Generate returns the next ID. Panics when all IDs are used.
func (g *FixedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.index >= len(g.ids) {
		panic("FixedIDs: all IDs exhausted")
	}
	id := g.ids[g.index]
	g.index++
	return id
}
