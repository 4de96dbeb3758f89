package sync

import (
	"sync"

	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/logging"
)

// Conflict - две правки одной клетки: последняя известная узлу и пришедшая
type Conflict struct {
	Local  TileEdit // последняя правка, применённая или сделанная на узле
	Remote TileEdit // правка, пришедшая от другого узла
}

// ConflictResolver решает, какая из правок остаётся в клетке
type ConflictResolver interface {
	// Resolve возвращает true, если побеждает Remote
	Resolve(c Conflict) bool
}

// LWWResolver реализует Last-Write-Wins. При равном времени побеждает
// узел с большим именем.
type LWWResolver struct{}

// NewLWWResolver создаёт новый Last-Write-Wins resolver
func NewLWWResolver() ConflictResolver {
	return LWWResolver{}
}

// Resolve реализует ConflictResolver для LWW стратегии
func (LWWResolver) Resolve(c Conflict) bool {
	if c.Remote.Timestamp.Equal(c.Local.Timestamp) {
		return c.Remote.Source > c.Local.Source
	}
	return c.Remote.Timestamp.After(c.Local.Timestamp)
}

// editClock помнит последнюю правку каждой клетки
type editClock struct {
	mu       sync.Mutex
	last     map[int]TileEdit
	resolver ConflictResolver
	log      *logging.Logger
}

func newEditClock(resolver ConflictResolver) *editClock {
	if resolver == nil {
		resolver = NewLWWResolver()
	}
	return &editClock{
		last:     make(map[int]TileEdit),
		resolver: resolver,
		log:      logging.GetSyncLogger(),
	}
}

// Observe запоминает локальную правку
func (ec *editClock) Observe(e TileEdit) {
	if !level.InBounds(e.X, e.Y, e.Z) {
		return
	}
	ec.mu.Lock()
	ec.last[level.Index(e.X, e.Y, e.Z)] = e
	ec.mu.Unlock()
}

// Admit отбирает из пакета правки, побеждающие известные; отклонённые
// возвращаются числом.
func (ec *editClock) Admit(edits []TileEdit) (admitted []TileEdit, rejected int) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	admitted = edits[:0:0]
	for _, e := range edits {
		if !level.InBounds(e.X, e.Y, e.Z) {
			admitted = append(admitted, e)
			continue
		}
		idx := level.Index(e.X, e.Y, e.Z)
		if prev, ok := ec.last[idx]; ok && !ec.resolver.Resolve(Conflict{Local: prev, Remote: e}) {
			ec.log.Debug("конфликт в (%d,%d,%d): правка %s проиграла %s", e.X, e.Y, e.Z, e.Source, prev.Source)
			rejected++
			continue
		}
		ec.last[idx] = e
		admitted = append(admitted, e)
	}
	return admitted, rejected
}
