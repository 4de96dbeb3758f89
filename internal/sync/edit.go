package sync

import (
	"time"

	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/tile"
)

// TileEdit - правка одного тайла, сделанная игроком на каком-либо узле
type TileEdit struct {
	X, Y, Z   int
	Type      tile.Type
	Source    string    // узел, на котором сделана правка
	Timestamp time.Time // время правки (UTC)
}

// ApplyEdits применяет правки через SetTileWithNeighborChange. Правки,
// не изменившие уровень (повтор или вне границ), считаются пропущенными.
// Должна вызываться в потоке симуляции.
func ApplyEdits(l *level.Level, edits []TileEdit) (applied, skipped int) {
	for _, e := range edits {
		if l.SetTileWithNeighborChange(e.X, e.Y, e.Z, e.Type, false) {
			applied++
		} else {
			skipped++
		}
	}
	return applied, skipped
}
