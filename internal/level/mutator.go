package level

import (
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/annel0/voxel-level/internal/vec"
)

// SetTile безусловно записывает тайл. mode=true - массовая запись
// (генерация): столбец освещения помечается грязным, слушатели не
// уведомляются. Соседи в очередь не ставятся ни в одном из режимов.
func (l *Level) SetTile(x, y, z int, t tile.Type, mode bool) {
	if !l.IsInBounds(x, y, z) {
		return
	}
	l.writeTile(x, y, z, t, 0, mode)
}

// SetTileWithNeighborChange записывает тайл и ставит в очередь его самого
// и шесть соседей. Возвращает false, если клетка вне уровня или уже
// содержит t.
func (l *Level) SetTileWithNeighborChange(x, y, z int, t tile.Type, mode bool) bool {
	if !l.IsInBounds(x, y, z) || l.blocks[Index(x, y, z)] == t {
		return false
	}
	l.writeTile(x, y, z, t, 0, mode)

	p := vec.Of(x, y, z)
	l.updates.Push(p)
	p.Neighbours(func(n vec.Vec3) {
		if l.IsInBounds(n.X, n.Y, n.Z) {
			l.updates.Push(n)
		}
	})
	return true
}

// SetTileWithNoNeighborChange записывает тайл и ставит в очередь только его
func (l *Level) SetTileWithNoNeighborChange(x, y, z int, t tile.Type, mode bool) bool {
	if !l.IsInBounds(x, y, z) || l.blocks[Index(x, y, z)] == t {
		return false
	}
	l.writeTile(x, y, z, t, 0, mode)
	l.updates.Push(vec.Of(x, y, z))
	return true
}

// writeTile записывает тайл вместе с дистанцией растекания и
// вызывает обработчики изменений. Координаты уже проверены.
func (l *Level) writeTile(x, y, z int, t tile.Type, distance uint8, mode bool) {
	idx := Index(x, y, z)
	previous := l.blocks[idx]
	l.blocks[idx] = t
	l.fluid[idx] = distance

	if previous == t {
		return
	}
	if mode {
		if tile.BlocksLight(previous) != tile.BlocksLight(t) {
			l.markLightDirty(x, z)
		}
		return
	}
	if !tile.IsAir(previous) {
		l.removedTile(x, y, z, previous)
	}
	if !tile.IsAir(t) {
		l.addedTile(x, y, z, t)
	}
}

// addedTile поддерживает освещение после появления тайла и уведомляет слушателей
func (l *Level) addedTile(x, y, z int, t tile.Type) {
	if tile.BlocksLight(t) {
		l.refreshLightDepth(x, z)
		if y >= l.LightDepth(x, z) {
			l.setLightDepth(x, z, y+1)
		}
	}
	for _, listener := range l.listeners {
		listener.TileAdded(x, y, z, t)
	}
}

// removedTile поддерживает освещение после исчезновения тайла previous.
// Если клетка всё ещё непрозрачна (замена одного блока другим), глубина
// не меняется.
func (l *Level) removedTile(x, y, z int, previous tile.Type) {
	current := l.blocks[Index(x, y, z)]
	if tile.BlocksLight(previous) && !tile.BlocksLight(current) {
		l.refreshLightDepth(x, z)
		if y+1 == l.LightDepth(x, z) {
			l.setLightDepth(x, z, l.scanColumn(x, z, y-1))
		}
	}
	for _, listener := range l.listeners {
		listener.TileRemoved(x, y, z, previous)
	}
}
