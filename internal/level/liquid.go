package level

import (
	"math"

	"github.com/annel0/voxel-level/internal/physics"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/annel0/voxel-level/internal/vec"
)

// Высота поверхности жидкости, над которой нет жидкости того же семейства
const liquidSurface = 0.9

// IsWaterTile проверяет, содержит ли клетка воду
func (l *Level) IsWaterTile(x, y, z int) bool {
	return tile.IsWater(l.GetTile(x, y, z))
}

// IsMovingWaterTile проверяет, содержит ли клетка текущую воду
func (l *Level) IsMovingWaterTile(x, y, z int) bool {
	return tile.IsMovingWater(l.GetTile(x, y, z))
}

// IsLavaTile проверяет, содержит ли клетка лаву
func (l *Level) IsLavaTile(x, y, z int) bool {
	return tile.IsLava(l.GetTile(x, y, z))
}

// IsMovingLavaTile проверяет, содержит ли клетка текущую лаву
func (l *Level) IsMovingLavaTile(x, y, z int) bool {
	return tile.IsMovingLava(l.GetTile(x, y, z))
}

// IsRenderWaterTile проверяет, находится ли точка внутри воды с учётом
// высоты поверхности
func (l *Level) IsRenderWaterTile(x, y, z float64) bool {
	return l.liquidAt(x, y, z, tile.FamilyWater)
}

// IsLavaAt проверяет, находится ли точка внутри лавы
func (l *Level) IsLavaAt(x, y, z float64) bool {
	return l.liquidAt(x, y, z, tile.FamilyLava)
}

func (l *Level) liquidAt(x, y, z float64, family tile.Family) bool {
	bx, by, bz := int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))
	if tile.FamilyOf(l.GetTile(bx, by, bz)) != family {
		return false
	}
	if tile.FamilyOf(l.GetTile(bx, by+1, bz)) == family {
		return true
	}
	return y-float64(by) <= liquidSurface
}

// CanFlood проверяет, может ли жидкость t занять клетку
func (l *Level) CanFlood(x, y, z int, t tile.Type) bool {
	if !l.IsInBounds(x, y, z) || !tile.IsLiquid(t) {
		return false
	}
	return tile.IsDisplaceable(l.blocks[Index(x, y, z)])
}

// FlowDistance возвращает дистанцию растекания жидкости в клетке
func (l *Level) FlowDistance(x, y, z int) int {
	if !l.IsInBounds(x, y, z) {
		return 0
	}
	return int(l.fluid[Index(x, y, z)])
}

func (l *Level) maxFlowDistance(family tile.Family) int {
	if family == tile.FamilyLava {
		return l.cfg.LavaFlowDistance
	}
	return l.cfg.WaterFlowDistance
}

// evaluate пересчитывает клетку. Используется и немедленными, и
// отложенными обновлениями; повторный вызов для уже устоявшейся клетки
// ничего не меняет.
func (l *Level) evaluate(x, y, z int) {
	if !l.IsInBounds(x, y, z) {
		return
	}
	idx := Index(x, y, z)
	t := l.blocks[idx]
	family := tile.FamilyOf(t)
	if family == tile.FamilyNone {
		return
	}

	if l.resolveContact(x, y, z, t) {
		return
	}

	p := vec.Of(x, y, z)
	flowing := tile.Flowing(t)
	distance := int(l.fluid[idx])
	flooded := false

	below := p.Below()
	if l.CanFlood(below.X, below.Y, below.Z, t) {
		l.flood(below, flowing, 0)
		flooded = true
	} else if distance < l.maxFlowDistance(family) && !l.isFalling(below, family) {
		onLiquid := tile.FamilyOf(l.GetTile(below.X, below.Y, below.Z)) == family
		p.HorizontalNeighbours(func(n vec.Vec3) {
			if !l.CanFlood(n.X, n.Y, n.Z, t) {
				return
			}
			// поверх лужи жидкость растекается только над заполненной её частью
			if onLiquid && !l.canHold(n.Below(), family) {
				return
			}
			l.flood(n, flowing, distance+1)
			flooded = true
		})
	}

	if flooded {
		if t != flowing {
			l.switchState(idx, flowing)
		}
		l.updates.Push(p)
		return
	}
	if still := tile.Still(t); t != still {
		l.switchState(idx, still)
		l.wakeAbove(p, family)
	}
}

// switchState переключает жидкость между текущей и неподвижной формой.
// Слушатели не уведомляются, освещение не меняется.
func (l *Level) switchState(idx int, t tile.Type) {
	l.blocks[idx] = t
}

// isFalling сообщает, стекает ли под клеткой поток той же жидкости.
// Жидкость над таким потоком не растекается в стороны.
func (l *Level) isFalling(below vec.Vec3, family tile.Family) bool {
	t := l.GetTile(below.X, below.Y, below.Z)
	return tile.IsMoving(t) && tile.FamilyOf(t) == family
}

// canHold сообщает, может ли клетка c держать на себе жидкость family,
// растекающуюся поверх лужи: твёрдый тайл или неподвижная жидкость той же
// семьи, у которой нет свободных соседей по горизонтали.
func (l *Level) canHold(c vec.Vec3, family tile.Family) bool {
	if !l.IsInBounds(c.X, c.Y, c.Z) {
		return false
	}
	t := l.GetTile(c.X, c.Y, c.Z)
	switch tile.FamilyOf(t) {
	case tile.FamilyNone:
		return !tile.IsDisplaceable(t)
	case family:
	default:
		return false
	}
	if tile.IsMoving(t) {
		return false
	}
	sealed := true
	c.HorizontalNeighbours(func(n vec.Vec3) {
		if l.CanFlood(n.X, n.Y, n.Z, t) {
			sealed = false
		}
	})
	return sealed
}

// wakeAbove ставит в очередь жидкость той же семьи над устоявшейся клеткой
// и рядом с ней: теперь она может растечься поверх.
func (l *Level) wakeAbove(p vec.Vec3, family tile.Family) {
	above := p.Above()
	if tile.FamilyOf(l.GetTile(above.X, above.Y, above.Z)) == family {
		l.updates.Push(above)
	}
	above.HorizontalNeighbours(func(n vec.Vec3) {
		if tile.FamilyOf(l.GetTile(n.X, n.Y, n.Z)) == family {
			l.updates.Push(n)
		}
	})
}

// flood заполняет клетку текущей жидкостью и ставит её в очередь
func (l *Level) flood(p vec.Vec3, t tile.Type, distance int) {
	l.writeTile(p.X, p.Y, p.Z, t, uint8(distance), false)
	l.updates.Push(p)
}

// resolveContact применяет правило контакта воды и лавы: лава,
// касающаяся воды, застывает (неподвижная - в обсидиан, текущая - в камень).
// Возвращает true, если застыла сама клетка.
func (l *Level) resolveContact(x, y, z int, t tile.Type) bool {
	p := vec.Of(x, y, z)

	if tile.IsLava(t) {
		touching := false
		p.Neighbours(func(n vec.Vec3) {
			if tile.IsWater(l.GetTile(n.X, n.Y, n.Z)) {
				touching = true
			}
		})
		if touching {
			l.SetTileWithNeighborChange(x, y, z, solidified(t), false)
		}
		return touching
	}

	p.Neighbours(func(n vec.Vec3) {
		if nt := l.GetTile(n.X, n.Y, n.Z); tile.IsLava(nt) {
			l.SetTileWithNeighborChange(n.X, n.Y, n.Z, solidified(nt), false)
		}
	})
	return false
}

// solidified возвращает тайл, в который застывает лава
func solidified(lava tile.Type) tile.Type {
	if tile.IsMovingLava(lava) {
		return tile.Stone
	}
	return tile.Obsidian
}

// ContainsAnyLiquid проверяет, пересекает ли бокс хоть одну клетку с жидкостью
func (l *Level) ContainsAnyLiquid(box physics.AABB) bool {
	return l.containsMatching(box, tile.IsLiquid)
}

// ContainsLiquid проверяет, пересекает ли бокс жидкость семейства t
func (l *Level) ContainsLiquid(box physics.AABB, t tile.Type) bool {
	family := tile.FamilyOf(t)
	if family == tile.FamilyNone {
		return false
	}
	return l.containsMatching(box, func(c tile.Type) bool {
		return tile.FamilyOf(c) == family
	})
}

func (l *Level) containsMatching(box physics.AABB, match func(tile.Type) bool) bool {
	x0, y0, z0, x1, y1, z1 := cellRange(box)
	for y := y0; y < y1; y++ {
		for z := z0; z < z1; z++ {
			for x := x0; x < x1; x++ {
				if match(l.blocks[Index(x, y, z)]) {
					return true
				}
			}
		}
	}
	return false
}

// FlowingCount возвращает число клеток с текущей жидкостью
func (l *Level) FlowingCount() int {
	n := 0
	for _, t := range l.blocks {
		if tile.IsMoving(t) {
			n++
		}
	}
	return n
}

// cellRange возвращает диапазон клеток [floor(min), ceil(max)), пересекаемых
// боксом, ограниченный размерами уровня
func cellRange(box physics.AABB) (x0, y0, z0, x1, y1, z1 int) {
	x0, x1 = clampRange(int(math.Floor(box.Min[0])), int(math.Ceil(box.Max[0])), Width)
	y0, y1 = clampRange(int(math.Floor(box.Min[1])), int(math.Ceil(box.Max[1])), Height)
	z0, z1 = clampRange(int(math.Floor(box.Min[2])), int(math.Ceil(box.Max[2])), Depth)
	return
}
