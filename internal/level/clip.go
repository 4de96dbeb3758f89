package level

import (
	"github.com/annel0/voxel-level/internal/physics"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/annel0/voxel-level/internal/vec"
	"github.com/go-gl/mathgl/mgl64"
)

// Clip находит первое пересечение отрезка start→end с твёрдыми тайлами
// и жидкостями. expected - подсказка: клетка, проверяемая первой
// (обычно опорный блок сущности). Подсказка не влияет на результат.
func (l *Level) Clip(start, end mgl64.Vec3, expected *vec.Vec3) physics.AABBPosition {
	return l.clip(start, end, expected, func(t tile.Type) bool {
		return tile.IsSolid(t) || tile.IsLiquid(t)
	})
}

// ClipSolid работает как Clip, но пропускает жидкости (выбор блока игроком)
func (l *Level) ClipSolid(start, end mgl64.Vec3, expected *vec.Vec3) physics.AABBPosition {
	return l.clip(start, end, expected, tile.IsSolid)
}

func (l *Level) clip(start, end mgl64.Vec3, expected *vec.Vec3, match func(tile.Type) bool) physics.AABBPosition {
	var best physics.AABBPosition

	consider := func(p vec.Vec3) {
		if !l.IsInBounds(p.X, p.Y, p.Z) || !match(l.blocks[Index(p.X, p.Y, p.Z)]) {
			return
		}
		t, face, ok := physics.TileAABB(p.X, p.Y, p.Z).Intercept(start, end)
		if !ok {
			return
		}
		// при равном t побеждает меньшая клетка в порядке (y, z, x)
		if best.Hit && (t > best.T || (t == best.T && !p.Less(best.Tile))) {
			return
		}
		best = physics.AABBPosition{Hit: true, Tile: p, Face: face, T: t}
	}

	if expected != nil {
		consider(*expected)
	}

	x0, y0, z0, x1, y1, z1 := cellRange(physics.NewAABB(start, end).Grow(physics.Epsilon))
	for y := y0; y < y1; y++ {
		for z := z0; z < z1; z++ {
			for x := x0; x < x1; x++ {
				consider(vec.Of(x, y, z))
			}
		}
	}

	if best.Hit {
		best.Position = start.Add(end.Sub(start).Mul(best.T))
	}
	return best
}

// GetTileAABB возвращает боксы твёрдых тайлов, пересекающих box.
// Порядок перечисления: x, затем y, затем z по возрастанию.
func (l *Level) GetTileAABB(box physics.AABB) []physics.AABB {
	var boxes []physics.AABB
	l.forEachSolid(box, func(x, y, z int) {
		boxes = append(boxes, physics.TileAABB(x, y, z))
	})
	return boxes
}

// GetTileAABBCount возвращает число твёрдых тайлов, пересекающих box
func (l *Level) GetTileAABBCount(box physics.AABB) int {
	n := 0
	l.forEachSolid(box, func(int, int, int) { n++ })
	return n
}

func (l *Level) forEachSolid(box physics.AABB, f func(x, y, z int)) {
	x0, y0, z0, x1, y1, z1 := cellRange(box)
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			for z := z0; z < z1; z++ {
				if tile.IsSolid(l.blocks[Index(x, y, z)]) {
					f(x, y, z)
				}
			}
		}
	}
}
