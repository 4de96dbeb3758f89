package level

import (
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/go-gl/mathgl/mgl64"
)

// CalculateSpawnPosition вычисляет уровень воды, средний уровень земли и
// точку появления. Вызывается один раз после генерации.
func (l *Level) CalculateSpawnPosition() {
	l.WaterLevel = l.highestStillWater()

	sum := 0
	for z := 0; z < Depth; z++ {
		for x := 0; x < Width; x++ {
			sum += l.topSolid(x, z)
		}
	}
	l.GroundLevel = sum / (Width * Depth)

	cx, cz := Width/2, Depth/2
	l.Spawn = mgl64.Vec3{float64(cx) + 0.5, float64(l.topSolid(cx, cz)), float64(cz) + 0.5}

	found := spiral(cx, cz, func(x, z int) bool {
		top := l.topSolid(x, z)
		if top == 0 || top < l.WaterLevel || tile.IsLiquid(l.GetTile(x, top, z)) {
			return false
		}
		l.Spawn = mgl64.Vec3{float64(x) + 0.5, float64(top), float64(z) + 0.5}
		return true
	})

	l.log.Debug("точка появления %v (найдена: %v), вода %d, земля %d", l.Spawn, found, l.WaterLevel, l.GroundLevel)
}

func (l *Level) highestStillWater() int {
	for y := Height - 1; y >= 0; y-- {
		for z := 0; z < Depth; z++ {
			for x := 0; x < Width; x++ {
				if l.blocks[Index(x, y, z)] == tile.Water {
					return y
				}
			}
		}
	}
	return Height / 2
}

// topSolid возвращает y+1 самого верхнего твёрдого тайла столбца или 0
func (l *Level) topSolid(x, z int) int {
	for y := Height - 1; y >= 0; y-- {
		if tile.IsSolid(l.blocks[Index(x, y, z)]) {
			return y + 1
		}
	}
	return 0
}

// spiral обходит столбцы квадратной спиралью от (cx, cz), пока visit не
// вернёт true. Столбцы вне уровня пропускаются.
func spiral(cx, cz int, visit func(x, z int) bool) bool {
	x, z := cx, cz
	dx, dz := 1, 0
	step := 1
	for visited := 0; visited < Width*Depth; {
		for turn := 0; turn < 2; turn++ {
			for i := 0; i < step; i++ {
				if x >= 0 && z >= 0 && x < Width && z < Depth {
					visited++
					if visit(x, z) {
						return true
					}
				}
				x += dx
				z += dz
			}
			dx, dz = -dz, dx
		}
		step++
	}
	return false
}
