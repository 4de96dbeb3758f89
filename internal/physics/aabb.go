package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon - допуск для сравнения на границах клеток. Интервалы замкнутые.
const Epsilon = 1e-7

// AABB представляет ограничивающий прямоугольный параллелепипед,
// выровненный по осям, в мировых координатах.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB создаёт AABB из двух углов. Углы нормализуются, так что
// порядок аргументов не важен.
func NewAABB(a, b mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// TileAABB возвращает единичный куб клетки (x, y, z)
func TileAABB(x, y, z int) AABB {
	min := mgl64.Vec3{float64(x), float64(y), float64(z)}
	return AABB{Min: min, Max: min.Add(mgl64.Vec3{1, 1, 1})}
}

// Translate сдвигает AABB на вектор
func (b AABB) Translate(v mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Grow расширяет AABB на d во всех направлениях
func (b AABB) Grow(d float64) AABB {
	g := mgl64.Vec3{d, d, d}
	return AABB{Min: b.Min.Sub(g), Max: b.Max.Add(g)}
}

// Extend растягивает AABB в направлении движения v
func (b AABB) Extend(v mgl64.Vec3) AABB {
	out := b
	for i := 0; i < 3; i++ {
		if v[i] < 0 {
			out.Min[i] += v[i]
		} else {
			out.Max[i] += v[i]
		}
	}
	return out
}

// Intersects проверяет строгое пересечение объемов (касание гранями не считается)
func (b AABB) Intersects(o AABB) bool {
	return o.Max[0] > b.Min[0] && o.Min[0] < b.Max[0] &&
		o.Max[1] > b.Min[1] && o.Min[1] < b.Max[1] &&
		o.Max[2] > b.Min[2] && o.Min[2] < b.Max[2]
}

// Contains проверяет, лежит ли точка внутри AABB (границы включены)
func (b AABB) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// XOffset ограничивает смещение delta по оси X так, чтобы b не вошёл в o.
// Если проекции на Y и Z не пересекаются, delta возвращается без изменений.
func (b AABB) XOffset(o AABB, delta float64) float64 {
	if b.Max[1] <= o.Min[1] || b.Min[1] >= o.Max[1] || b.Max[2] <= o.Min[2] || b.Min[2] >= o.Max[2] {
		return delta
	}
	if delta > 0 && b.Max[0] <= o.Min[0] {
		if d := o.Min[0] - b.Max[0]; d < delta {
			delta = d
		}
	} else if delta < 0 && b.Min[0] >= o.Max[0] {
		if d := o.Max[0] - b.Min[0]; d > delta {
			delta = d
		}
	}
	return delta
}

// YOffset ограничивает смещение delta по оси Y
func (b AABB) YOffset(o AABB, delta float64) float64 {
	if b.Max[0] <= o.Min[0] || b.Min[0] >= o.Max[0] || b.Max[2] <= o.Min[2] || b.Min[2] >= o.Max[2] {
		return delta
	}
	if delta > 0 && b.Max[1] <= o.Min[1] {
		if d := o.Min[1] - b.Max[1]; d < delta {
			delta = d
		}
	} else if delta < 0 && b.Min[1] >= o.Max[1] {
		if d := o.Max[1] - b.Min[1]; d > delta {
			delta = d
		}
	}
	return delta
}

// ZOffset ограничивает смещение delta по оси Z
func (b AABB) ZOffset(o AABB, delta float64) float64 {
	if b.Max[0] <= o.Min[0] || b.Min[0] >= o.Max[0] || b.Max[1] <= o.Min[1] || b.Min[1] >= o.Max[1] {
		return delta
	}
	if delta > 0 && b.Max[2] <= o.Min[2] {
		if d := o.Min[2] - b.Max[2]; d < delta {
			delta = d
		}
	} else if delta < 0 && b.Min[2] >= o.Max[2] {
		if d := o.Max[2] - b.Min[2]; d > delta {
			delta = d
		}
	}
	return delta
}

// Intercept пересекает отрезок start→end с AABB методом плит.
// Возвращает параметр входа t в [0, 1], грань входа и признак попадания.
// Отрезки, начинающиеся внутри AABB, попаданием не считаются.
func (b AABB) Intercept(start, end mgl64.Vec3) (float64, Face, bool) {
	dir := end.Sub(start)
	tEnter, tExit := math.Inf(-1), math.Inf(1)
	face := FaceNone

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			if start[axis] < b.Min[axis]-Epsilon || start[axis] > b.Max[axis]+Epsilon {
				return 0, FaceNone, false
			}
			continue
		}
		t1 := (b.Min[axis] - start[axis]) / dir[axis]
		t2 := (b.Max[axis] - start[axis]) / dir[axis]
		near, far := t1, t2
		entry := negativeFace(axis)
		if dir[axis] < 0 {
			near, far = t2, t1
			entry = positiveFace(axis)
		}
		if near > tEnter {
			tEnter = near
			face = entry
		}
		if far < tExit {
			tExit = far
		}
	}

	if face == FaceNone || tEnter > tExit+Epsilon {
		return 0, FaceNone, false
	}
	if tEnter < -Epsilon || tEnter > 1+Epsilon {
		return 0, FaceNone, false
	}
	return math.Max(tEnter, 0), face, true
}
