package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами
type Vec3 struct {
	X int
	Y int
	Z int
}

// Стороны куба в порядке: низ, верх, север (-Z), юг (+Z), запад (-X), восток (+X).
var faceOffsets = [6]Vec3{
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
}

// horizontalOffsets - соседи в плоскости XZ
var horizontalOffsets = [4]Vec3{
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
}

// Of создает Vec3 из трех координат
func Of(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// DistanceTo возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return float64(dx*dx + dy*dy + dz*dz)
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Below возвращает позицию под вектором
func (v Vec3) Below() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// Above возвращает позицию над вектором
func (v Vec3) Above() Vec3 {
	return Vec3{X: v.X, Y: v.Y + 1, Z: v.Z}
}

// Neighbours вызывает f для всех шести соседей по граням.
// Порядок фиксирован (низ, верх, север, юг, запад, восток) - от него зависит
// порядок постановки в очередь обновлений.
func (v Vec3) Neighbours(f func(n Vec3)) {
	for _, off := range faceOffsets {
		f(v.Add(off))
	}
}

// HorizontalNeighbours вызывает f для четырех соседей в плоскости XZ
func (v Vec3) HorizontalNeighbours(f func(n Vec3)) {
	for _, off := range horizontalOffsets {
		f(v.Add(off))
	}
}

// Less задает канонический порядок позиций: сначала Y, затем Z, затем X.
func (v Vec3) Less(other Vec3) bool {
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	if v.Z != other.Z {
		return v.Z < other.Z
	}
	return v.X < other.X
}
