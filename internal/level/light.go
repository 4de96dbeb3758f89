package level

import "github.com/annel0/voxel-level/internal/tile"

// Яркость тайлов
const (
	brightnessLit       float32 = 1.0
	brightnessUnlit     float32 = 0.6
	brightnessSubmerged float32 = 0.8
)

// CalculateLightDepths пересчитывает глубину освещения для прямоугольника
// столбцов [x, x+offsetX) × [z, z+offsetZ). Глубина столбца равна y+1
// самого верхнего светонепроницаемого тайла или 0, если таких нет.
func (l *Level) CalculateLightDepths(x, z, offsetX, offsetZ int) {
	x0, x1 := clampRange(x, x+offsetX, Width)
	z0, z1 := clampRange(z, z+offsetZ, Depth)

	for cz := z0; cz < z1; cz++ {
		for cx := x0; cx < x1; cx++ {
			l.setLightDepth(cx, cz, l.scanColumn(cx, cz, Height-1))
		}
	}
}

// LightDepth возвращает глубину освещения столбца. Грязные столбцы
// пересчитываются при обращении.
func (l *Level) LightDepth(x, z int) int {
	if x < 0 || z < 0 || x >= Width || z >= Depth {
		return 0
	}
	col := columnIndex(x, z)
	if l.lightDirty[col] {
		l.lightDirty[col] = false
		l.dirtyCount--
		l.lightDepths[col] = l.scanColumn(x, z, Height-1)
	}
	return l.lightDepths[col]
}

// refreshLightDepth пересчитывает грязный столбец с уведомлением слушателей
func (l *Level) refreshLightDepth(x, z int) {
	if l.lightDirty[columnIndex(x, z)] {
		l.setLightDepth(x, z, l.scanColumn(x, z, Height-1))
	}
}

// IsTileLit проверяет, освещён ли тайл. За пределами уровня всё освещено.
func (l *Level) IsTileLit(x, y, z int) bool {
	if !l.IsInBounds(x, y, z) {
		return true
	}
	return y >= l.LightDepth(x, z)
}

// GetTileBrightness возвращает яркость тайла для отрисовки
func (l *Level) GetTileBrightness(x, y, z int) float32 {
	if tile.IsLava(l.GetTile(x, y, z)) {
		return brightnessLit
	}

	b := brightnessUnlit
	if l.IsTileLit(x, y, z) {
		b = brightnessLit
	}
	if tile.IsLiquid(l.GetTile(x, y+1, z)) {
		b *= brightnessSubmerged
	}
	return b
}

// DirtyLightColumns возвращает число столбцов, ожидающих пересчета
func (l *Level) DirtyLightColumns() int {
	return l.dirtyCount
}

// scanColumn ищет сверху вниз, начиная с top, первый светонепроницаемый тайл
func (l *Level) scanColumn(x, z, top int) int {
	for y := top; y >= 0; y-- {
		if tile.BlocksLight(l.blocks[Index(x, y, z)]) {
			return y + 1
		}
	}
	return 0
}

// setLightDepth записывает глубину и уведомляет слушателей об изменении
func (l *Level) setLightDepth(x, z, depth int) {
	col := columnIndex(x, z)
	if l.lightDirty[col] {
		l.lightDirty[col] = false
		l.dirtyCount--
	}
	old := l.lightDepths[col]
	if old == depth {
		return
	}
	l.lightDepths[col] = depth
	for _, listener := range l.listeners {
		listener.LightChanged(x, z, old, depth)
	}
}

func (l *Level) markLightDirty(x, z int) {
	col := columnIndex(x, z)
	if !l.lightDirty[col] {
		l.lightDirty[col] = true
		l.dirtyCount++
	}
}

// clampRange ограничивает полуинтервал [from, to) диапазоном [0, limit)
func clampRange(from, to, limit int) (int, int) {
	if from > to {
		from, to = to, from
	}
	if from < 0 {
		from = 0
	}
	if to > limit {
		to = limit
	}
	return from, to
}
