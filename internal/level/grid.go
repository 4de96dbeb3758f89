package level

import "github.com/annel0/voxel-level/internal/tile"

// Линейный индекс клетки: index = (y*Depth + z)*Width + x.
// Порядок фиксирован и используется всеми компонентами.

// Index переводит координаты клетки в линейный индекс.
// Вызывающий обязан проверить IsInBounds.
func Index(x, y, z int) int {
	return (y*Depth+z)*Width + x
}

// Coords переводит линейный индекс обратно в координаты
func Coords(index int) (x, y, z int) {
	x = index % Width
	z = (index / Width) % Depth
	y = index / (Width * Depth)
	return
}

// columnIndex возвращает индекс столбца (x, z) в массиве глубин освещения
func columnIndex(x, z int) int {
	return x + z*Width
}

// InBounds проверяет, лежит ли клетка внутри уровня
func InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < Width && y < Height && z < Depth
}

// IsInBounds проверяет, лежит ли клетка внутри уровня
func (l *Level) IsInBounds(x, y, z int) bool {
	return InBounds(x, y, z)
}

// GetTile возвращает тип тайла или воздух за пределами уровня
func (l *Level) GetTile(x, y, z int) tile.Type {
	if !l.IsInBounds(x, y, z) {
		return tile.Air
	}
	return l.blocks[Index(x, y, z)]
}

// GetRenderTile возвращает тип, которым тайл отображается
func (l *Level) GetRenderTile(x, y, z int) tile.Type {
	return tile.Render(l.GetTile(x, y, z))
}

// Blocks возвращает сырые данные сетки. Срез нельзя изменять.
func (l *Level) Blocks() []tile.Type {
	return l.blocks
}

// IsAirTile проверяет, является ли клетка воздухом
func (l *Level) IsAirTile(x, y, z int) bool {
	return tile.IsAir(l.GetTile(x, y, z))
}
