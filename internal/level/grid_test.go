package level

import (
	"testing"

	"github.com/annel0/voxel-level/internal/tile"
	"github.com/stretchr/testify/assert"
)

func TestIndexRoundTrip(t *testing.T) {
	seen := make(map[int]bool)
	for y := 0; y < Height; y += 7 {
		for z := 0; z < Depth; z += 13 {
			for x := 0; x < Width; x += 11 {
				idx := Index(x, y, z)
				assert.False(t, seen[idx], "Индекс %d выдан дважды", idx)
				seen[idx] = true

				cx, cy, cz := Coords(idx)
				assert.Equal(t, [3]int{x, y, z}, [3]int{cx, cy, cz})
			}
		}
	}

	assert.Equal(t, 0, Index(0, 0, 0))
	assert.Equal(t, Width*Height*Depth-1, Index(Width-1, Height-1, Depth-1))
}

func TestGrid_WriteThenRead(t *testing.T) {
	l := New(DefaultConfig())

	cases := []struct {
		x, y, z int
		t       tile.Type
	}{
		{0, 0, 0, tile.Bedrock},
		{Width - 1, Height - 1, Depth - 1, tile.Glass},
		{64, 32, 64, tile.Water},
		{3, 7, 120, tile.Rose},
	}
	for _, c := range cases {
		l.SetTile(c.x, c.y, c.z, c.t, false)
		assert.Equal(t, c.t, l.GetTile(c.x, c.y, c.z), "Тайл (%d,%d,%d) должен читаться сразу после записи", c.x, c.y, c.z)
	}
}

func TestGrid_OutOfBounds(t *testing.T) {
	l := New(DefaultConfig())
	before := l.Checksum()

	outside := [][3]int{
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{Width, 0, 0}, {0, Height, 0}, {0, 0, Depth},
	}
	for _, p := range outside {
		assert.False(t, l.IsInBounds(p[0], p[1], p[2]))
		for i := 0; i < 2; i++ {
			l.SetTile(p[0], p[1], p[2], tile.Stone, false)
			assert.False(t, l.SetTileWithNeighborChange(p[0], p[1], p[2], tile.Stone, false))
			assert.False(t, l.SetTileWithNoNeighborChange(p[0], p[1], p[2], tile.Stone, false))
		}
		assert.Equal(t, tile.Air, l.GetTile(p[0], p[1], p[2]), "За пределами уровня читается воздух")
	}

	assert.Equal(t, before, l.Checksum(), "Запись за пределами уровня ничего не меняет")
	assert.Equal(t, 0, l.PendingUpdates())
}

func TestGrid_RenderTile(t *testing.T) {
	l := New(DefaultConfig())
	l.SetTile(1, 1, 1, tile.FlowingWater, true)
	l.SetTile(2, 1, 1, tile.FlowingLava, true)
	l.SetTile(3, 1, 1, tile.Stone, true)

	assert.Equal(t, tile.Water, l.GetRenderTile(1, 1, 1))
	assert.Equal(t, tile.Lava, l.GetRenderTile(2, 1, 1))
	assert.Equal(t, tile.Stone, l.GetRenderTile(3, 1, 1))
	assert.Equal(t, tile.FlowingWater, l.GetTile(1, 1, 1), "Логический тип не меняется")
}
