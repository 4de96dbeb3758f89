package level

import (
	"testing"

	"github.com/annel0/voxel-level/internal/tile"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestCalculateSpawnPosition_DryCentre(t *testing.T) {
	l := New(DefaultConfig())
	fillBox(l, 0, 0, 0, Width-1, 40, Depth-1, tile.Stone)

	l.CalculateSpawnPosition()

	assert.Equal(t, Height/2, l.WaterLevel, "Без воды уровень воды - половина высоты")
	assert.Equal(t, 41, l.GroundLevel)
	assert.Equal(t, mgl64.Vec3{64.5, 41, 64.5}, l.Spawn)
}

func TestCalculateSpawnPosition_SkipsFloodedColumns(t *testing.T) {
	l := New(DefaultConfig())
	fillBox(l, 0, 0, 0, Width-1, 29, Depth-1, tile.Stone)
	l.SetTile(Width/2, 30, Depth/2, tile.Water, true)

	l.CalculateSpawnPosition()

	assert.Equal(t, 30, l.WaterLevel)
	assert.Equal(t, 30, l.GroundLevel)
	assert.Equal(t, mgl64.Vec3{65.5, 30, 64.5}, l.Spawn, "Затопленный центр пропускается")
}

func TestCalculateSpawnPosition_NoDryLand(t *testing.T) {
	l := New(DefaultConfig())
	fillBox(l, 0, 0, 0, Width-1, 4, Depth-1, tile.Stone)
	fillBox(l, 0, 5, 0, Width-1, 9, Depth-1, tile.Water)

	l.CalculateSpawnPosition()

	assert.Equal(t, 9, l.WaterLevel)
	assert.Equal(t, 5, l.GroundLevel)
	assert.Equal(t, mgl64.Vec3{64.5, 5, 64.5}, l.Spawn, "Без суши точка появления - центр")
}

func TestSpiralVisitsEveryColumnOnce(t *testing.T) {
	seen := make(map[[2]int]int)
	found := spiral(Width/2, Depth/2, func(x, z int) bool {
		seen[[2]int{x, z}]++
		return false
	})

	assert.False(t, found)
	assert.Len(t, seen, Width*Depth)
	for p, n := range seen {
		if n != 1 {
			t.Errorf("столбец %v посещён %d раз", p, n)
		}
	}
}
