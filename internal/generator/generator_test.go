package generator

import (
	"testing"

	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := level.New(level.DefaultConfig())
	b := level.New(level.DefaultConfig())

	New(Config{Seed: 42}).Generate(a)
	New(Config{Seed: 42}).Generate(b)

	assert.Equal(t, a.Checksum(), b.Checksum(), "Один сид - один уровень")
	assert.Equal(t, a.Spawn, b.Spawn)

	New(Config{Seed: 43}).Generate(b)
	assert.NotEqual(t, a.Checksum(), b.Checksum())
}

func TestGenerate_Layers(t *testing.T) {
	l := level.New(level.DefaultConfig())
	New(DefaultConfig()).Generate(l)

	for z := 0; z < level.Depth; z += 9 {
		for x := 0; x < level.Width; x += 9 {
			assert.Equal(t, tile.Bedrock, l.GetTile(x, 0, z), "Дно уровня - бедрок")
			assert.Equal(t, tile.Air, l.GetTile(x, level.Height-1, z), "Верх уровня свободен")
		}
	}

	assert.Equal(t, 0, l.PendingUpdates(), "Генерация не ставит обновления в очередь")
	assert.Equal(t, 0, l.DirtyLightColumns(), "Освещение пересчитано после генерации")
	assert.Equal(t, 0, l.FlowingCount(), "Вся жидкость после генерации неподвижна")
}

func TestGenerate_SpawnOnDryLand(t *testing.T) {
	l := level.New(level.DefaultConfig())
	New(Config{Seed: 7}).Generate(l)

	x, y, z := int(l.Spawn[0]), int(l.Spawn[1]), int(l.Spawn[2])
	require.True(t, l.IsInBounds(x, y-1, z))
	assert.True(t, tile.IsSolid(l.GetTile(x, y-1, z)), "Под точкой появления твёрдый тайл")
	assert.False(t, tile.IsLiquid(l.GetTile(x, y, z)))
	assert.GreaterOrEqual(t, y, l.WaterLevel)
	assert.Greater(t, l.GroundLevel, 0)
}

func TestGenerate_WaterReachesWaterLevel(t *testing.T) {
	l := level.New(level.DefaultConfig())
	New(Config{Seed: 7}).Generate(l)

	assert.Equal(t, level.Height/2, l.WaterLevel)
	for z := 0; z < level.Depth; z++ {
		for x := 0; x < level.Width; x++ {
			if tile.IsWater(l.GetTile(x, l.WaterLevel-1, z)) {
				assert.True(t, tile.IsWater(l.GetTile(x, l.WaterLevel, z)), "Озеро в (%d,%d) заполнено до уровня воды", x, z)
			}
			assert.False(t, tile.IsWater(l.GetTile(x, l.WaterLevel+1, z)), "Вода не выше уровня воды")
		}
	}
}

func TestHeightNoiseRange(t *testing.T) {
	n := newHeightNoise(1)
	for i := 0; i < 200; i++ {
		v := n.At(float64(i)*0.37, float64(i)*0.11)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
