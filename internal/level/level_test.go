package level

import (
	"testing"

	"github.com/annel0/voxel-level/internal/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder записывает уведомления уровня
type recorder struct {
	added   []tile.Type
	removed []tile.Type
	light   [][4]int
}

func (r *recorder) TileAdded(x, y, z int, t tile.Type)          { r.added = append(r.added, t) }
func (r *recorder) TileRemoved(x, y, z int, previous tile.Type) { r.removed = append(r.removed, previous) }
func (r *recorder) LightChanged(x, z, oldDepth, newDepth int) {
	r.light = append(r.light, [4]int{x, z, oldDepth, newDepth})
}

// fillBox заполняет параллелепипед [x0,x1]×[y0,y1]×[z0,z1] массовой записью
func fillBox(l *Level, x0, y0, z0, x1, y1, z1 int, t tile.Type) {
	for y := y0; y <= y1; y++ {
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				l.SetTile(x, y, z, t, true)
			}
		}
	}
}

func TestLevel_NewIsEmpty(t *testing.T) {
	l := New(DefaultConfig())

	assert.Len(t, l.Blocks(), Width*Height*Depth, "Сетка должна покрывать весь уровень")
	assert.Equal(t, tile.Air, l.GetTile(0, 0, 0))
	assert.Equal(t, 0, l.LightDepth(10, 10), "Пустой столбец полностью освещён")
	assert.Equal(t, 0, l.PendingUpdates())
	assert.Equal(t, 7, l.Config().WaterFlowDistance)
	assert.Equal(t, 3, l.Config().LavaFlowDistance)
}

func TestLevel_ConfigDefaultsFlowDistances(t *testing.T) {
	l := New(Config{MaxUpdatesPerTick: 5})

	assert.Equal(t, 5, l.Config().MaxUpdatesPerTick)
	assert.Equal(t, 7, l.Config().WaterFlowDistance)
	assert.Equal(t, 3, l.Config().LavaFlowDistance)
}

func TestLevel_Reset(t *testing.T) {
	l := New(DefaultConfig())
	l.SetTile(1, 2, 3, tile.Stone, false)
	l.SetTileWithNeighborChange(4, 5, 6, tile.Dirt, false)
	l.Tick()
	require.NotEqual(t, 0, l.LightDepth(1, 3))

	l.Reset()

	assert.Equal(t, tile.Air, l.GetTile(1, 2, 3))
	assert.Equal(t, tile.Air, l.GetTile(4, 5, 6))
	assert.Equal(t, 0, l.LightDepth(1, 3))
	assert.Equal(t, 0, l.PendingUpdates())
	assert.Equal(t, uint64(0), l.Stats().Ticks)
}

func TestLevel_Checksum(t *testing.T) {
	crc := uint32(0xFFFFFFFF)
	for _, b := range []byte("123456789") {
		crc = crcUpdate(crc, b)
	}
	assert.Equal(t, uint32(0x0376E6E7), crc, "Контрольное значение CRC-32/MPEG-2")

	a := New(DefaultConfig())
	b := New(DefaultConfig())
	assert.Equal(t, a.Checksum(), b.Checksum(), "Одинаковые уровни дают одинаковую сумму")

	a.SetTile(5, 5, 5, tile.Stone, true)
	assert.NotEqual(t, a.Checksum(), b.Checksum())

	b.SetTile(5, 5, 5, tile.Stone, false)
	assert.Equal(t, a.Checksum(), b.Checksum(), "Режим записи не влияет на содержимое сетки")
}
