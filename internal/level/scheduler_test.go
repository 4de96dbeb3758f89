package level

import (
	"testing"

	"github.com/annel0/voxel-level/internal/tile"
	"github.com/annel0/voxel-level/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQueue_FIFOAndGrowth(t *testing.T) {
	q := newUpdateQueue(4)

	// сдвигаем голову, чтобы рост происходил через границу буфера
	for i := 0; i < 10; i++ {
		q.Push(vec.Of(i, 0, 0))
	}
	for i := 0; i < 5; i++ {
		p, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, p.X)
	}
	for i := 10; i < 60; i++ {
		q.Push(vec.Of(i, 0, 0))
	}

	assert.Equal(t, 55, q.Len())
	for i := 5; i < 60; i++ {
		p, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, p.X, "Порядок FIFO должен сохраняться")
	}

	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push(vec.Of(1, 1, 1))
	q.Reset()
	assert.Equal(t, 0, q.Len())
}

func TestTick_DrainsOnlyEntriesPresentAtStart(t *testing.T) {
	l := New(DefaultConfig())
	l.SetTile(10, 20, 10, tile.FlowingWater, false)
	l.UpdateTile(10, 20, 10, true)
	require.Equal(t, 1, l.PendingUpdates())

	processed := l.Tick()

	assert.Equal(t, 1, processed)
	assert.True(t, l.IsMovingWaterTile(10, 19, 10))
	// новая клетка и сам источник ждут следующего тика
	assert.Equal(t, 2, l.PendingUpdates())
	assert.Equal(t, uint64(1), l.Stats().Ticks)
	assert.Equal(t, uint64(1), l.Stats().UpdatesTotal)
	assert.Equal(t, 2, l.Stats().QueueLength)
}

func TestTick_RespectsMaxUpdatesPerTick(t *testing.T) {
	l := New(Config{MaxUpdatesPerTick: 3})
	l.SetTileWithNeighborChange(5, 5, 5, tile.Stone, false)
	require.Equal(t, 7, l.PendingUpdates())

	assert.Equal(t, 3, l.Tick())
	assert.Equal(t, 4, l.PendingUpdates())
	assert.Equal(t, 3, l.Tick())
	assert.Equal(t, 1, l.Tick())
	assert.Equal(t, 0, l.Tick())
}

func TestUpdateTile_Immediate(t *testing.T) {
	l := New(DefaultConfig())
	l.SetTile(10, 20, 10, tile.Water, false)

	l.UpdateTile(10, 20, 10, false)

	assert.True(t, l.IsMovingWaterTile(10, 19, 10), "Немедленное обновление применяется сразу")
	assert.True(t, l.IsMovingWaterTile(10, 20, 10))

	l.UpdateTile(-1, 0, 0, true)
	l.UpdateTile(0, Height, 0, false)
	assert.Equal(t, 2, l.PendingUpdates(), "Клетки вне уровня игнорируются")
}
