package sync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/annel0/voxel-level/internal/eventbus"
	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLWWResolver(t *testing.T) {
	now := time.Now()
	r := NewLWWResolver()

	assert.True(t, r.Resolve(Conflict{
		Local:  TileEdit{Source: "a", Timestamp: now},
		Remote: TileEdit{Source: "b", Timestamp: now.Add(time.Millisecond)},
	}))
	assert.False(t, r.Resolve(Conflict{
		Local:  TileEdit{Source: "b", Timestamp: now},
		Remote: TileEdit{Source: "a", Timestamp: now.Add(-time.Millisecond)},
	}))

	// При равном времени результат одинаков с обеих сторон
	ab := r.Resolve(Conflict{Local: TileEdit{Source: "a", Timestamp: now}, Remote: TileEdit{Source: "b", Timestamp: now}})
	ba := r.Resolve(Conflict{Local: TileEdit{Source: "b", Timestamp: now}, Remote: TileEdit{Source: "a", Timestamp: now}})
	assert.NotEqual(t, ab, ba)
}

func TestEditClock_Admit(t *testing.T) {
	now := time.Now()
	ec := newEditClock(nil)
	ec.Observe(TileEdit{X: 1, Y: 1, Z: 1, Type: tile.Stone, Source: "local", Timestamp: now})

	admitted, rejected := ec.Admit([]TileEdit{
		{X: 1, Y: 1, Z: 1, Type: tile.Dirt, Source: "remote", Timestamp: now.Add(-time.Second)},
		{X: 2, Y: 1, Z: 1, Type: tile.Dirt, Source: "remote", Timestamp: now.Add(-time.Second)},
		{X: -5, Y: 1, Z: 1, Type: tile.Dirt, Source: "remote", Timestamp: now},
	})

	assert.Equal(t, 1, rejected, "Старая правка не перезаписывает более позднюю локальную")
	require.Len(t, admitted, 2)
	assert.Equal(t, 2, admitted[0].X)
	assert.Equal(t, -5, admitted[1].X, "Правки вне уровня отсеет ApplyEdits")

	admitted, rejected = ec.Admit([]TileEdit{
		{X: 1, Y: 1, Z: 1, Type: tile.Glass, Source: "remote", Timestamp: now.Add(time.Second)},
	})
	assert.Zero(t, rejected)
	assert.Len(t, admitted, 1)
}

func TestManager_ResolvesConcurrentEdits(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	local := level.New(level.DefaultConfig())
	exec := &directExecutor{l: local}

	m, err := NewManager(Config{NodeID: "a", Bus: bus, Executor: exec, BatchSize: 16, FlushEvery: time.Hour})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, exec.Do(context.Background(), func(l *level.Level) {
		l.SetTileWithNeighborChange(4, 4, 4, tile.Stone, false)
	}))
	m.Producer().Record(TileEdit{X: 4, Y: 4, Z: 4, Type: tile.Stone, Timestamp: now})

	codec := NewRawCodec()
	stale, err := codec.Encode([]TileEdit{
		{X: 4, Y: 4, Z: 4, Type: tile.Sand, Source: "b", Timestamp: now.Add(-time.Second)},
		{X: 5, Y: 4, Z: 4, Type: tile.Sand, Source: "b", Timestamp: now.Add(-time.Second)},
	})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), eventbus.NewEnvelope("b", eventbus.TypeTileEditBatch, stale)))

	require.Eventually(t, func() bool { return m.ConsumerStats().Applied == 1 }, time.Second, 5*time.Millisecond)
	m.Stop()
	require.NoError(t, bus.Close())

	assert.Equal(t, tile.Stone, local.GetTile(4, 4, 4))
	assert.Equal(t, tile.Sand, local.GetTile(5, 4, 4))

	stats := m.ConsumerStats()
	assert.EqualValues(t, 1, stats.Conflicts)
	assert.EqualValues(t, 1, stats.Applied)
}

// failingExecutor отказывает первым задачам, не выполняя их
type failingExecutor struct {
	directExecutor
	fail atomic.Int32
}

func (f *failingExecutor) Do(ctx context.Context, fn func(l *level.Level)) error {
	if f.fail.Add(-1) >= 0 {
		return context.DeadlineExceeded
	}
	return f.directExecutor.Do(ctx, fn)
}

func TestConsumer_FailedBatchDoesNotAdvanceClock(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	defer bus.Close()
	l := level.New(level.DefaultConfig())
	exec := &failingExecutor{directExecutor: directExecutor{l: l}}
	exec.fail.Store(1)

	c, err := newConsumer(bus, "a", NewRawCodec(), exec, newEditClock(nil))
	require.NoError(t, err)
	defer c.Stop()

	publish := func(e TileEdit) {
		payload, err := NewRawCodec().Encode([]TileEdit{e})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), eventbus.NewEnvelope(e.Source, eventbus.TypeTileEditBatch, payload)))
	}

	now := time.Now().UTC()
	publish(TileEdit{X: 4, Y: 4, Z: 4, Type: tile.Sand, Source: "b", Timestamp: now})
	require.Eventually(t, func() bool { return c.Stats().Errors == 1 }, time.Second, 5*time.Millisecond)

	publish(TileEdit{X: 4, Y: 4, Z: 4, Type: tile.Glass, Source: "c", Timestamp: now.Add(-time.Second)})
	require.Eventually(t, func() bool { return c.Stats().Applied == 1 }, time.Second, 5*time.Millisecond)

	assert.Zero(t, c.Stats().Conflicts, "Неприменённый пакет не участвует в разрешении конфликтов")
	require.NoError(t, exec.Do(context.Background(), func(l *level.Level) {
		assert.Equal(t, tile.Glass, l.GetTile(4, 4, 4))
	}))
}
