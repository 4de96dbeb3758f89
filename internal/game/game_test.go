package game

import (
	"context"
	"testing"
	"time"

	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_CarriesRemainder(t *testing.T) {
	timer := NewTimer(20, 100)
	now := time.Unix(1000, 0)

	assert.Equal(t, 0, timer.Advance(now), "Первый вызов только запоминает время")
	assert.Equal(t, 2, timer.Advance(now.Add(100*time.Millisecond)))
	assert.Equal(t, 0, timer.Advance(now.Add(125*time.Millisecond)))
	assert.InDelta(t, 0.5, timer.Partial(), 1e-9)
	assert.Equal(t, 1, timer.Advance(now.Add(150*time.Millisecond)), "Остаток переносится между кадрами")
	assert.Equal(t, 100, timer.Advance(now.Add(time.Hour)), "После паузы число тиков ограничено")
	assert.Equal(t, 50*time.Millisecond, timer.TickDuration())
}

func TestLoop_ExecRunsBeforeTicks(t *testing.T) {
	l := level.New(level.DefaultConfig())
	lp := New(l, DefaultConfig(), nil)

	require.True(t, lp.Exec(func(l *level.Level) {
		l.SetTileWithNeighborChange(10, 20, 10, tile.Water, false)
	}))
	assert.Equal(t, tile.Air, l.GetTile(10, 20, 10), "Задача ждёт кадра")

	assert.Equal(t, 1, lp.StepTicks(1))
	assert.True(t, l.IsMovingWaterTile(10, 19, 10), "Вода стекла в том же кадре")
	assert.Equal(t, uint64(1), lp.Ticks())
}

func TestLoop_MetricsAndListener(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	l := level.New(level.DefaultConfig())
	lp := New(l, DefaultConfig(), m)

	lp.Exec(func(l *level.Level) {
		l.SetTileWithNeighborChange(3, 3, 3, tile.Stone, false)
		l.SetTileWithNeighborChange(3, 3, 3, tile.Air, false)
	})
	lp.StepTicks(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 14.0, testutil.ToFloat64(m.updates), "Две правки по семь записей")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.queueLength))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tilesAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tilesRemoved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lightChanges))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tickDuration))
}

func TestLoop_RunAndDo(t *testing.T) {
	l := level.New(level.DefaultConfig())
	lp := New(l, Config{TicksPerSecond: 100, FrameInterval: time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lp.Run(ctx) }()

	var changed bool
	err := lp.Do(context.Background(), func(l *level.Level) {
		changed = l.SetTileWithNeighborChange(1, 1, 1, tile.Glass, false)
	})
	require.NoError(t, err)
	assert.True(t, changed)

	require.Eventually(t, func() bool {
		var pending int
		if err := lp.Do(context.Background(), func(l *level.Level) { pending = l.PendingUpdates() }); err != nil {
			return false
		}
		return pending == 0
	}, 2*time.Second, 5*time.Millisecond, "Цикл обрабатывает очередь без внешних вызовов")

	cancel()
	require.NoError(t, <-done)

	assert.False(t, lp.Exec(func(*level.Level) {}))
	assert.ErrorIs(t, lp.Do(context.Background(), func(*level.Level) {}), ErrStopped)
}

func TestLoop_DoHonoursContext(t *testing.T) {
	lp := New(level.New(level.DefaultConfig()), DefaultConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ran := false
	err := lp.Do(ctx, func(*level.Level) { ran = true })
	assert.ErrorIs(t, err, context.DeadlineExceeded, "Без работающего цикла задача не выполняется")

	// просроченная задача остаётся в очереди, но кадр её пропускает
	lp.StepTicks(0)
	assert.False(t, ran, "Задача с истёкшим контекстом не должна выполняться позже")
}

func TestLoop_DoSkipsExpiredEdit(t *testing.T) {
	l := level.New(level.DefaultConfig())
	lp := New(l, DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := lp.Do(ctx, func(l *level.Level) {
		l.SetTileWithNeighborChange(4, 4, 4, tile.Stone, false)
	})
	require.ErrorIs(t, err, context.Canceled)

	lp.StepTicks(1)
	assert.Equal(t, tile.Air, l.GetTile(4, 4, 4), "Отменённая правка не применяется")
}
