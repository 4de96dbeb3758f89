package game

import (
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - Prometheus-метрики симуляции уровня. Реализует
// level.Listener для подсчёта появившихся и исчезнувших тайлов.
type Metrics struct {
	ticks        prometheus.Counter
	updates      prometheus.Counter
	queueLength  prometheus.Gauge
	tilesAdded   prometheus.Counter
	tilesRemoved prometheus.Counter
	lightChanges prometheus.Counter
	tickDuration prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "level_ticks_total",
			Help: "Число выполненных тиков симуляции.",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "level_tile_updates_total",
			Help: "Число обработанных записей очереди обновлений.",
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "level_update_queue_length",
			Help: "Длина очереди обновлений после кадра.",
		}),
		tilesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "level_tiles_added_total",
			Help: "Число появившихся тайлов.",
		}),
		tilesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "level_tiles_removed_total",
			Help: "Число исчезнувших тайлов.",
		}),
		lightChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "level_light_changes_total",
			Help: "Число изменений глубины освещения столбцов.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "level_tick_duration_seconds",
			Help:    "Длительность одного тика.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
	reg.MustRegister(m.ticks, m.updates, m.queueLength, m.tilesAdded, m.tilesRemoved, m.lightChanges, m.tickDuration)
	return m
}

func (m *Metrics) TileAdded(x, y, z int, t tile.Type)          { m.tilesAdded.Inc() }
func (m *Metrics) TileRemoved(x, y, z int, previous tile.Type) { m.tilesRemoved.Inc() }
func (m *Metrics) LightChanged(x, z, oldDepth, newDepth int)   { m.lightChanges.Inc() }
