package sync

import (
	"fmt"
	"time"

	"github.com/annel0/voxel-level/internal/eventbus"
	"github.com/annel0/voxel-level/internal/logging"
)

// Manager координирует работу компонентов репликации:
// BatchManager, Producer, Consumer.
type Manager struct {
	bm       *BatchManager
	producer *Producer
	consumer *Consumer
}

// Config - параметры репликации правок
type Config struct {
	NodeID     string
	Bus        eventbus.EventBus
	Executor   Executor
	BatchSize  int
	FlushEvery time.Duration
	Compress   bool             // сжимать пакеты zstd
	Resolver   ConflictResolver // по умолчанию LWW
}

// NewManager собирает и запускает компоненты репликации
func NewManager(cfg Config) (*Manager, error) {
	log := logging.GetSyncLogger()

	codec := NewRawCodec()
	if cfg.Compress {
		zc, err := NewZstdCodec()
		if err != nil {
			return nil, fmt.Errorf("sync codec: %w", err)
		}
		codec = zc
		log.Info("🔄 SyncManager: используется zstd-сжатие")
	} else {
		log.Info("🔄 SyncManager: сжатие отключено")
	}

	bm := NewBatchManager(cfg.Bus, cfg.NodeID, cfg.BatchSize, cfg.FlushEvery, codec)
	clock := newEditClock(cfg.Resolver)
	consumer, err := newConsumer(cfg.Bus, cfg.NodeID, codec, cfg.Executor, clock)
	if err != nil {
		bm.Stop()
		return nil, fmt.Errorf("sync consumer: %w", err)
	}

	log.Info("✅ SyncManager инициализирован: node=%s, batch=%d, flush=%v",
		cfg.NodeID, cfg.BatchSize, cfg.FlushEvery)

	return &Manager{
		bm:       bm,
		producer: &Producer{source: cfg.NodeID, bm: bm, clock: clock},
		consumer: consumer,
	}, nil
}

// Producer возвращает продюсер локальных правок
func (m *Manager) Producer() *Producer { return m.producer }

// ConsumerStats возвращает счётчики потребителя
func (m *Manager) ConsumerStats() ConsumerStats { return m.consumer.Stats() }

// Stop останавливает репликацию, отправив оставшиеся правки
func (m *Manager) Stop() {
	m.consumer.Stop()
	m.bm.Stop()
	logging.GetSyncLogger().Info("🔄 SyncManager остановлен")
}
