package sync

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/annel0/voxel-level/internal/eventbus"
	"github.com/annel0/voxel-level/internal/logging"
)

// BatchManager накапливает правки и отправляет их пакетами через EventBus.
// Каждый узел имеет собственный экземпляр.
type BatchManager struct {
	mu       sync.Mutex
	buf      []TileEdit
	capacity int

	flushEvery time.Duration
	bus        eventbus.EventBus
	source     string // имя текущего узла
	codec      EditCodec
	log        *logging.Logger

	full     chan struct{}
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewBatchManager создаёт менеджер с указанным лимитом буфера и интервалом отправки.
// Пакет отправляется по таймеру или сразу при заполнении буфера.
func NewBatchManager(bus eventbus.EventBus, source string, capacity int, flushEvery time.Duration, codec EditCodec) *BatchManager {
	if codec == nil {
		codec = NewRawCodec()
	}
	if capacity <= 0 {
		capacity = 256
	}
	if flushEvery <= 0 {
		flushEvery = 100 * time.Millisecond
	}
	bm := &BatchManager{
		capacity:   capacity,
		flushEvery: flushEvery,
		bus:        bus,
		source:     source,
		codec:      codec,
		log:        logging.GetSyncLogger(),
		full:       make(chan struct{}, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go bm.loop()
	return bm
}

// Add добавляет правку в буфер
func (bm *BatchManager) Add(e TileEdit) {
	bm.mu.Lock()
	bm.buf = append(bm.buf, e)
	full := len(bm.buf) >= bm.capacity
	bm.mu.Unlock()

	if full {
		select {
		case bm.full <- struct{}{}:
		default:
		}
	}
}

// Pending возвращает число правок, ожидающих отправки
func (bm *BatchManager) Pending() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return len(bm.buf)
}

func (bm *BatchManager) loop() {
	ticker := time.NewTicker(bm.flushEvery)
	defer ticker.Stop()
	defer close(bm.done)

	for {
		select {
		case <-ticker.C:
			bm.Flush()
		case <-bm.full:
			bm.Flush()
		case <-bm.quit:
			return
		}
	}
}

// Flush отсылает накопленные правки единым сообщением.
func (bm *BatchManager) Flush() {
	bm.mu.Lock()
	if len(bm.buf) == 0 {
		bm.mu.Unlock()
		return
	}
	edits := make([]TileEdit, len(bm.buf))
	copy(edits, bm.buf)
	bm.buf = bm.buf[:0]
	bm.mu.Unlock()

	payload, err := bm.codec.Encode(edits)
	if err != nil {
		bm.log.Warn("BatchManager encode error: %v", err)
		return
	}

	env := eventbus.NewEnvelope(bm.source, eventbus.TypeTileEditBatch, payload)
	env.Priority = 5
	env.Metadata = map[string]string{"edits": strconv.Itoa(len(edits))}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bm.bus.Publish(ctx, env); err != nil {
		bm.log.Warn("BatchManager publish error: %v", err)
		return
	}
	bm.log.Trace("отправлен пакет %s: %d правок, %d байт", env.ID, len(edits), len(payload))
}

// Stop завершает работу менеджера и отправляет оставшиеся правки.
func (bm *BatchManager) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.quit)
		<-bm.done
		bm.Flush()
	})
}
