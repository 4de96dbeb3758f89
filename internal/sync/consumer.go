package sync

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/annel0/voxel-level/internal/eventbus"
	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/logging"
	"github.com/cespare/xxhash/v2"
)

// Executor выполняет функцию в потоке симуляции и дожидается её завершения
type Executor interface {
	Do(ctx context.Context, fn func(l *level.Level)) error
}

// ConsumerStats - счётчики потребителя
type ConsumerStats struct {
	Batches    uint64 // принятых пакетов
	Own        uint64 // отброшенных собственных пакетов
	Duplicates uint64 // повторно доставленных пакетов
	Applied    uint64 // применённых правок
	Skipped    uint64 // правок, не изменивших уровень
	Conflicts  uint64 // правок, проигравших более поздним правкам той же клетки
	Errors     uint64 // пакетов, которые не удалось декодировать или применить
}

// Consumer слушает пакеты правок других узлов и применяет их к уровню.
type Consumer struct {
	source string
	codec  EditCodec
	exec   Executor
	sub    eventbus.Subscription
	log    *logging.Logger

	seen  *seenSet
	clock *editClock // nil - без разрешения конфликтов

	batches, own, duplicates, applied, skipped, conflicts, errors atomic.Uint64
}

// NewConsumer подписывает потребителя узла source на пакеты правок
func NewConsumer(bus eventbus.EventBus, source string, codec EditCodec, exec Executor) (*Consumer, error) {
	return newConsumer(bus, source, codec, exec, nil)
}

func newConsumer(bus eventbus.EventBus, source string, codec EditCodec, exec Executor, clock *editClock) (*Consumer, error) {
	if codec == nil {
		codec = NewRawCodec()
	}
	c := &Consumer{
		source: source,
		codec:  codec,
		exec:   exec,
		log:    logging.GetSyncLogger(),
		seen:   newSeenSet(4096),
		clock:  clock,
	}
	sub, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.TypeTileEditBatch}}, c.handle)
	if err != nil {
		return nil, err
	}
	c.sub = sub
	return c, nil
}

func (c *Consumer) handle(ctx context.Context, ev *eventbus.Envelope) {
	if ev.Source == c.source {
		c.own.Add(1)
		return
	}
	if !c.seen.Add(xxhash.Sum64String(ev.ID)) {
		c.duplicates.Add(1)
		c.log.Debug("повтор пакета %s от %s", ev.ID, ev.Source)
		return
	}
	c.batches.Add(1)

	edits, err := c.codec.Decode(ev.Payload)
	if err != nil {
		c.errors.Add(1)
		c.log.Warn("Consumer decode error (%s от %s): %v", ev.ID, ev.Source, err)
		return
	}

	// отбор по часам правок и применение идут в одном кадре: пакет,
	// не попавший в цикл, не сдвигает часы
	var applied, skipped, rejected int
	err = c.exec.Do(ctx, func(l *level.Level) {
		admitted := edits
		if c.clock != nil {
			admitted, rejected = c.clock.Admit(edits)
		}
		applied, skipped = ApplyEdits(l, admitted)
	})
	if err != nil {
		c.errors.Add(1)
		c.log.Warn("Consumer: пакет %s не применён: %v", ev.ID, err)
		return
	}

	c.conflicts.Add(uint64(rejected))
	c.applied.Add(uint64(applied))
	c.skipped.Add(uint64(skipped))
	c.log.Debug("пакет %s от %s: применено %d, пропущено %d", ev.ID, ev.Source, applied, skipped)
}

// Stats возвращает счётчики потребителя
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		Batches:    c.batches.Load(),
		Own:        c.own.Load(),
		Duplicates: c.duplicates.Load(),
		Applied:    c.applied.Load(),
		Skipped:    c.skipped.Load(),
		Conflicts:  c.conflicts.Load(),
		Errors:     c.errors.Load(),
	}
}

// Stop отписывает потребителя от шины
func (c *Consumer) Stop() { c.sub.Unsubscribe() }

// seenSet хранит хэши последних идентификаторов пакетов; при
// переполнении вытесняются самые старые.
type seenSet struct {
	mu    sync.Mutex
	keys  map[uint64]struct{}
	order []uint64
	next  int
}

func newSeenSet(capacity int) *seenSet {
	return &seenSet{
		keys:  make(map[uint64]struct{}, capacity),
		order: make([]uint64, 0, capacity),
	}
}

// Add добавляет ключ; возвращает false, если ключ уже был
func (s *seenSet) Add(key uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return false
	}
	if len(s.order) < cap(s.order) {
		s.order = append(s.order, key)
	} else {
		delete(s.keys, s.order[s.next])
		s.order[s.next] = key
		s.next = (s.next + 1) % len(s.order)
	}
	s.keys[key] = struct{}{}
	return true
}
