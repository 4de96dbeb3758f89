package level

import (
	"github.com/annel0/voxel-level/internal/logging"
	"github.com/annel0/voxel-level/internal/vec"
)

// updateQueue - FIFO-очередь позиций, ожидающих пересчета.
// Кольцевой буфер растёт по мере необходимости; записи не дедуплицируются.
type updateQueue struct {
	buf  []vec.Vec3
	head int
	size int
}

func newUpdateQueue(capacity int) *updateQueue {
	if capacity < 16 {
		capacity = 16
	}
	return &updateQueue{buf: make([]vec.Vec3, capacity)}
}

// Push добавляет позицию в конец очереди
func (q *updateQueue) Push(p vec.Vec3) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = p
	q.size++
}

// Pop извлекает позицию из начала очереди
func (q *updateQueue) Pop() (vec.Vec3, bool) {
	if q.size == 0 {
		return vec.Vec3{}, false
	}
	p := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return p, true
}

// Len возвращает число записей в очереди
func (q *updateQueue) Len() int {
	return q.size
}

// Reset очищает очередь, сохраняя буфер
func (q *updateQueue) Reset() {
	q.head = 0
	q.size = 0
}

func (q *updateQueue) grow() {
	next := make([]vec.Vec3, len(q.buf)*2)
	n := copy(next, q.buf[q.head:])
	copy(next[n:], q.buf[:q.head])
	q.buf = next
	q.head = 0
}

// UpdateTile запрашивает пересчет клетки. При deferred=false клетка
// пересчитывается немедленно, иначе ставится в очередь на следующий тик.
func (l *Level) UpdateTile(x, y, z int, deferred bool) {
	if !l.IsInBounds(x, y, z) {
		return
	}
	if deferred {
		l.updates.Push(vec.Of(x, y, z))
		return
	}
	l.evaluate(x, y, z)
}

// PendingUpdates возвращает число записей в очереди обновлений
func (l *Level) PendingUpdates() int {
	return l.updates.Len()
}

// Tick выполняет один тик симуляции: обрабатывает записи, стоявшие в очереди
// на начало тика (не более MaxUpdatesPerTick, если задано). Записи,
// добавленные во время обработки, ждут следующего тика.
// Возвращает число обработанных записей.
func (l *Level) Tick() int {
	limit := l.updates.Len()
	if max := l.cfg.MaxUpdatesPerTick; max > 0 && limit > max {
		limit = max
	}

	for i := 0; i < limit; i++ {
		p, ok := l.updates.Pop()
		if !ok {
			break
		}
		l.evaluate(p.X, p.Y, p.Z)
	}

	l.stats.Ticks++
	l.stats.UpdatesTotal += uint64(limit)
	l.stats.LastTickUpdate = limit

	if limit > 0 && l.log.Enabled(logging.TRACE) {
		l.log.Trace("тик %d: обработано %d обновлений, в очереди %d", l.stats.Ticks, limit, l.updates.Len())
	}
	return limit
}
