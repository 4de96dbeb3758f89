package sync

import (
	"time"
)

// Producer передаёт локальные правки игроков в BatchManager.
type Producer struct {
	source string
	bm     *BatchManager
	clock  *editClock // nil - без разрешения конфликтов
}

// NewProducer создаёт продюсер узла source
func NewProducer(source string, bm *BatchManager) *Producer {
	return &Producer{source: source, bm: bm}
}

// Record ставит правку в очередь на репликацию. Пустые Source и
// Timestamp заполняются данными узла.
func (p *Producer) Record(e TileEdit) {
	if e.Source == "" {
		e.Source = p.source
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if p.clock != nil {
		p.clock.Observe(e)
	}
	p.bm.Add(e)
}
