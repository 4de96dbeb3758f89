package game

import "time"

// Timer переводит прошедшее реальное время в число тиков фиксированной
// частоты. Остаток переносится между кадрами.
type Timer struct {
	ticksPerSecond float64
	maxTicks       int

	last    time.Time
	partial float64 // доля незавершённого тика, 0..1
	ticks   uint64
}

// NewTimer создаёт таймер. maxTicks ограничивает число тиков за кадр
// (после долгой паузы лишние тики отбрасываются).
func NewTimer(ticksPerSecond, maxTicks int) *Timer {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 20
	}
	if maxTicks <= 0 {
		maxTicks = 100
	}
	return &Timer{ticksPerSecond: float64(ticksPerSecond), maxTicks: maxTicks}
}

// Update возвращает число тиков, прошедших с прошлого вызова
func (t *Timer) Update() int {
	return t.Advance(time.Now())
}

// Advance работает как Update, но с явным моментом времени
func (t *Timer) Advance(now time.Time) int {
	if t.last.IsZero() {
		t.last = now
		return 0
	}
	elapsed := now.Sub(t.last).Seconds()
	t.last = now
	if elapsed < 0 {
		elapsed = 0
	}

	t.partial += elapsed * t.ticksPerSecond
	n := int(t.partial)
	t.partial -= float64(n)
	if n > t.maxTicks {
		n = t.maxTicks
	}
	return n
}

// Partial возвращает долю незавершённого тика (для интерполяции)
func (t *Timer) Partial() float64 {
	return t.partial
}

// Tick отмечает выполненный тик
func (t *Timer) Tick() {
	t.ticks++
}

// Ticks возвращает число выполненных тиков
func (t *Timer) Ticks() uint64 {
	return t.ticks
}

// TickDuration возвращает длительность одного тика
func (t *Timer) TickDuration() time.Duration {
	return time.Duration(float64(time.Second) / t.ticksPerSecond)
}
