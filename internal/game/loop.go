package game

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Состояния задачи Do
const (
	taskQueued int32 = iota
	taskStarted
	taskAbandoned
)

// ErrStopped возвращается, если цикл завершился до выполнения задачи
var ErrStopped = errors.New("game: цикл симуляции остановлен")

// Config - параметры цикла симуляции
type Config struct {
	TicksPerSecond   int           // частота тиков (по умолчанию 20)
	MaxTicksPerFrame int           // предел тиков за кадр (по умолчанию 100)
	FrameInterval    time.Duration // период кадров (по умолчанию 10мс)
	TaskQueue        int           // размер очереди задач Exec (по умолчанию 1024)
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		TicksPerSecond:   20,
		MaxTicksPerFrame: 100,
		FrameInterval:    10 * time.Millisecond,
		TaskQueue:        1024,
	}
}

// Loop владеет уровнем и выполняет симуляцию в одной горутине.
// Другие горутины обращаются к уровню только через Exec/Do.
type Loop struct {
	level   *level.Level
	cfg     Config
	timer   *Timer
	tasks   chan func(*level.Level)
	stopped chan struct{}
	metrics *Metrics
	tracer  trace.Tracer
	log     *logging.Logger
}

// New создаёт цикл для уровня. metrics может быть nil.
func New(l *level.Level, cfg Config, metrics *Metrics) *Loop {
	def := DefaultConfig()
	if cfg.TicksPerSecond <= 0 {
		cfg.TicksPerSecond = def.TicksPerSecond
	}
	if cfg.MaxTicksPerFrame <= 0 {
		cfg.MaxTicksPerFrame = def.MaxTicksPerFrame
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = def.FrameInterval
	}
	if cfg.TaskQueue <= 0 {
		cfg.TaskQueue = def.TaskQueue
	}

	lp := &Loop{
		level:   l,
		cfg:     cfg,
		timer:   NewTimer(cfg.TicksPerSecond, cfg.MaxTicksPerFrame),
		tasks:   make(chan func(*level.Level), cfg.TaskQueue),
		stopped: make(chan struct{}),
		metrics: metrics,
		tracer:  otel.Tracer("github.com/annel0/voxel-level/internal/game"),
		log:     logging.GetLoopLogger(),
	}
	if metrics != nil {
		l.AddListener(metrics)
	}
	return lp
}

// Exec ставит функцию в очередь; она выполнится в горутине цикла между
// кадрами. Возвращает false, если цикл уже остановлен.
func (lp *Loop) Exec(fn func(*level.Level)) bool {
	select {
	case <-lp.stopped:
		return false
	default:
	}
	select {
	case lp.tasks <- fn:
		return true
	case <-lp.stopped:
		return false
	}
}

// Do выполняет функцию в горутине цикла и дожидается её завершения.
// Если ctx истёк раньше, чем цикл взялся за задачу, функция не выполняется
// вовсе; начатая задача всегда дожидается завершения.
func (lp *Loop) Do(ctx context.Context, fn func(*level.Level)) error {
	var state atomic.Int32 // taskQueued -> taskStarted | taskAbandoned
	done := make(chan struct{})
	ok := lp.Exec(func(l *level.Level) {
		defer close(done)
		if !state.CompareAndSwap(taskQueued, taskStarted) {
			return
		}
		fn(l)
	})
	if !ok {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ctx.Err()
		}
		<-done
		return nil
	case <-lp.stopped:
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ErrStopped
		}
		<-done
		return nil
	}
}

// Run выполняет кадры до отмены контекста
func (lp *Loop) Run(ctx context.Context) error {
	defer close(lp.stopped)

	ticker := time.NewTicker(lp.cfg.FrameInterval)
	defer ticker.Stop()

	lp.timer.Update()
	lp.log.Info("▶️ цикл симуляции запущен: %d TPS, кадр %v", lp.cfg.TicksPerSecond, lp.cfg.FrameInterval)

	for {
		select {
		case <-ctx.Done():
			lp.runTasks()
			lp.log.Info("⏹ цикл симуляции остановлен после %d тиков", lp.timer.Ticks())
			return nil
		case <-ticker.C:
			lp.Step()
		}
	}
}

// Step выполняет один кадр: задачи Exec, затем тики, накопленные таймером.
// Возвращает число выполненных тиков.
func (lp *Loop) Step() int {
	return lp.frame(lp.timer.Update())
}

// StepTicks выполняет кадр с заданным числом тиков, не обращаясь к таймеру
func (lp *Loop) StepTicks(ticks int) int {
	return lp.frame(ticks)
}

func (lp *Loop) frame(ticks int) int {
	lp.runTasks()
	if ticks <= 0 {
		return 0
	}

	_, span := lp.tracer.Start(context.Background(), "level.frame")
	defer span.End()

	updates := 0
	for i := 0; i < ticks; i++ {
		start := time.Now()
		updates += lp.level.Tick()
		lp.timer.Tick()
		if lp.metrics != nil {
			lp.metrics.tickDuration.Observe(time.Since(start).Seconds())
		}
	}

	queue := lp.level.PendingUpdates()
	span.SetAttributes(
		attribute.Int("level.ticks", ticks),
		attribute.Int("level.updates", updates),
		attribute.Int("level.queue", queue),
	)
	if lp.metrics != nil {
		lp.metrics.ticks.Add(float64(ticks))
		lp.metrics.updates.Add(float64(updates))
		lp.metrics.queueLength.Set(float64(queue))
	}
	if queue > 10000 {
		lp.log.Debug("длинная очередь обновлений: %d", queue)
	}
	return ticks
}

// runTasks выполняет все задачи, поставленные до начала кадра
func (lp *Loop) runTasks() {
	for n := len(lp.tasks); n > 0; n-- {
		fn := <-lp.tasks
		fn(lp.level)
	}
}

// Ticks возвращает число выполненных тиков
func (lp *Loop) Ticks() uint64 {
	return lp.timer.Ticks()
}
