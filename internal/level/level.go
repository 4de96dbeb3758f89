package level

import (
	"github.com/annel0/voxel-level/internal/logging"
	"github.com/annel0/voxel-level/internal/tile"
	"github.com/go-gl/mathgl/mgl64"
)

// Размеры уровня в клетках
const (
	Width  = 128
	Height = 64
	Depth  = 128
)

// Config содержит параметры симуляции уровня
type Config struct {
	// MaxUpdatesPerTick ограничивает число обновлений за тик; 0 - без ограничения
	// (обрабатываются все записи, стоявшие в очереди на начало тика).
	MaxUpdatesPerTick int
	// WaterFlowDistance - максимальное растекание воды по горизонтали от источника
	WaterFlowDistance int
	// LavaFlowDistance - максимальное растекание лавы по горизонтали от источника
	LavaFlowDistance int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		MaxUpdatesPerTick: 0,
		WaterFlowDistance: 7,
		LavaFlowDistance:  3,
	}
}

// Listener получает уведомления об изменениях уровня. Вызывается
// синхронно в потоке симуляции, поэтому не должен блокироваться.
type Listener interface {
	// TileAdded вызывается после появления непустого тайла
	TileAdded(x, y, z int, t tile.Type)
	// TileRemoved вызывается после исчезновения тайла; previous - прежний тип
	TileRemoved(x, y, z int, previous tile.Type)
	// LightChanged вызывается, когда меняется глубина освещения столбца
	LightChanged(x, z, oldDepth, newDepth int)
}

// Stats содержит счетчики симуляции
type Stats struct {
	Ticks          uint64 // выполнено тиков
	UpdatesTotal   uint64 // обработано записей очереди
	LastTickUpdate int    // записей обработано в последнем тике
	QueueLength    int    // записей в очереди сейчас
}

// Level владеет сеткой тайлов и всеми производными данными.
// Level не потокобезопасен: все вызовы должны выполняться из одного
// потока симуляции.
type Level struct {
	cfg Config

	blocks      []tile.Type
	fluid       []uint8 // дистанция растекания жидкости от источника
	lightDepths []int
	lightDirty  []bool
	dirtyCount  int

	updates   *updateQueue
	listeners []Listener
	stats     Stats
	log       *logging.Logger

	GroundLevel int
	WaterLevel  int
	Spawn       mgl64.Vec3
}

// New создаёт пустой уровень (весь из воздуха)
func New(cfg Config) *Level {
	if cfg.WaterFlowDistance <= 0 {
		cfg.WaterFlowDistance = DefaultConfig().WaterFlowDistance
	}
	if cfg.LavaFlowDistance <= 0 {
		cfg.LavaFlowDistance = DefaultConfig().LavaFlowDistance
	}
	l := &Level{
		cfg: cfg,
		log: logging.GetLevelLogger(),
	}
	l.Init()
	return l
}

// Init выделяет хранилище уровня
func (l *Level) Init() {
	l.blocks = make([]tile.Type, Width*Height*Depth)
	l.fluid = make([]uint8, Width*Height*Depth)
	l.lightDepths = make([]int, Width*Depth)
	l.lightDirty = make([]bool, Width*Depth)
	l.dirtyCount = 0
	l.updates = newUpdateQueue(1024)
	l.stats = Stats{}
	l.WaterLevel = Height / 2
	l.GroundLevel = l.WaterLevel - 2
	l.Spawn = mgl64.Vec3{Width / 2, float64(Height), Depth / 2}
}

// Reset очищает уровень: воздух везде, пустая очередь, полный свет.
// Слушатели сохраняются.
func (l *Level) Reset() {
	clear(l.blocks)
	clear(l.fluid)
	clear(l.lightDepths)
	clear(l.lightDirty)
	l.dirtyCount = 0
	l.updates.Reset()
	l.stats = Stats{}
	l.WaterLevel = Height / 2
	l.GroundLevel = l.WaterLevel - 2
	l.Spawn = mgl64.Vec3{Width / 2, float64(Height), Depth / 2}
	l.log.Debug("уровень сброшен")
}

// Config возвращает конфигурацию уровня
func (l *Level) Config() Config {
	return l.cfg
}

// AddListener регистрирует слушателя изменений
func (l *Level) AddListener(listener Listener) {
	l.listeners = append(l.listeners, listener)
}

// Stats возвращает текущие счетчики симуляции
func (l *Level) Stats() Stats {
	s := l.stats
	s.QueueLength = l.updates.Len()
	return s
}
