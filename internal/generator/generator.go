package generator

import (
	"math/rand"
	"time"

	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/logging"
	"github.com/annel0/voxel-level/internal/tile"
)

// Config содержит параметры генерации
type Config struct {
	Seed          int64   // сид шума и случайных чисел
	NoiseScale    float64 // масштаб шума высот
	Amplitude     int     // разброс высот вокруг уровня воды
	LavaPockets   int     // число карманов лавы в камне
	FlowerDensity float64 // вероятность цветка на траве (0..1)
	OreDensity    float64 // вероятность руды в камне (0..1)
}

// DefaultConfig возвращает параметры генерации по умолчанию
func DefaultConfig() Config {
	return Config{
		Seed:          12345,
		NoiseScale:    0.03,
		Amplitude:     12,
		LavaPockets:   12,
		FlowerDensity: 0.02,
		OreDensity:    0.01,
	}
}

// Generator строит уровень из шума Перлина
type Generator struct {
	cfg   Config
	noise *heightNoise
	log   *logging.Logger
}

// New создаёт генератор
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NoiseScale <= 0 {
		cfg.NoiseScale = def.NoiseScale
	}
	if cfg.Amplitude <= 0 {
		cfg.Amplitude = def.Amplitude
	}
	return &Generator{
		cfg:   cfg,
		noise: newHeightNoise(cfg.Seed),
		log:   logging.GetComponentLogger("generator"),
	}
}

// Generate заполняет уровень массовыми записями, затем пересчитывает
// освещение и точку появления.
func (g *Generator) Generate(l *level.Level) {
	start := time.Now()
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	waterLevel := level.Height / 2

	l.Reset()

	heights := make([]int, level.Width*level.Depth)
	for z := 0; z < level.Depth; z++ {
		for x := 0; x < level.Width; x++ {
			h := g.surfaceHeight(x, z, waterLevel)
			heights[x+z*level.Width] = h
			g.fillColumn(l, rng, x, z, h, waterLevel)
		}
	}

	g.placeLavaPockets(l, rng, heights)

	l.CalculateLightDepths(0, 0, level.Width, level.Depth)
	l.CalculateSpawnPosition()

	g.log.Info("уровень сгенерирован за %v (seed=%d, spawn=%v)", time.Since(start), g.cfg.Seed, l.Spawn)
}

// surfaceHeight возвращает y верхнего тайла земли столбца
func (g *Generator) surfaceHeight(x, z, waterLevel int) int {
	n := g.noise.At(float64(x)*g.cfg.NoiseScale, float64(z)*g.cfg.NoiseScale)
	h := waterLevel - 2 + int((n-0.5)*2*float64(g.cfg.Amplitude))
	if h < 4 {
		h = 4
	}
	if h > level.Height-3 {
		h = level.Height - 3
	}
	return h
}

func (g *Generator) fillColumn(l *level.Level, rng *rand.Rand, x, z, surface, waterLevel int) {
	l.SetTile(x, 0, z, tile.Bedrock, true)

	for y := 1; y <= surface; y++ {
		var t tile.Type
		switch {
		case y < surface-3:
			t = g.stoneOrOre(rng, y)
		case y < surface:
			t = tile.Dirt
		case surface < waterLevel:
			t = tile.Sand
		default:
			t = tile.Grass
		}
		l.SetTile(x, y, z, t, true)
	}

	if surface < waterLevel {
		for y := surface + 1; y <= waterLevel; y++ {
			l.SetTile(x, y, z, tile.Water, true)
		}
		return
	}

	if rng.Float64() < g.cfg.FlowerDensity {
		flower := tile.Dandelion
		if rng.Intn(2) == 0 {
			flower = tile.Rose
		}
		l.SetTile(x, surface+1, z, flower, true)
	}
}

// stoneOrOre выбирает камень или руду; золото встречается только глубоко
func (g *Generator) stoneOrOre(rng *rand.Rand, y int) tile.Type {
	if rng.Float64() >= g.cfg.OreDensity {
		return tile.Stone
	}
	switch r := rng.Intn(10); {
	case r < 6:
		return tile.CoalOre
	case r < 9 || y > 12:
		return tile.IronOre
	default:
		return tile.GoldOre
	}
}

// placeLavaPockets вырезает в камне небольшие карманы неподвижной лавы
func (g *Generator) placeLavaPockets(l *level.Level, rng *rand.Rand, heights []int) {
	placed := 0
	for i := 0; i < g.cfg.LavaPockets; i++ {
		x := 1 + rng.Intn(level.Width-2)
		z := 1 + rng.Intn(level.Depth-2)
		top := heights[x+z*level.Width] - 5
		if top < 2 {
			continue
		}
		y := 1 + rng.Intn(top-1)

		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				px, pz := x+dx, z+dz
				if l.GetTile(px, y, pz) == tile.Stone && y+1 < heights[px+pz*level.Width]-3 {
					l.SetTile(px, y, pz, tile.Lava, true)
				}
			}
		}
		placed++
	}
	g.log.Debug("карманов лавы: %d", placed)
}
