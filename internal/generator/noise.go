package generator

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	noiseAlpha   = 2.0 // сглаживание
	noiseBeta    = 2.0 // частота
	noiseOctaves = 3
)

// heightNoise - шум Перлина, нормализованный в диапазон [0, 1]
type heightNoise struct {
	p *perlin.Perlin
}

func newHeightNoise(seed int64) *heightNoise {
	return &heightNoise{p: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)}
}

// At возвращает значение шума для точки (от 0 до 1)
func (n *heightNoise) At(x, z float64) float64 {
	v := (n.p.Noise2D(x, z) + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
