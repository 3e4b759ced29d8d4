package util

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина: сглаживание, частота и количество октав.
// Одни и те же для всех каналов, чтобы генерация оставалась воспроизводимой.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = int32(3)
)

// NoiseGenerator владеет собственным экземпляром шума Перлина.
// Никакого глобального состояния: два генератора с одинаковым сидом
// всегда возвращают одинаковые значения, независимо от порядка вызовов.
type NoiseGenerator struct {
	perlin *perlin.Perlin
}

// NewNoiseGenerator создаёт генератор шума с указанным сидом
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	return &NoiseGenerator{
		perlin: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
	}
}

// Noise2D возвращает значение 2D шума для указанных координат (от 0 до 1)
func (ng *NoiseGenerator) Noise2D(x, y float64) float64 {
	// Получаем значение шума (от -1 до 1)
	noise := ng.perlin.Noise2D(x, y)

	// Преобразуем в диапазон от 0 до 1
	return (noise + 1.0) / 2.0
}

// Noise3D возвращает значение 3D шума в исходном диапазоне от -1 до 1
func (ng *NoiseGenerator) Noise3D(x, y, z float64) float64 {
	return ng.perlin.Noise3D(x, y, z)
}

// Hash2 детерминированно перемешивает сид и две координаты.
// Используется там, где нужна независимость соседних столбцов
// (расстановка деревьев), а не гладкость.
func Hash2(seed int64, x, z int) uint64 {
	ux := uint64(uint32(int32(x)))
	uz := uint64(uint32(int32(z)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uz * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// mix64 финальный этап перемешивания (splitmix64)
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
