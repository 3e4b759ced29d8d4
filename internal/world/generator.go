package world

import (
	"fmt"
	"math"

	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// GeneratorParams задаёт параметры рельефа. Нулевое значение непригодно,
// используйте DefaultGeneratorParams().
type GeneratorParams struct {
	SeaLevel      int     // Базовая высота поверхности
	HeightScale   float64 // Амплитуда отклонения рельефа от базовой высоты
	HeightFreq    float64 // Частота шума высот
	BiomeFreq     float64 // Частота биомного шума (ниже = крупнее биомы)
	CaveFreq      float64 // Частота пещерного 3D шума
	CaveThreshold float64 // Порог выреза пещер, 0 отключает пещеры
	ForestDensity float64 // Вероятность дерева на столбец в лесном биоме
}

// DefaultGeneratorParams возвращает параметры, дающие умеренно холмистый
// рельеф с пещерами и редкими деревьями
func DefaultGeneratorParams() GeneratorParams {
	return GeneratorParams{
		SeaLevel:      64,
		HeightScale:   48.0,
		HeightFreq:    0.01,
		BiomeFreq:     0.004,
		CaveFreq:      0.05,
		CaveThreshold: 0.12,
		ForestDensity: 0.04,
	}
}

// Biome перечисляет типы поверхности, определяющие верхние слои столбца
type Biome int

const (
	BiomePlains Biome = iota
	BiomeForest
	BiomeDesert
	BiomeMountains
)

// WorldGenerator детерминированно строит рельеф по сиду.
// Шум сэмплируется в мировых координатах, поэтому соседние чанки
// стыкуются без швов. Генератор не хранит изменяемого состояния
// и безопасен для параллельных вызовов GenerateChunk.
type WorldGenerator struct {
	seed   int64
	params GeneratorParams
	height *util.NoiseGenerator
	biome  *util.NoiseGenerator
	caves  *util.NoiseGenerator
	blocks generatorBlocks
}

// generatorBlocks кэширует ID блоков, разрешённые из реестра один раз
type generatorBlocks struct {
	stone, dirt, grass, sand, water, wood, leaves block.BlockID
}

// NewWorldGenerator создаёт генератор, разрешая нужные блоки в реестре.
// Возвращает ошибку, если какой-то из базовых блоков не зарегистрирован.
func NewWorldGenerator(seed int64, reg *block.Registry, params GeneratorParams) (*WorldGenerator, error) {
	var blocks generatorBlocks
	for _, b := range []struct {
		name string
		dst  *block.BlockID
	}{
		{"stone", &blocks.stone},
		{"dirt", &blocks.dirt},
		{"grass", &blocks.grass},
		{"sand", &blocks.sand},
		{"water", &blocks.water},
		{"wood", &blocks.wood},
		{"leaves", &blocks.leaves},
	} {
		id, err := reg.IDByName(b.name)
		if err != nil {
			return nil, fmt.Errorf("генератор: %w", err)
		}
		*b.dst = id
	}

	return &WorldGenerator{
		seed:   seed,
		params: params,
		height: util.NewNoiseGenerator(seed),
		biome:  util.NewNoiseGenerator(seed + 42),
		caves:  util.NewNoiseGenerator(seed + 1),
		blocks: blocks,
	}, nil
}

// Seed возвращает сид генератора
func (g *WorldGenerator) Seed() int64 {
	return g.seed
}

// HeightAt возвращает высоту поверхности для мирового столбца (wx, wz).
// Результат всегда в диапазоне [0, 255].
func (g *WorldGenerator) HeightAt(wx, wz int) int {
	noise := g.height.Noise2D(float64(wx)*g.params.HeightFreq, float64(wz)*g.params.HeightFreq)
	h := float64(g.params.SeaLevel) + (noise-0.5)*2.0*g.params.HeightScale
	hi := int(math.Floor(h))
	if hi < 0 {
		hi = 0
	}
	if hi > ChunkHeight-1 {
		hi = ChunkHeight - 1
	}
	return hi
}

// BiomeAt возвращает биом мирового столбца (wx, wz)
func (g *WorldGenerator) BiomeAt(wx, wz int) Biome {
	noise := g.biome.Noise2D(float64(wx)*g.params.BiomeFreq, float64(wz)*g.params.BiomeFreq)
	switch {
	case noise < 0.35:
		return BiomeDesert
	case noise > 0.8:
		return BiomeMountains
	case noise > 0.6:
		return BiomeForest
	default:
		return BiomePlains
	}
}

// GenerateChunk строит чанк по его координатам. Результат зависит
// только от сида, параметров и координат чанка.
func (g *WorldGenerator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)
	baseX := coords.X * ChunkSizeX
	baseZ := coords.Z * ChunkSizeZ

	for lz := 0; lz < ChunkSizeZ; lz++ {
		for lx := 0; lx < ChunkSizeX; lx++ {
			wx, wz := baseX+lx, baseZ+lz
			g.generateColumn(chunk, lx, lz, wx, wz)
		}
	}

	// Деревья ставим после рельефа, чтобы стволы ложились на готовую поверхность
	g.plantTrees(chunk, baseX, baseZ)

	// Свежесгенерированный чанк считается чистым до первого изменения
	chunk.MarkClean()
	return chunk
}

func (g *WorldGenerator) generateColumn(chunk *Chunk, lx, lz, wx, wz int) {
	surface := g.HeightAt(wx, wz)
	biome := g.BiomeAt(wx, wz)

	for y := 0; y <= surface; y++ {
		var id block.BlockID
		switch {
		case y == 0:
			// Дно мира всегда камень, пещеры его не прорезают
			id = g.blocks.stone
		case y == surface:
			switch biome {
			case BiomeDesert:
				id = g.blocks.sand
			case BiomeMountains:
				id = g.blocks.stone
			default:
				id = g.blocks.grass
			}
		case surface-y <= 3:
			switch biome {
			case BiomeDesert:
				id = g.blocks.sand
			case BiomeMountains:
				id = g.blocks.stone
			default:
				id = g.blocks.dirt
			}
		default:
			id = g.blocks.stone
		}

		if y > 0 && y < surface && g.isCave(wx, y, wz) {
			continue // воздух: Set не нужен
		}
		chunk.Set(lx, y, lz, id)
	}

	// Водная гладь в низинах
	for y := surface + 1; y <= g.params.SeaLevel && y < ChunkHeight; y++ {
		chunk.Set(lx, y, lz, g.blocks.water)
	}
}

// isCave проверяет, попадает ли воксел в пещерную полость
func (g *WorldGenerator) isCave(wx, y, wz int) bool {
	if g.params.CaveThreshold <= 0 {
		return false
	}
	n := g.caves.Noise3D(
		float64(wx)*g.params.CaveFreq,
		float64(y)*g.params.CaveFreq,
		float64(wz)*g.params.CaveFreq,
	)
	return math.Abs(n) < g.params.CaveThreshold
}

// plantTrees расставляет деревья в лесных столбцах чанка.
// Решение принимается хэшем мировых координат, а не шумом:
// соседние столбцы должны быть независимы.
func (g *WorldGenerator) plantTrees(chunk *Chunk, baseX, baseZ int) {
	if g.params.ForestDensity <= 0 {
		return
	}
	const trunkHeight = 4

	// Крона выходит за столбец ствола, поэтому держим отступ от границ чанка
	for lz := 2; lz < ChunkSizeZ-2; lz++ {
		for lx := 2; lx < ChunkSizeX-2; lx++ {
			wx, wz := baseX+lx, baseZ+lz
			if g.BiomeAt(wx, wz) != BiomeForest {
				continue
			}
			h := util.Hash2(g.seed, wx, wz)
			if float64(h%10000)/10000.0 >= g.params.ForestDensity {
				continue
			}

			surface := g.HeightAt(wx, wz)
			if surface <= g.params.SeaLevel || surface+trunkHeight+2 >= ChunkHeight {
				continue
			}
			if chunk.Get(lx, surface, lz) != g.blocks.grass {
				continue
			}

			for dy := 1; dy <= trunkHeight; dy++ {
				chunk.Set(lx, surface+dy, lz, g.blocks.wood)
			}
			top := surface + trunkHeight
			for dz := -1; dz <= 1; dz++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dz == 0 {
						continue
					}
					chunk.Set(lx+dx, top, lz+dz, g.blocks.leaves)
				}
			}
			chunk.Set(lx, top+1, lz, g.blocks.leaves)
		}
	}
}
