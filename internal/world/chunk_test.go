package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

func TestNewChunkIsUniformAir(t *testing.T) {
	c := NewChunk(vec.Vec2{X: 0, Z: 0})

	assert.True(t, c.IsUniform(), "Новый чанк должен быть равномерным")
	assert.Equal(t, 1, c.PaletteSize())
	assert.Equal(t, block.AirID, c.Get(0, 0, 0))
	assert.Equal(t, block.AirID, c.Get(15, 255, 15))
	assert.False(t, c.IsDirty())
}

func TestUniformSetSameBlockStaysUniform(t *testing.T) {
	stone := block.BlockID(1)
	c := NewUniformChunk(vec.Vec2{}, stone)

	c.Set(3, 10, 7, stone)

	assert.True(t, c.IsUniform(), "Запись того же блока не должна разворачивать чанк")
	assert.False(t, c.IsDirty())
}

func TestSetExpandsUniformChunk(t *testing.T) {
	stone := block.BlockID(1)
	c := NewChunk(vec.Vec2{X: 2, Z: -3})

	c.Set(5, 60, 9, stone)

	assert.False(t, c.IsUniform())
	assert.Equal(t, 2, c.PaletteSize())
	assert.Equal(t, 1, c.StorageBits())
	assert.Equal(t, stone, c.Get(5, 60, 9))
	// Остальные вокселы по-прежнему указывают на прежний блок
	assert.Equal(t, block.AirID, c.Get(5, 61, 9))
	assert.Equal(t, block.AirID, c.Get(0, 0, 0))
	assert.True(t, c.IsDirty())
}

func TestSetGetRoundTrip(t *testing.T) {
	c := NewChunk(vec.Vec2{})

	c.Set(0, 0, 0, block.BlockID(3))
	c.Set(15, 255, 15, block.BlockID(7))
	c.Set(8, 128, 8, block.BlockID(3))

	assert.Equal(t, block.BlockID(3), c.Get(0, 0, 0))
	assert.Equal(t, block.BlockID(7), c.Get(15, 255, 15))
	assert.Equal(t, block.BlockID(3), c.Get(8, 128, 8))
	assert.Equal(t, block.AirID, c.Get(1, 0, 0))
}

func TestRepackAcrossPowerOfTwoBoundaries(t *testing.T) {
	c := NewChunk(vec.Vec2{})

	// Раскладываем 20 различных блоков по разным воксельным позициям:
	// палитра растёт через границы 2 → 4 → 8 → 16 записей
	written := map[[3]int]block.BlockID{}
	for i := 1; i <= 20; i++ {
		x, y, z := i%16, i*7, (i*3)%16
		id := block.BlockID(i)
		c.Set(x, y, z, id)
		written[[3]int{x, y, z}] = id

		expectedBits := BitsFor(c.PaletteSize())
		assert.Equal(t, expectedBits, c.StorageBits(),
			"После %d блоков разрядность должна соответствовать палитре", i)
	}

	// Переупаковки не должны портить ранее записанные значения
	assert.Equal(t, 21, c.PaletteSize(), "20 блоков + воздух")
	assert.Equal(t, 5, c.StorageBits())
	for pos, id := range written {
		assert.Equal(t, id, c.Get(pos[0], pos[1], pos[2]), "позиция %v", pos)
	}
}

func TestCyclicEditsKeepPaletteBounded(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	c.Set(1, 1, 1, block.BlockID(500))

	// Один воксел циклически проходит через сотню разных блоков:
	// мёртвые записи палитры должны вычищаться при переупаковке
	for i := 1; i <= 100; i++ {
		c.Set(0, 0, 0, block.BlockID(i))
	}

	assert.LessOrEqual(t, c.PaletteSize(), 4,
		"Живых блоков три: воздух, 500 и последний записанный")
	assert.LessOrEqual(t, c.StorageBits(), 2)
	assert.Equal(t, block.BlockID(100), c.Get(0, 0, 0))
	assert.Equal(t, block.BlockID(500), c.Get(1, 1, 1))
	assert.Equal(t, block.AirID, c.Get(5, 5, 5))
}

func TestOutOfBoundsPanics(t *testing.T) {
	c := NewChunk(vec.Vec2{})

	assert.Panics(t, func() { c.Get(-1, 0, 0) })
	assert.Panics(t, func() { c.Get(16, 0, 0) })
	assert.Panics(t, func() { c.Get(0, 256, 0) })
	assert.Panics(t, func() { c.Get(0, -1, 0) })
	assert.Panics(t, func() { c.Get(0, 0, 16) })
	assert.Panics(t, func() { c.Set(0, 0, 16, block.AirID) })
}

func TestFillCollapsesToUniform(t *testing.T) {
	stone := block.BlockID(1)
	dirt := block.BlockID(2)
	c := NewChunk(vec.Vec2{})
	c.Set(3, 3, 3, stone)
	c.Set(4, 4, 4, dirt)
	require.False(t, c.IsUniform())

	c.Fill(stone)

	assert.True(t, c.IsUniform(), "Заливка возвращает равномерное представление")
	assert.Equal(t, 1, c.PaletteSize())
	assert.Equal(t, stone, c.Get(0, 0, 0))
	assert.Equal(t, stone, c.Get(15, 255, 15))
	assert.True(t, c.IsDirty())
}

func TestFillRegion(t *testing.T) {
	stone := block.BlockID(1)
	c := NewChunk(vec.Vec2{})

	c.FillRegion(2, 10, 2, 5, 12, 5, stone)

	for y := 10; y <= 12; y++ {
		for z := 2; z <= 5; z++ {
			for x := 2; x <= 5; x++ {
				assert.Equal(t, stone, c.Get(x, y, z))
			}
		}
	}
	assert.Equal(t, block.AirID, c.Get(1, 10, 2))
	assert.Equal(t, block.AirID, c.Get(2, 13, 2))
}

func TestForEachNonAir(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	c.Set(1, 2, 3, block.BlockID(4))
	c.Set(4, 5, 6, block.BlockID(2))

	visited := map[[3]int]block.BlockID{}
	c.ForEachNonAir(func(x, y, z int, id block.BlockID) {
		visited[[3]int{x, y, z}] = id
	})

	assert.Len(t, visited, 2)
	assert.Equal(t, block.BlockID(4), visited[[3]int{1, 2, 3}])
	assert.Equal(t, block.BlockID(2), visited[[3]int{4, 5, 6}])
}

func TestForEachNonAirUniform(t *testing.T) {
	air := NewChunk(vec.Vec2{})
	air.ForEachNonAir(func(_, _, _ int, _ block.BlockID) {
		t.Fatal("Воздушный чанк не должен перечислять вокселы")
	})

	stone := NewUniformChunk(vec.Vec2{}, block.BlockID(1))
	count := 0
	stone.ForEachNonAir(func(_, _, _ int, _ block.BlockID) { count++ })
	assert.Equal(t, ChunkVolume, count)
}

func TestCountSolid(t *testing.T) {
	reg := block.NewRegistry()
	require.NoError(t, block.RegisterDefaults(reg))
	stoneID, _ := reg.IDByName("stone")
	waterID, _ := reg.IDByName("water")

	c := NewChunk(vec.Vec2{})
	c.Set(0, 0, 0, stoneID)
	c.Set(1, 0, 0, stoneID)
	c.Set(2, 0, 0, waterID)

	assert.Equal(t, 2, c.CountSolid(reg), "Вода не твёрдая")
}

func TestDirtyFlag(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	assert.False(t, c.IsDirty())

	c.Set(0, 0, 0, block.BlockID(1))
	assert.True(t, c.IsDirty())

	c.MarkClean()
	assert.False(t, c.IsDirty())
}
