package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Размеры чанка: колонна 16×16 блоков на всю высоту мира
const (
	ChunkSizeX  = 16
	ChunkSizeZ  = 16
	ChunkHeight = 256
	ChunkVolume = ChunkSizeX * ChunkSizeZ * ChunkHeight
)

// Chunk хранит блоки колонны 16×256×16 в палитровом сжатии.
// Равномерный чанк (один вид блока) вообще не выделяет повоксельное
// хранилище: storage == nil означает "весь чанк = palette[0]".
//
// Chunk не синхронизирован: доступ сериализуется менеджером чанков.
type Chunk struct {
	Coords  vec.Vec2
	palette *Palette
	storage *BitStorage
	dirty   bool
}

// NewChunk создаёт чанк, равномерно заполненный воздухом
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{
		Coords:  coords,
		palette: NewPalette(block.AirID),
	}
}

// NewUniformChunk создаёт чанк, равномерно заполненный указанным блоком
func NewUniformChunk(coords vec.Vec2, id block.BlockID) *Chunk {
	return &Chunk{
		Coords:  coords,
		palette: NewPalette(id),
	}
}

// voxelIndex вычисляет линейный индекс воксела: сначала Y, потом Z, потом X.
// Блоки одного горизонтального среза лежат подряд.
func voxelIndex(x, y, z int) int {
	return y<<8 | z<<4 | x
}

func checkLocal(x, y, z int) {
	if x < 0 || x >= ChunkSizeX || y < 0 || y >= ChunkHeight || z < 0 || z >= ChunkSizeZ {
		panic(fmt.Sprintf("локальные координаты (%d, %d, %d) вне чанка", x, y, z))
	}
}

// Get возвращает ID блока по локальным координатам чанка
func (c *Chunk) Get(x, y, z int) block.BlockID {
	checkLocal(x, y, z)
	if c.storage == nil {
		return c.palette.BlockAt(0)
	}
	return c.palette.BlockAt(c.storage.Get(voxelIndex(x, y, z)))
}

// Set записывает блок по локальным координатам, расширяя палитру
// и хранилище по мере необходимости
func (c *Chunk) Set(x, y, z int, id block.BlockID) {
	checkLocal(x, y, z)

	if c.storage == nil {
		// Равномерный чанк: запись того же блока ничего не меняет
		if id == c.palette.BlockAt(0) {
			return
		}
		// Разворачиваем в повоксельное хранилище: нули уже указывают
		// на прежний единый блок (индекс 0)
		c.storage = NewBitStorage(1, ChunkVolume, nil)
	}

	idx, grew := c.palette.IndexFor(id)
	if grew && BitsFor(c.palette.Size()) > c.storage.Bits() {
		// Перед расширением выбрасываем мёртвые записи: циклические правки
		// иначе раздували бы палитру и разрядность без ограничения
		if c.compact() {
			idx, _ = c.palette.IndexFor(id)
		}
		if BitsFor(c.palette.Size()) > c.storage.Bits() {
			c.storage = c.storage.Resize(BitsFor(c.palette.Size()))
			paletteRepacksTotal.Inc()
		}
	}

	c.storage.Set(voxelIndex(x, y, z), idx)
	c.dirty = true
}

// compact перестраивает палитру и хранилище, выбрасывая записи,
// на которые не ссылается ни один воксел. Запись 0 сохраняется всегда:
// она якорь представления. Возвращает true, если палитра уменьшилась.
func (c *Chunk) compact() bool {
	if c.storage == nil {
		return false
	}

	used := make([]bool, c.palette.Size())
	used[0] = true
	for i := 0; i < ChunkVolume; i++ {
		used[c.storage.Get(i)] = true
	}

	compacted := NewPalette(c.palette.BlockAt(0))
	remap := make([]uint32, c.palette.Size())
	dropped := false
	for i := 0; i < c.palette.Size(); i++ {
		if !used[i] {
			dropped = true
			continue
		}
		idx, _ := compacted.IndexFor(c.palette.BlockAt(uint32(i)))
		remap[i] = idx
	}
	if !dropped {
		return false
	}

	narrower := NewBitStorage(BitsFor(compacted.Size()), ChunkVolume, nil)
	for i := 0; i < ChunkVolume; i++ {
		narrower.Set(i, remap[c.storage.Get(i)])
	}
	c.palette = compacted
	c.storage = narrower
	return true
}

// Fill заливает весь чанк одним блоком, возвращая его
// к равномерному представлению без повоксельного хранилища
func (c *Chunk) Fill(id block.BlockID) {
	if c.storage == nil && id == c.palette.BlockAt(0) {
		return
	}
	c.palette = NewPalette(id)
	c.storage = nil
	c.dirty = true
}

// FillRegion заполняет прямоугольный объём одним блоком (границы включительно)
func (c *Chunk) FillRegion(x0, y0, z0, x1, y1, z1 int, id block.BlockID) {
	checkLocal(x0, y0, z0)
	checkLocal(x1, y1, z1)
	for y := y0; y <= y1; y++ {
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				c.Set(x, y, z, id)
			}
		}
	}
}

// IsUniform сообщает, хранится ли чанк в равномерном представлении
func (c *Chunk) IsUniform() bool {
	return c.storage == nil
}

// PaletteSize возвращает число различных блоков в палитре чанка
func (c *Chunk) PaletteSize() int {
	return c.palette.Size()
}

// StorageBits возвращает текущую разрядность хранилища (0 для равномерного чанка)
func (c *Chunk) StorageBits() int {
	if c.storage == nil {
		return 0
	}
	return c.storage.Bits()
}

// ForEachNonAir вызывает fn для каждого блока, отличного от воздуха.
// Используется мешером и подсчётом статистики.
func (c *Chunk) ForEachNonAir(fn func(x, y, z int, id block.BlockID)) {
	if c.storage == nil {
		id := c.palette.BlockAt(0)
		if id == block.AirID {
			return
		}
		for y := 0; y < ChunkHeight; y++ {
			for z := 0; z < ChunkSizeZ; z++ {
				for x := 0; x < ChunkSizeX; x++ {
					fn(x, y, z, id)
				}
			}
		}
		return
	}

	for y := 0; y < ChunkHeight; y++ {
		for z := 0; z < ChunkSizeZ; z++ {
			for x := 0; x < ChunkSizeX; x++ {
				id := c.palette.BlockAt(c.storage.Get(voxelIndex(x, y, z)))
				if id != block.AirID {
					fn(x, y, z, id)
				}
			}
		}
	}
}

// CountSolid возвращает число твёрдых блоков в чанке
func (c *Chunk) CountSolid(reg *block.Registry) int {
	count := 0
	c.ForEachNonAir(func(_, _, _ int, id block.BlockID) {
		if reg.IsSolid(id) {
			count++
		}
	})
	return count
}

// IsDirty сообщает, изменялся ли чанк с последнего MarkClean
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkClean сбрасывает флаг изменений (после генерации или сохранения)
func (c *Chunk) MarkClean() {
	c.dirty = false
}
