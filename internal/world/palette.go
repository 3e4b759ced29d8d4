package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/world/block"
)

// Palette отображает глобальные ID блоков на компактные локальные индексы чанка.
// Индекс 0 всегда занят первым добавленным блоком (для сгенерированных чанков
// это воздух либо единый блок равномерного чанка).
type Palette struct {
	blocks  []block.BlockID
	indices map[block.BlockID]uint32
}

// NewPalette создаёт палитру с единственной начальной записью
func NewPalette(initial block.BlockID) *Palette {
	return &Palette{
		blocks:  []block.BlockID{initial},
		indices: map[block.BlockID]uint32{initial: 0},
	}
}

// IndexFor возвращает локальный индекс блока, добавляя его при первом обращении.
// grew=true сигнализирует вызывающему, что палитра выросла и хранилищу
// может понадобиться расширение разрядности.
func (p *Palette) IndexFor(id block.BlockID) (idx uint32, grew bool) {
	if idx, ok := p.indices[id]; ok {
		return idx, false
	}

	idx = uint32(len(p.blocks))
	p.blocks = append(p.blocks, id)
	p.indices[id] = idx
	return idx, true
}

// BlockAt возвращает глобальный ID по локальному индексу.
// Индекс вне палитры — нарушение инварианта хранилища, поэтому паника.
func (p *Palette) BlockAt(idx uint32) block.BlockID {
	if int(idx) >= len(p.blocks) {
		panic(fmt.Sprintf("индекс палитры %d вне диапазона (размер %d)", idx, len(p.blocks)))
	}
	return p.blocks[idx]
}

// Size возвращает число различных блоков в палитре
func (p *Palette) Size() int {
	return len(p.blocks)
}

// Blocks возвращает копию записей палитры в порядке добавления
func (p *Palette) Blocks() []block.BlockID {
	out := make([]block.BlockID, len(p.blocks))
	copy(out, p.blocks)
	return out
}

// BitsFor возвращает разрядность, достаточную для size записей (минимум 1 бит)
func BitsFor(size int) int {
	bits := 1
	for (1 << bits) < size {
		bits++
	}
	return bits
}
