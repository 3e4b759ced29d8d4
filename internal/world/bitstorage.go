package world

import (
	"fmt"
	"math"
)

// BitStorage хранит массив значений фиксированной разрядности,
// упакованных в слова uint64. Значения не пересекают границы слов:
// в каждом слове помещается 64/bits значений, остаток не используется.
type BitStorage struct {
	data          []uint64
	bits          int
	length        int
	mask          uint64
	valuesPerLong int
}

// NewBitStorage создаёт хранилище на length значений по bits бит каждое.
// Если words не nil, данные переиспользуются (при декодировании снапшота).
func NewBitStorage(bits, length int, words []uint64) *BitStorage {
	if bits <= 0 || bits > 32 {
		panic(fmt.Sprintf("недопустимая разрядность хранилища: %d", bits))
	}
	valuesPerLong := 64 / bits
	wordCount := (length + valuesPerLong - 1) / valuesPerLong

	if words == nil {
		words = make([]uint64, wordCount)
	} else if len(words) != wordCount {
		panic(fmt.Sprintf("несоответствие размера данных: получено %d слов, ожидалось %d", len(words), wordCount))
	}

	return &BitStorage{
		data:          words,
		bits:          bits,
		length:        length,
		mask:          (1 << bits) - 1,
		valuesPerLong: valuesPerLong,
	}
}

func (b *BitStorage) calcIndex(n int) (word, offset int) {
	word = n / b.valuesPerLong
	offset = (n - word*b.valuesPerLong) * b.bits
	return word, offset
}

// Get возвращает значение по индексу n
func (b *BitStorage) Get(n int) uint32 {
	if n < 0 || n >= b.length {
		panic(fmt.Sprintf("индекс %d вне хранилища (длина %d)", n, b.length))
	}
	word, offset := b.calcIndex(n)
	return uint32((b.data[word] >> offset) & b.mask)
}

// Set записывает значение v по индексу n
func (b *BitStorage) Set(n int, v uint32) {
	if n < 0 || n >= b.length {
		panic(fmt.Sprintf("индекс %d вне хранилища (длина %d)", n, b.length))
	}
	if uint64(v) > b.mask {
		panic(fmt.Sprintf("значение %d не помещается в %d бит", v, b.bits))
	}
	word, offset := b.calcIndex(n)
	b.data[word] = b.data[word]&(b.mask<<offset^math.MaxUint64) | (uint64(v)&b.mask)<<offset
}

// Bits возвращает разрядность значений
func (b *BitStorage) Bits() int {
	return b.bits
}

// Len возвращает количество значений
func (b *BitStorage) Len() int {
	return b.length
}

// Words возвращает внутренний массив слов (для кодека снапшотов)
func (b *BitStorage) Words() []uint64 {
	return b.data
}

// Resize возвращает новое хранилище разрядности newBits с теми же значениями.
// Вызывается при переполнении палитры на границах степеней двойки.
func (b *BitStorage) Resize(newBits int) *BitStorage {
	if newBits <= b.bits {
		panic(fmt.Sprintf("расширение хранилища: %d бит не больше текущих %d", newBits, b.bits))
	}
	wider := NewBitStorage(newBits, b.length, nil)
	for i := 0; i < b.length; i++ {
		wider.Set(i, b.Get(i))
	}
	return wider
}
