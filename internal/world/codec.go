package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Версия формата снапшота. Меняется при любой правке раскладки.
const snapshotVersion byte = 1

// EncodeChunk сериализует чанк в сжатый снапшот.
// Раскладка (до сжатия, little-endian):
//
//	version  byte
//	coords   int32 × 2
//	palette  uint16 (размер) + uint16 × размер
//	bits     byte (0 = равномерный чанк, слова отсутствуют)
//	words    uint32 (количество) + uint64 × количество
func EncodeChunk(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)

	if err := writeSnapshot(zw, c); err != nil {
		zw.Close()
		return nil, fmt.Errorf("кодирование чанка (%d, %d): %w", c.Coords.X, c.Coords.Z, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("кодирование чанка (%d, %d): %w", c.Coords.X, c.Coords.Z, err)
	}
	return buf.Bytes(), nil
}

func writeSnapshot(w io.Writer, c *Chunk) error {
	if err := binary.Write(w, binary.LittleEndian, snapshotVersion); err != nil {
		return err
	}
	header := []int32{int32(c.Coords.X), int32(c.Coords.Z)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}

	palette := c.palette.Blocks()
	if err := binary.Write(w, binary.LittleEndian, uint16(len(palette))); err != nil {
		return err
	}
	for _, id := range palette {
		if err := binary.Write(w, binary.LittleEndian, uint16(id)); err != nil {
			return err
		}
	}

	if c.storage == nil {
		return binary.Write(w, binary.LittleEndian, byte(0))
	}

	if err := binary.Write(w, binary.LittleEndian, byte(c.storage.Bits())); err != nil {
		return err
	}
	words := c.storage.Words()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(words))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, words)
}

// DecodeChunk восстанавливает чанк из снапшота
func DecodeChunk(data []byte) (*Chunk, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("декодирование чанка: %w", err)
	}
	defer zr.Close()

	chunk, err := readSnapshot(zr)
	if err != nil {
		return nil, fmt.Errorf("декодирование чанка: %w", err)
	}
	return chunk, nil
}

func readSnapshot(r io.Reader) (*Chunk, error) {
	var version byte
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("неподдерживаемая версия снапшота: %d", version)
	}

	var header [2]int32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	coords := vec.Vec2{X: int(header[0]), Z: int(header[1])}

	var paletteSize uint16
	if err := binary.Read(r, binary.LittleEndian, &paletteSize); err != nil {
		return nil, err
	}
	if paletteSize == 0 {
		return nil, fmt.Errorf("пустая палитра")
	}
	paletteIDs := make([]uint16, paletteSize)
	if err := binary.Read(r, binary.LittleEndian, paletteIDs); err != nil {
		return nil, err
	}

	chunk := NewUniformChunk(coords, block.BlockID(paletteIDs[0]))
	for _, raw := range paletteIDs[1:] {
		chunk.palette.IndexFor(block.BlockID(raw))
	}

	var bits byte
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return nil, err
	}
	if bits == 0 {
		if paletteSize != 1 {
			return nil, fmt.Errorf("равномерный чанк с палитрой из %d записей", paletteSize)
		}
		return chunk, nil
	}

	// Снапшот приходит от внешнего хранилища: разрядность нельзя
	// передавать BitStorage непроверенной, он паникует на мусоре
	if bits > 32 {
		return nil, fmt.Errorf("недопустимая разрядность снапшота: %d", bits)
	}
	if int(bits) < BitsFor(int(paletteSize)) {
		return nil, fmt.Errorf("разрядность %d мала для палитры из %d записей", bits, paletteSize)
	}

	var wordCount uint32
	if err := binary.Read(r, binary.LittleEndian, &wordCount); err != nil {
		return nil, err
	}
	words := make([]uint64, wordCount)
	if err := binary.Read(r, binary.LittleEndian, words); err != nil {
		return nil, err
	}

	valuesPerLong := 64 / int(bits)
	expected := (ChunkVolume + valuesPerLong - 1) / valuesPerLong
	if int(wordCount) != expected {
		return nil, fmt.Errorf("несоответствие данных: %d слов при %d битах", wordCount, bits)
	}

	storage := NewBitStorage(int(bits), ChunkVolume, words)
	for i := 0; i < ChunkVolume; i++ {
		if idx := storage.Get(i); int(idx) >= int(paletteSize) {
			return nil, fmt.Errorf("индекс палитры %d вне диапазона (размер %d)", idx, paletteSize)
		}
	}

	chunk.storage = storage
	return chunk, nil
}
