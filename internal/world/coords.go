package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
)

// WorldToChunk переводит мировые координаты блока в координаты чанка
// и локальные координаты внутри него. Деление выполняется с округлением
// к минус бесконечности: блок (-1, y, -1) лежит в чанке (-1, -1)
// с локальными координатами (15, y, 15).
func WorldToChunk(pos vec.Vec3) (vec.Vec2, vec.Vec3, error) {
	if pos.Y < 0 || pos.Y >= ChunkHeight {
		return vec.Vec2{}, vec.Vec3{}, fmt.Errorf("y=%d: %w", pos.Y, ErrOutOfWorldBounds)
	}
	return pos.ToChunkCoords(), pos.LocalInChunk(), nil
}

// ChunkLocalToWorld выполняет обратное преобразование
func ChunkLocalToWorld(chunk vec.Vec2, local vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: chunk.X*ChunkSizeX + local.X,
		Y: local.Y,
		Z: chunk.Z*ChunkSizeZ + local.Z,
	}
}
