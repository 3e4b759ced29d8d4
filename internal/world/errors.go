package world

import "errors"

var (
	// ErrChunkNotLoaded возвращается при обращении к блоку в незагруженном чанке
	ErrChunkNotLoaded = errors.New("чанк не загружен")
	// ErrOutOfWorldBounds возвращается при координате Y вне диапазона [0, 256)
	ErrOutOfWorldBounds = errors.New("координата вне границ мира")
)
