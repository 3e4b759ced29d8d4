package world

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// MeshInvalidator получает уведомления об изменениях чанков.
// Рендер подписывается на них, чтобы перестраивать меши.
type MeshInvalidator interface {
	InvalidateChunk(coords vec.Vec2)
}

// ManagerStats снимок состояния менеджера для мониторинга
type ManagerStats struct {
	InstanceID     string
	LoadedChunks   int
	TotalGenerated uint64
	TotalEdits     uint64
}

// ChunkManager владеет всеми загруженными чанками и сериализует доступ к ним.
// Генерация недостающих чанков распараллеливается на пул воркеров,
// но в карту чанки попадают только под блокировкой записи.
type ChunkManager struct {
	mu         sync.RWMutex
	chunks     map[vec.Vec2]*Chunk
	generator  *WorldGenerator
	registry   *block.Registry
	workers    int
	instanceID string
	tracer     trace.Tracer

	invalidators []MeshInvalidator

	totalGenerated uint64
	totalEdits     uint64
}

// NewChunkManager создаёт менеджер чанков поверх генератора.
// workers задаёт размер пула параллельной генерации (минимум 1).
func NewChunkManager(gen *WorldGenerator, reg *block.Registry, workers int) *ChunkManager {
	if workers < 1 {
		workers = 1
	}
	cm := &ChunkManager{
		chunks:     make(map[vec.Vec2]*Chunk),
		generator:  gen,
		registry:   reg,
		workers:    workers,
		instanceID: uuid.New().String(),
		tracer:     otel.Tracer("voxel-world/chunk-manager"),
	}
	logging.Info("🌍 Менеджер чанков создан: instance=%s, seed=%d, workers=%d",
		cm.instanceID, gen.Seed(), workers)
	return cm
}

// AddMeshInvalidator подписывает слушателя на изменения чанков
func (cm *ChunkManager) AddMeshInvalidator(inv MeshInvalidator) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.invalidators = append(cm.invalidators, inv)
}

func (cm *ChunkManager) notifyInvalidators(coords vec.Vec2) {
	cm.mu.RLock()
	invs := make([]MeshInvalidator, len(cm.invalidators))
	copy(invs, cm.invalidators)
	cm.mu.RUnlock()

	// Слушателей вызываем без блокировки: им может понадобиться менеджер
	for _, inv := range invs {
		inv.InvalidateChunk(coords)
	}
}

// EnsureLoaded гарантирует, что все чанки в квадрате радиуса radius
// (по Чебышёву) вокруг center загружены. Уже загруженные чанки
// не трогаются, недостающие генерируются параллельно.
func (cm *ChunkManager) EnsureLoaded(ctx context.Context, center vec.Vec2, radius int) error {
	ctx, span := cm.tracer.Start(ctx, "chunk_manager.ensure_loaded",
		trace.WithAttributes(
			attribute.Int("chunk.center_x", center.X),
			attribute.Int("chunk.center_z", center.Z),
			attribute.Int("chunk.radius", radius),
		))
	defer span.End()

	missing := cm.collectMissing(center, radius)
	if len(missing) == 0 {
		return nil // всё уже загружено, дешёвый no-op
	}

	span.SetAttributes(attribute.Int("chunk.missing", len(missing)))
	start := time.Now()

	generated, err := cm.generateBatch(ctx, missing)
	if err != nil {
		return err
	}

	cm.mu.Lock()
	for _, chunk := range generated {
		// Конкурирующий EnsureLoaded мог успеть раньше
		if _, exists := cm.chunks[chunk.Coords]; exists {
			continue
		}
		cm.chunks[chunk.Coords] = chunk
		cm.totalGenerated++
		chunksGeneratedTotal.Inc()
	}
	chunksLoadedGauge.Set(float64(len(cm.chunks)))
	cm.mu.Unlock()

	for _, chunk := range generated {
		cm.notifyInvalidators(chunk.Coords)
	}

	logging.Debug("📦 Загружено %d чанков вокруг (%d, %d) за %v",
		len(generated), center.X, center.Z, time.Since(start))
	return nil
}

// collectMissing возвращает координаты незагруженных чанков зоны
func (cm *ChunkManager) collectMissing(center vec.Vec2, radius int) []vec.Vec2 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var missing []vec.Vec2
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			coords := vec.Vec2{X: center.X + dx, Z: center.Z + dz}
			if _, exists := cm.chunks[coords]; !exists {
				missing = append(missing, coords)
			}
		}
	}
	return missing
}

// generateBatch генерирует чанки пулом воркеров и собирает результаты
func (cm *ChunkManager) generateBatch(ctx context.Context, coords []vec.Vec2) ([]*Chunk, error) {
	jobs := make(chan vec.Vec2, len(coords))
	results := make(chan *Chunk, len(coords))

	var wg sync.WaitGroup
	for i := 0; i < cm.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				genStart := time.Now()
				results <- cm.generator.GenerateChunk(c)
				generationSeconds.Observe(time.Since(genStart).Seconds())
			}
		}()
	}

	for _, c := range coords {
		if err := ctx.Err(); err != nil {
			close(jobs)
			wg.Wait()
			return nil, err
		}
		jobs <- c // канал буферизован на всю партию, запись не блокирует
	}
	close(jobs)
	wg.Wait()
	close(results)

	generated := make([]*Chunk, 0, len(coords))
	for chunk := range results {
		generated = append(generated, chunk)
	}
	return generated, nil
}

// UnloadOutside выгружает чанки за пределами радиуса radius вокруг center.
// Возвращает число выгруженных чанков.
func (cm *ChunkManager) UnloadOutside(center vec.Vec2, radius int) int {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	unloaded := 0
	for coords := range cm.chunks {
		if coords.ChebyshevDistanceTo(center) > radius {
			delete(cm.chunks, coords)
			unloaded++
		}
	}
	if unloaded > 0 {
		chunksLoadedGauge.Set(float64(len(cm.chunks)))
		logging.Debug("🗑️ Выгружено %d чанков вне радиуса %d от (%d, %d)",
			unloaded, radius, center.X, center.Z)
	}
	return unloaded
}

// IsLoaded проверяет, загружен ли чанк
func (cm *ChunkManager) IsLoaded(coords vec.Vec2) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, exists := cm.chunks[coords]
	return exists
}

// GetChunk возвращает загруженный чанк или nil
func (cm *ChunkManager) GetChunk(coords vec.Vec2) *Chunk {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.chunks[coords]
}

// GetBlock возвращает блок по мировым координатам.
// Ошибка, если координата вне мира или чанк не загружен.
func (cm *ChunkManager) GetBlock(pos vec.Vec3) (block.BlockID, error) {
	chunkCoords, local, err := WorldToChunk(pos)
	if err != nil {
		return block.AirID, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	chunk, exists := cm.chunks[chunkCoords]
	if !exists {
		return block.AirID, ErrChunkNotLoaded
	}
	return chunk.Get(local.X, local.Y, local.Z), nil
}

// SetBlock записывает блок по мировым координатам
func (cm *ChunkManager) SetBlock(pos vec.Vec3, id block.BlockID) error {
	chunkCoords, local, err := WorldToChunk(pos)
	if err != nil {
		return err
	}

	cm.mu.Lock()
	chunk, exists := cm.chunks[chunkCoords]
	if !exists {
		cm.mu.Unlock()
		return ErrChunkNotLoaded
	}
	chunk.Set(local.X, local.Y, local.Z, id)
	cm.totalEdits++
	cm.mu.Unlock()

	blockEditsTotal.Inc()
	cm.notifyInvalidators(chunkCoords)
	return nil
}

// LoadedChunks возвращает координаты загруженных чанков
// в детерминированном порядке (сначала X, затем Z)
func (cm *ChunkManager) LoadedChunks() []vec.Vec2 {
	cm.mu.RLock()
	coords := make([]vec.Vec2, 0, len(cm.chunks))
	for c := range cm.chunks {
		coords = append(coords, c)
	}
	cm.mu.RUnlock()

	sort.Slice(coords, func(i, j int) bool {
		return coords[i].Less(coords[j])
	})
	return coords
}

// ChunkCount возвращает число загруженных чанков
func (cm *ChunkManager) ChunkCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.chunks)
}

// Stats возвращает снимок статистики менеджера
func (cm *ChunkManager) Stats() ManagerStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return ManagerStats{
		InstanceID:     cm.instanceID,
		LoadedChunks:   len(cm.chunks),
		TotalGenerated: cm.totalGenerated,
		TotalEdits:     cm.totalEdits,
	}
}
