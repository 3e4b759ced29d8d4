package world

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

func newTestManager(t *testing.T, seed int64) (*ChunkManager, *block.Registry) {
	t.Helper()
	gen, reg := newTestGenerator(t, seed, DefaultGeneratorParams())
	return NewChunkManager(gen, reg, 4), reg
}

func TestEnsureLoadedRadiusOne(t *testing.T) {
	cm, _ := newTestManager(t, 42)

	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{X: 0, Z: 0}, 1))

	// Квадрат 3×3 вокруг центра: ровно 9 чанков
	assert.Equal(t, 9, cm.ChunkCount())
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			assert.True(t, cm.IsLoaded(vec.Vec2{X: dx, Z: dz}), "чанк (%d, %d)", dx, dz)
		}
	}
	assert.False(t, cm.IsLoaded(vec.Vec2{X: 2, Z: 0}))
}

func TestEnsureLoadedIdempotent(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	ctx := context.Background()

	require.NoError(t, cm.EnsureLoaded(ctx, vec.Vec2{}, 1))
	before := cm.Stats().TotalGenerated

	// Повторный вызов — дешёвый no-op, генерации не происходит
	require.NoError(t, cm.EnsureLoaded(ctx, vec.Vec2{}, 1))
	assert.Equal(t, before, cm.Stats().TotalGenerated)
	assert.Equal(t, 9, cm.ChunkCount())
}

func TestEnsureLoadedExpands(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	ctx := context.Background()

	require.NoError(t, cm.EnsureLoaded(ctx, vec.Vec2{}, 1))
	require.NoError(t, cm.EnsureLoaded(ctx, vec.Vec2{}, 2))

	assert.Equal(t, 25, cm.ChunkCount(), "Радиус 2 — квадрат 5×5")
}

func TestEnsureLoadedCancelled(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cm.EnsureLoaded(ctx, vec.Vec2{}, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnloadOutside(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	ctx := context.Background()

	require.NoError(t, cm.EnsureLoaded(ctx, vec.Vec2{}, 2))
	require.Equal(t, 25, cm.ChunkCount())

	unloaded := cm.UnloadOutside(vec.Vec2{}, 1)

	assert.Equal(t, 16, unloaded)
	assert.Equal(t, 9, cm.ChunkCount())
	assert.True(t, cm.IsLoaded(vec.Vec2{X: 1, Z: 1}))
	assert.False(t, cm.IsLoaded(vec.Vec2{X: 2, Z: 2}))
}

func TestGetBlockNotLoaded(t *testing.T) {
	cm, _ := newTestManager(t, 42)

	_, err := cm.GetBlock(vec.Vec3{X: 1000, Y: 10, Z: 1000})
	assert.ErrorIs(t, err, ErrChunkNotLoaded)

	err = cm.SetBlock(vec.Vec3{X: 1000, Y: 10, Z: 1000}, block.AirID)
	assert.ErrorIs(t, err, ErrChunkNotLoaded)
}

func TestGetBlockOutOfBounds(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{}, 0))

	_, err := cm.GetBlock(vec.Vec3{X: 0, Y: 256, Z: 0})
	assert.ErrorIs(t, err, ErrOutOfWorldBounds)

	_, err = cm.GetBlock(vec.Vec3{X: 0, Y: -1, Z: 0})
	assert.ErrorIs(t, err, ErrOutOfWorldBounds)
}

func TestSetGetBlockAcrossChunks(t *testing.T) {
	cm, reg := newTestManager(t, 42)
	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{}, 1))
	woodID, _ := reg.IDByName("wood")

	// Мировая координата в соседнем отрицательном чанке
	pos := vec.Vec3{X: -1, Y: 200, Z: -1}
	require.NoError(t, cm.SetBlock(pos, woodID))

	got, err := cm.GetBlock(pos)
	require.NoError(t, err)
	assert.Equal(t, woodID, got)

	// Изменение легло именно в чанк (-1, -1)
	chunk := cm.GetChunk(vec.Vec2{X: -1, Z: -1})
	require.NotNil(t, chunk)
	assert.Equal(t, woodID, chunk.Get(15, 200, 15))
	assert.True(t, chunk.IsDirty())
}

func TestSeed42ManagerScenario(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{}, 0))

	bottom, err := cm.GetBlock(vec.Vec3{X: 0, Y: 0, Z: 0})
	require.NoError(t, err)
	assert.NotEqual(t, block.AirID, bottom)

	top, err := cm.GetBlock(vec.Vec3{X: 0, Y: 255, Z: 0})
	require.NoError(t, err)
	assert.Equal(t, block.AirID, top)
}

func TestLoadedChunksSorted(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{}, 1))

	coords := cm.LoadedChunks()
	require.Len(t, coords, 9)
	for i := 1; i < len(coords); i++ {
		assert.True(t, coords[i-1].Less(coords[i]),
			"Координаты должны идти в детерминированном порядке")
	}
}

type recordingInvalidator struct {
	mu     sync.Mutex
	coords []vec.Vec2
}

func (r *recordingInvalidator) InvalidateChunk(c vec.Vec2) {
	r.mu.Lock()
	r.coords = append(r.coords, c)
	r.mu.Unlock()
}

func TestMeshInvalidatorNotified(t *testing.T) {
	cm, reg := newTestManager(t, 42)
	inv := &recordingInvalidator{}
	cm.AddMeshInvalidator(inv)

	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{}, 0))
	stoneID, _ := reg.IDByName("stone")
	require.NoError(t, cm.SetBlock(vec.Vec3{X: 3, Y: 10, Z: 3}, stoneID))

	inv.mu.Lock()
	defer inv.mu.Unlock()
	require.NotEmpty(t, inv.coords)
	assert.Equal(t, vec.Vec2{X: 0, Z: 0}, inv.coords[len(inv.coords)-1])
}

func TestConcurrentEnsureLoaded(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cm.EnsureLoaded(ctx, vec.Vec2{}, 2))
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, cm.ChunkCount(), "Конкурирующие вызовы не должны дублировать чанки")
}

func TestStats(t *testing.T) {
	cm, _ := newTestManager(t, 42)
	require.NoError(t, cm.EnsureLoaded(context.Background(), vec.Vec2{}, 1))

	stats := cm.Stats()
	assert.NotEmpty(t, stats.InstanceID)
	assert.Equal(t, 9, stats.LoadedChunks)
	assert.Equal(t, uint64(9), stats.TotalGenerated)
	assert.Equal(t, uint64(0), stats.TotalEdits)
}
