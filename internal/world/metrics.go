package world

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	chunksLoadedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "voxel_world",
		Name:      "chunks_loaded",
		Help:      "Количество чанков, находящихся в памяти",
	})

	chunksGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voxel_world",
		Name:      "chunks_generated_total",
		Help:      "Общее число сгенерированных чанков",
	})

	generationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "voxel_world",
		Name:      "chunk_generation_seconds",
		Help:      "Длительность генерации одного чанка",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	paletteRepacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voxel_world",
		Name:      "palette_repacks_total",
		Help:      "Число переупаковок хранилища чанков при росте палитры",
	})

	blockEditsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voxel_world",
		Name:      "block_edits_total",
		Help:      "Число изменений блоков через менеджер чанков",
	})
)

func init() {
	prometheus.MustRegister(
		chunksLoadedGauge,
		chunksGeneratedTotal,
		generationSeconds,
		paletteRepacksTotal,
		blockEditsTotal,
	)
}
