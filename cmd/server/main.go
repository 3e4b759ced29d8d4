package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/voxel-world/internal/config"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/monitor"
	"github.com/annel0/voxel-world/internal/observability"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🌍 Запуск Voxel World Server...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка чтения конфигурации: %v", err)
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	logging.Info("📡 Конфигурация: seed=%d, радиус=%d, тик=%d Гц",
		cfg.World.Seed, cfg.World.GetLoadRadius(), cfg.World.GetTickRate())

	// === ТЕЛЕМЕТРИЯ ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, "voxel-world-server", cfg.Server.GetOtlpEndpoint())
	if err != nil {
		// Коллектор может быть не поднят, для локальной разработки это нормально
		logging.Warn("⚠️ Телеметрия недоступна: %v", err)
	} else {
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logging.Error("Ошибка остановки телеметрии: %v", err)
			}
		}()
	}

	// === РЕЕСТР БЛОКОВ И ГЕНЕРАТОР ===
	registry := block.NewRegistry()
	if err := block.RegisterDefaults(registry); err != nil {
		logging.Error("❌ Ошибка регистрации блоков: %v", err)
		log.Fatalf("❌ Ошибка регистрации блоков: %v", err)
	}
	logging.Info("🧱 Зарегистрировано блоков: %d", registry.Len())

	params := world.GeneratorParams{
		SeaLevel:      cfg.Generator.SeaLevel,
		HeightScale:   cfg.Generator.HeightScale,
		HeightFreq:    cfg.Generator.HeightFreq,
		BiomeFreq:     cfg.Generator.BiomeFreq,
		CaveFreq:      cfg.Generator.CaveFreq,
		CaveThreshold: cfg.Generator.CaveThreshold,
		ForestDensity: cfg.Generator.ForestDensity,
	}
	generator, err := world.NewWorldGenerator(cfg.World.Seed, registry, params)
	if err != nil {
		logging.Error("❌ Ошибка создания генератора: %v", err)
		log.Fatalf("❌ Ошибка создания генератора: %v", err)
	}

	workers := cfg.World.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	manager := world.NewChunkManager(generator, registry, workers)

	// === МЕТРИКИ PROMETHEUS ===
	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logging.Info("📊 Prometheus метрики на %s/metrics", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logging.Error("❌ Сервер метрик остановлен: %v", err)
		}
	}()

	// === МОНИТОРИНГ ПРОЦЕССА ===
	procMonitor := monitor.NewProcessMonitor(manager)
	go procMonitor.Run(ctx, 30*time.Second)

	// Стартовая зона вокруг точки спавна
	radius := cfg.World.GetLoadRadius()
	if err := manager.EnsureLoaded(ctx, vec.Vec2{}, radius); err != nil {
		logging.Error("❌ Ошибка загрузки стартовой зоны: %v", err)
		log.Fatalf("❌ Ошибка загрузки стартовой зоны: %v", err)
	}
	logging.Info("✅ Стартовая зона готова: %d чанков", manager.ChunkCount())

	// === ЦИКЛ СИМУЛЯЦИИ ===
	go runSimulation(ctx, manager, radius, cfg.World.GetTickRate())

	// === ОЖИДАНИЕ СИГНАЛА ЗАВЕРШЕНИЯ ===
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("🛑 Получен сигнал %v, завершение работы...", sig)
	cancel()

	stats := manager.Stats()
	logging.Info("📊 Итог: instance=%s, сгенерировано %d чанков, правок %d",
		stats.InstanceID, stats.TotalGenerated, stats.TotalEdits)
}

// runSimulation двигает точку интереса по окружности вокруг спавна,
// подгружая чанки впереди и выгружая оставшиеся позади
func runSimulation(ctx context.Context, manager *world.ChunkManager, radius, tickRate int) {
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick++
			// Один оборот примерно за минуту при 20 Гц
			angle := float64(tick) * 2 * math.Pi / 1200
			center := vec.Vec2{
				X: int(math.Cos(angle) * 8),
				Z: int(math.Sin(angle) * 8),
			}

			if err := manager.EnsureLoaded(ctx, center, radius); err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.Error("❌ Ошибка загрузки чанков вокруг (%d, %d): %v",
					center.X, center.Z, err)
				continue
			}
			// Небольшой запас позади точки интереса
			manager.UnloadOutside(center, radius+2)
		}
	}
}
