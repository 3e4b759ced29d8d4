package monitor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/world"
)

// StatsSource отдаёт снимок состояния мира для периодического отчёта
type StatsSource interface {
	Stats() world.ManagerStats
}

// ProcessMonitor периодически пишет в лог сводку по процессу и миру
type ProcessMonitor struct {
	startTime time.Time
	source    StatsSource
}

// NewProcessMonitor создаёт монитор с отсчётом аптайма от текущего момента
func NewProcessMonitor(source StatsSource) *ProcessMonitor {
	return &ProcessMonitor{
		startTime: time.Now(),
		source:    source,
	}
}

// Uptime возвращает время работы в человекочитаемом виде
func (pm *ProcessMonitor) Uptime() string {
	uptime := time.Since(pm.startTime)

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}

// MemoryUsageMB возвращает текущий размер кучи в мегабайтах
func (pm *ProcessMonitor) MemoryUsageMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// CPUUsage возвращает использование CPU процессом в процентах
func (pm *ProcessMonitor) CPUUsage() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если метрика процесса недоступна, берём системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}
	return cpuPercent, nil
}

// Run пишет сводку в лог каждые interval до отмены контекста
func (pm *ProcessMonitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.report()
		}
	}
}

func (pm *ProcessMonitor) report() {
	stats := pm.source.Stats()
	cpuPct, err := pm.CPUUsage()
	if err != nil {
		logging.Warn("⚠️ Не удалось получить загрузку CPU: %v", err)
	}

	logging.Info("📊 Аптайм %s | чанков %d | сгенерировано %d | правок %d | heap %.1f MB | CPU %.1f%% | горутин %d",
		pm.Uptime(), stats.LoadedChunks, stats.TotalGenerated, stats.TotalEdits,
		pm.MemoryUsageMB(), cpuPct, runtime.NumGoroutine())
}
