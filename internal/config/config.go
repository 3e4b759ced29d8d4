package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Содержит настройки мира, генератора и сервисных портов.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
}

// WorldConfig описывает параметры мира и цикла загрузки чанков
type WorldConfig struct {
	Seed       int64 `yaml:"seed"`
	LoadRadius int   `yaml:"load_radius"`
	Workers    int   `yaml:"workers"`
	TickRate   int   `yaml:"tick_rate"`
}

// GeneratorConfig настройки процедурной генерации ландшафта
type GeneratorConfig struct {
	SeaLevel      int     `yaml:"sea_level"`
	HeightScale   float64 `yaml:"height_scale"`
	HeightFreq    float64 `yaml:"height_frequency"`
	BiomeFreq     float64 `yaml:"biome_frequency"`
	CaveFreq      float64 `yaml:"cave_frequency"`
	CaveThreshold float64 `yaml:"cave_threshold"`
	ForestDensity float64 `yaml:"forest_density"`
}

type ServerConfig struct {
	MetricsPort  int    `yaml:"metrics_port"`
	OtlpEndpoint string `yaml:"otlp_endpoint"`
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "VOXEL_METRICS_PORT", 2112)
}

// GetOtlpEndpoint возвращает адрес OTLP коллектора (config -> env -> default)
func (s *ServerConfig) GetOtlpEndpoint() string {
	if s.OtlpEndpoint != "" {
		return s.OtlpEndpoint
	}
	if envVal := os.Getenv("VOXEL_OTLP_ENDPOINT"); envVal != "" {
		return envVal
	}
	return "localhost:4318"
}

// GetLoadRadius возвращает радиус загрузки чанков (config -> env -> default)
func (w *WorldConfig) GetLoadRadius() int {
	if w.LoadRadius > 0 {
		return w.LoadRadius
	}

	if envVal := os.Getenv("VOXEL_LOAD_RADIUS"); envVal != "" {
		if r, err := strconv.Atoi(envVal); err == nil && r > 0 {
			return r
		}
	}

	return 4
}

// GetTickRate возвращает частоту тиков симуляции в герцах
func (w *WorldConfig) GetTickRate() int {
	if w.TickRate > 0 {
		return w.TickRate
	}
	return 20
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Default возвращает конфигурацию по умолчанию.
// Константы генератора подобраны под колонну высотой 256 блоков.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       12345,
			LoadRadius: 4,
			Workers:    0, // 0 — взять runtime.NumCPU()
			TickRate:   20,
		},
		Generator: GeneratorConfig{
			SeaLevel:      64,
			HeightScale:   48.0,
			HeightFreq:    0.01,
			BiomeFreq:     0.004,
			CaveFreq:      0.05,
			CaveThreshold: 0.12,
			ForestDensity: 0.04,
		},
		Server: ServerConfig{},
	}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG или возвращает дефолты.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
