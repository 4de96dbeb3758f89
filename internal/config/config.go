package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Level     LevelConfig     `yaml:"level"`
	Loop      LoopConfig      `yaml:"loop"`
	Generator GeneratorConfig `yaml:"generator"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Sync      SyncConfig      `yaml:"sync"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type LevelConfig struct {
	MaxUpdatesPerTick int `yaml:"max_updates_per_tick"`
	WaterFlowDistance int `yaml:"water_flow_distance"`
	LavaFlowDistance  int `yaml:"lava_flow_distance"`
}

type LoopConfig struct {
	TicksPerSecond   int `yaml:"ticks_per_second"`
	MaxTicksPerFrame int `yaml:"max_ticks_per_frame"`
	FrameIntervalMs  int `yaml:"frame_interval_ms"`
}

// FrameInterval возвращает период кадров
func (l LoopConfig) FrameInterval() time.Duration {
	return time.Duration(l.FrameIntervalMs) * time.Millisecond
}

type GeneratorConfig struct {
	Seed          int64   `yaml:"seed"`
	NoiseScale    float64 `yaml:"noise_scale"`
	Amplitude     int     `yaml:"amplitude"`
	LavaPockets   int     `yaml:"lava_pockets"`
	FlowerDensity float64 `yaml:"flower_density"`
	OreDensity    float64 `yaml:"ore_density"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто - in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

// RetentionDuration возвращает срок хранения сообщений в стриме
func (e EventBusConfig) RetentionDuration() time.Duration {
	return time.Duration(e.Retention) * time.Hour
}

type SyncConfig struct {
	Enabled      bool   `yaml:"enabled"`
	NodeID       string `yaml:"node_id"`
	BatchSize    int    `yaml:"batch_size"`
	FlushEveryMs int    `yaml:"flush_every_ms"`
	Compress     bool   `yaml:"use_zstd_compression"`
}

// FlushEvery возвращает период отправки пакетов
func (s SyncConfig) FlushEvery() time.Duration {
	return time.Duration(s.FlushEveryMs) * time.Millisecond
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Level: LevelConfig{
			WaterFlowDistance: 7,
			LavaFlowDistance:  3,
		},
		Loop: LoopConfig{
			TicksPerSecond:   20,
			MaxTicksPerFrame: 100,
			FrameIntervalMs:  10,
		},
		Generator: GeneratorConfig{
			Seed:          12345,
			NoiseScale:    0.03,
			Amplitude:     12,
			LavaPockets:   12,
			FlowerDensity: 0.02,
			OreDensity:    0.01,
		},
		EventBus: EventBusConfig{
			Stream:    "LEVEL",
			Retention: 24,
			Buffer:    1024,
		},
		Sync: SyncConfig{
			Enabled:      true,
			NodeID:       "node-1",
			BatchSize:    256,
			FlushEveryMs: 100,
			Compress:     true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-level",
		},
		Logging: LoggingConfig{
			ConsoleLevel: "info",
			FileLevel:    "debug",
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GAME_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", используется ENV GAME_CONFIG; если и он пуст,
// возвращаются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, при которых запуск невозможен
func (c *Config) Validate() error {
	if c.Level.MaxUpdatesPerTick < 0 {
		return fmt.Errorf("level.max_updates_per_tick не может быть отрицательным: %d", c.Level.MaxUpdatesPerTick)
	}
	if c.Level.WaterFlowDistance > 255 || c.Level.LavaFlowDistance > 255 {
		return fmt.Errorf("дистанция растекания должна быть не больше 255")
	}
	if c.Loop.TicksPerSecond < 0 {
		return fmt.Errorf("loop.ticks_per_second не может быть отрицательным: %d", c.Loop.TicksPerSecond)
	}
	if c.Sync.Enabled && c.Sync.NodeID == "" {
		return fmt.Errorf("sync.node_id обязателен при включённой репликации")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio должен быть в диапазоне [0, 1]: %v", c.Telemetry.SampleRatio)
	}
	return nil
}
