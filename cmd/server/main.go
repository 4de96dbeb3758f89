package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-level/internal/api"
	"github.com/annel0/voxel-level/internal/config"
	"github.com/annel0/voxel-level/internal/eventbus"
	"github.com/annel0/voxel-level/internal/game"
	"github.com/annel0/voxel-level/internal/generator"
	"github.com/annel0/voxel-level/internal/level"
	"github.com/annel0/voxel-level/internal/logging"
	"github.com/annel0/voxel-level/internal/observability"
	gosync "github.com/annel0/voxel-level/internal/sync"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации (или GAME_CONFIG)")
	flag.Parse()

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Некорректная конфигурация: %v", err)
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.ConsoleLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logging.Configure(logging.Options{Dir: cfg.Logging.Dir, ConsoleLevel: consoleLevel, FileLevel: fileLevel})

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("🎮 Запуск сервера уровня...")

	// === ТРАССИРОВКА ===
	shutdownTracing, err := observability.InitTelemetry(ctx, observability.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("трассировка: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logging.Warn("Ошибка остановки трассировки: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// === УРОВЕНЬ ===
	lvl := level.New(level.Config{
		MaxUpdatesPerTick: cfg.Level.MaxUpdatesPerTick,
		WaterFlowDistance: cfg.Level.WaterFlowDistance,
		LavaFlowDistance:  cfg.Level.LavaFlowDistance,
	})

	started := time.Now()
	generator.New(generator.Config{
		Seed:          cfg.Generator.Seed,
		NoiseScale:    cfg.Generator.NoiseScale,
		Amplitude:     cfg.Generator.Amplitude,
		LavaPockets:   cfg.Generator.LavaPockets,
		FlowerDensity: cfg.Generator.FlowerDensity,
		OreDensity:    cfg.Generator.OreDensity,
	}).Generate(lvl)
	logging.Info("🌍 Уровень %dx%dx%d сгенерирован за %v (seed=%d, checksum=%08x)",
		level.Width, level.Height, level.Depth, time.Since(started), cfg.Generator.Seed, lvl.Checksum())

	loop := game.New(lvl, game.Config{
		TicksPerSecond:   cfg.Loop.TicksPerSecond,
		MaxTicksPerFrame: cfg.Loop.MaxTicksPerFrame,
		FrameInterval:    cfg.Loop.FrameInterval(),
	}, game.NewMetrics(reg))

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	// === ШИНА СОБЫТИЙ ===
	bus, err := newBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	busMetrics := eventbus.NewMetricsExporter(bus, reg)
	busMetrics.Start()
	defer busMetrics.Stop()

	if sub, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Не удалось запустить логирование событий: %v", err)
	} else {
		defer sub.Unsubscribe()
	}

	// === РЕПЛИКАЦИЯ ===
	var (
		recorder  api.EditRecorder
		syncStats func() gosync.ConsumerStats
	)
	if cfg.Sync.Enabled {
		sm, err := gosync.NewManager(gosync.Config{
			NodeID:     cfg.Sync.NodeID,
			Bus:        bus,
			Executor:   loop,
			BatchSize:  cfg.Sync.BatchSize,
			FlushEvery: cfg.Sync.FlushEvery(),
			Compress:   cfg.Sync.Compress,
		})
		if err != nil {
			return fmt.Errorf("репликация: %w", err)
		}
		defer sm.Stop()
		recorder = sm.Producer()
		syncStats = sm.ConsumerStats
	} else {
		logging.Info("Репликация правок отключена")
	}

	// === HTTP ===
	rest := api.NewRestServer(api.Config{
		Port:      fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Executor:  loop,
		Recorder:  recorder,
		SyncStats: syncStats,
		Registry:  reg,
	})
	restDone := make(chan error, 1)
	go func() { restDone <- rest.Start() }()

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()),
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("❌ Ошибка сервера метрик: %v", err)
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost:%d", cfg.Server.GetRESTPort())
	logging.Info("   📈 Метрики: http://localhost:%d/metrics", cfg.Server.GetMetricsPort())

	// Ждем сигнала или падения одного из сервисов
	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал, завершение работы...")
	case err := <-restDone:
		runErr = fmt.Errorf("REST API: %w", err)
	case err := <-loopDone:
		runErr = fmt.Errorf("цикл симуляции: %w", err)
		loopDone <- err
	}
	stop()

	// === GRACEFUL SHUTDOWN ===
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rest.Stop(sctx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := metricsSrv.Shutdown(sctx); err != nil {
		logging.Error("❌ Ошибка остановки сервера метрик: %v", err)
	}
	if err := <-loopDone; err != nil && runErr == nil {
		runErr = err
	}
	logging.Info("Выполнено тиков: %d", loop.Ticks())
	return runErr
}

func newBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 Шина событий: in-memory")
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, cfg.RetentionDuration())
	if err != nil {
		return nil, fmt.Errorf("шина событий: %w", err)
	}
	logging.Info("📨 Шина событий: JetStream %s (stream=%s)", cfg.URL, cfg.Stream)
	return bus, nil
}
