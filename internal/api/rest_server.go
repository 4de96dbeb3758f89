package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/voxel-level/internal/logging"
	"github.com/annel0/voxel-level/internal/middleware"
	gosync "github.com/annel0/voxel-level/internal/sync"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// EditRecorder принимает локальные правки для репликации
type EditRecorder interface {
	Record(e gosync.TileEdit)
}

// RestServer представляет REST API отладки и правки уровня
type RestServer struct {
	router   *gin.Engine
	server   *http.Server
	exec     gosync.Executor
	recorder EditRecorder
	syncStat func() gosync.ConsumerStats
	timeout  time.Duration
	metrics  *ServerMetrics
	log      *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port      string                     // адрес для запуска сервера
	Executor  gosync.Executor            // доступ к уровню через цикл симуляции
	Recorder  EditRecorder               // может быть nil, если репликация выключена
	SyncStats func() gosync.ConsumerStats // может быть nil
	Registry  *prometheus.Registry       // реестр метрик HTTP; nil - /metrics не регистрируется
	Timeout   time.Duration              // ожидание выполнения задачи в цикле (по умолчанию 2с)
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("rest_api"))

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	if config.Registry != nil {
		promMw := middleware.NewPrometheusMiddleware("rest_api", config.Registry)
		router.Use(promMw.Handler())
		promMw.RegisterMetricsEndpoint(router)
	}

	rs := &RestServer{
		router:   router,
		exec:     config.Executor,
		recorder: config.Recorder,
		syncStat: config.SyncStats,
		timeout:  config.Timeout,
		metrics:  NewServerMetrics(),
		log:      logging.GetAPILogger(),
	}
	rs.server = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/tile", rs.handleGetTile)
		api.PUT("/tile", rs.handlePutTile)
		api.GET("/clip", rs.handleClip)
		api.GET("/liquid", rs.handleLiquid)
		api.GET("/stats", rs.handleStats)
		api.GET("/checksum", rs.handleChecksum)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// handleHealth обрабатывает проверку здоровья
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// Start запускает сервер и блокируется до его остановки
func (rs *RestServer) Start() error {
	rs.log.Info("REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop корректно останавливает сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, GenericResponse{Success: false, Message: msg})
}
