package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BassTab/catalog"
	"BassTab/config"
	"BassTab/db"
	"BassTab/logger"
	"BassTab/repository"
	"BassTab/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database with GORM: %v", err)
	}
	defer db.CloseGormDB()

	// Connect to Redis
	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// MinIO 仅用于快照静态服务，不可用时降级继续
	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("MinIO unavailable, snapshot serving disabled", logger.ErrorField(err))
	}

	pairRepo := repository.NewGormPairRepository(db.GormDB)
	indexRepo := repository.NewMySQLIndexRepository()

	// 初始化处理器
	apiHandler := NewAPIHandler(pairRepo, indexRepo, cfg)

	// 目录监听：拖入 catalog 目录的 JSON 配对文件自动入库
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	watcher, err := catalog.NewWatcher(watchCtx, cfg.CatalogDir, pairRepo)
	if err != nil {
		logger.Warn("catalog watcher disabled", logger.ErrorField(err))
	} else {
		defer watcher.Stop()
	}

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, User-Agent")
			w.Header().Set("Access-Control-Max-Age", "600") // 10 minutes

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API Endpoints
	router.HandleFunc("/health", apiHandler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/pairs", apiHandler.ListPairsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/pairs/", apiHandler.ListPairsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/pairs/{slug}", apiHandler.GetPairHandler).Methods(http.MethodGet)

	// 播放会话 WebSocket 桥
	router.HandleFunc("/ws/pairs/{slug}", apiHandler.PairSessionHandler).Methods(http.MethodGet)

	// 快照静态服务（MinIO）
	router.PathPrefix("/static/").HandlerFunc(apiHandler.StaticSnapshotHandler)

	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("List pairs via GET /api/pairs")
		log.Println("Fetch a pair via GET /api/pairs/{slug}")
		log.Println("Open a playback session via GET /ws/pairs/{slug}")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号
	<-stop
	log.Println("Shutting down server...")

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
