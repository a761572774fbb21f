package app

import (
	"context"

	"atomflow/internal/app/assist"
	"atomflow/internal/app/board"
	"atomflow/internal/app/health"
	"atomflow/internal/app/user"
	"atomflow/internal/config"
	"atomflow/internal/db"
	"atomflow/internal/db/seeder"
	"atomflow/internal/gateways/websocket"
	"atomflow/internal/providers/minio"
	"atomflow/internal/providers/redis"
	"atomflow/internal/router"
	"atomflow/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB

	stopSync context.CancelFunc
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger)
	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider", zap.Error(err))
		minioProvider = nil
	}
	eventBus := utils.NewEventBus()

	userRepo := user.NewRepository(dbConn)
	userService := user.NewService(userRepo, minioProvider, logger)

	boardRepo := board.NewRepository(redisProvider, logger)
	syncBus := board.NewSyncBus(redisProvider, cfg.SyncChannel, logger)
	boardService := board.NewService(boardRepo, eventBus, syncBus, logger)

	syncCtx, stopSync := context.WithCancel(context.Background())
	go syncBus.Listen(syncCtx, boardService)

	assistService, err := assist.NewService(cfg, logger)
	if err != nil {
		stopSync()
		return nil, err
	}

	hub := websocket.NewHub(logger, eventBus)
	go hub.Run()

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	userHandler := user.NewHandler(userService)
	boardHandler := board.NewHandler(boardService, userService)
	assistHandler := assist.NewHandler(assistService)

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterUserRoutes(userHandler)
	r.RegisterAssistRoutes(assistHandler)
	r.RegisterSwaggerRoutes()

	return &Application{
		Router:   r,
		DB:       dbConn,
		stopSync: stopSync,
	}, nil
}

// Shutdown releases the sync subscription so no listener outlives the server.
func (a *Application) Shutdown() {
	if a.stopSync != nil {
		a.stopSync()
	}
}
