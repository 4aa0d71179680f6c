package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modutime/core/cache"
	"modutime/core/config"
	"modutime/core/database"
	"modutime/core/logger"
	"modutime/core/middleware"
	"modutime/modules/auth"
	"modutime/modules/calendar"
	"modutime/modules/event"
	"modutime/modules/finalchoice"
	"modutime/modules/notification"
	"modutime/modules/participant"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires every module, starts the HTTP server and the asynq worker, and
// blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Server.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}
	defer db.SQLx().Close()

	redisCache, err := cache.NewCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisCache.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(redisCache)
	api := e.Group("/api/v1")

	idb := database.GetDB()
	eventModule := event.Init(api, idb, mw, cfg.Server.FrontendURL)
	participantService := participant.Init(api, idb, mw, eventModule.Repo)
	notifModule := notification.Init(api, idb, mw, asynqClient, eventModule.Repo)
	finalchoice.Init(api, idb, mw, eventModule.Repo, notifModule.Enqueuer)
	calendar.Init(api, idb, mw, eventModule.Repo, cfg.Server.FrontendURL)
	auth.Init(api, idb, mw, redisCache, participantService)

	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 10})
	mux := asynq.NewServeMux()
	notifModule.Handler.Register(mux)

	errCh := make(chan error, 2)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("HTTP server starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("Worker starting")
		if err := worker.Run(mux); err != nil {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("Shutdown complete")
	return nil
}
