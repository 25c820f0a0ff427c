package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/config"
	"github.com/iliyamo/pet-shelter/internal/database"
	"github.com/iliyamo/pet-shelter/internal/handler"
	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/middleware"
	"github.com/iliyamo/pet-shelter/internal/obs"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/router"
	"github.com/iliyamo/pet-shelter/internal/service"
	"github.com/iliyamo/pet-shelter/internal/session"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)
	obs.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		logger.Fatal("redis connection failed", "error", err)
	}
	defer rdb.Close()

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue, cfg.EventsDial)
		go func() {
			if err := queue.StartEventConsumer(ctx, cfg.AMQPURL, cfg.EventsQueue, cfg.EventLogPath); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event consumer stopped", "error", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	apps := repository.NewApplicationRepo(db)
	payments := repository.NewPaymentRepo(db)
	workers := repository.NewWorkerRepo(db)
	var pets service.PetStore = repository.NewPetRepo(db)
	if cc := config.LoadCacheConfig(); cc.Enabled {
		pets = service.NewCachedPetStore(pets, rdb, cc.Prefix, cc.TTL)
	}

	sessions := session.NewRedisStore(rdb, "shelter:sess", cfg.SessionTTL)
	authSvc := service.NewAuthService(users, sessions, events)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewFormValidator()

	router.Use(e, authSvc, cfg.SessionSecret)
	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(authSvc, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)
	router.RegisterPages(e, handler.NewPageHandler(
		service.NewApplicationService(apps, workers, users, pets, events),
		service.NewPaymentService(payments, events),
		service.NewWorkerRequestService(workers, users, events),
		service.NewUserService(users, events),
		service.NewPetService(pets, repository.NewOverviewRepo(db), events),
	))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}
