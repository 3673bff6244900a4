package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pontaj-api/internal/auth"
	"github.com/pontaj-api/internal/config"
	"github.com/pontaj-api/internal/database"
	"github.com/pontaj-api/internal/handler"
	"github.com/pontaj-api/internal/repository"
	"github.com/pontaj-api/internal/service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Подключение к БД и миграции
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(db)
	bizRepo := repository.NewBusinessRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	planRepo := repository.NewPlanRepository(db)
	cellRepo := repository.NewCellRepository(db)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	// Инициализация сервисов
	authService := service.NewAuthService(userRepo, tokens)
	bizService := service.NewBusinessService(bizRepo)
	empService := service.NewEmployeeService(empRepo, bizRepo)
	planService := service.NewPlanService(planRepo, empRepo, bizRepo, cellRepo, logger)
	cellService := service.NewCellService(planRepo, empRepo, cellRepo)

	// Инициализация хендлеров
	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Business: handler.NewBusinessHandler(bizService, logger),
		Employee: handler.NewEmployeeHandler(empService, logger),
		Plan:     handler.NewPlanHandler(planService, logger),
		Cell:     handler.NewCellHandler(cellService, logger),
	}

	// Настройка роутера
	router := handler.NewRouter(handlers, tokens, cfg.Server.AllowedOrigins, logger)
	httpHandler := router.Setup()

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting",
		slog.String("port", cfg.Server.Port),
		slog.String("db_driver", cfg.Database.Driver),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
