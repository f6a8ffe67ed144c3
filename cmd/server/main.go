// Package main initializes and starts the to-do list web server, setting up
// configuration, logging, the PostgreSQL and Redis connections,
// repositories, services, handlers and graceful shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/avelichko/todolist/internal/config"
	"github.com/avelichko/todolist/internal/db"
	"github.com/avelichko/todolist/internal/logger"
	"github.com/avelichko/todolist/internal/repository"
	"github.com/avelichko/todolist/internal/server/handler/http"
	"github.com/avelichko/todolist/internal/service"
	"github.com/avelichko/todolist/internal/session"
	"github.com/avelichko/todolist/internal/web"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// A .env file is a development convenience; absence is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	if version == "" {
		version = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	fmt.Printf("Build version: %s\n", version)
	fmt.Printf("Build date: %s\n", buildDate)

	// Initialize structured logging.
	appLog := logger.New()
	defer func() { _ = appLog.Log.Sync() }()
	level := "Info"
	if options.Debug {
		level = "Debug"
	}
	if err := appLog.Init(level); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	zapLogger := appLog.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize the Redis client backing sessions.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     options.RedisAddr,
		Password: options.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zapLogger.Fatal("cannot reach redis", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	todoRepo := repository.NewPostgresTodoRepository(postgresDB)

	// Initialize business-logic services and the session store.
	authService := service.NewAuthService(userRepo)
	todoService := service.NewTodoService(todoRepo)
	sessions := session.NewStore(redisClient, options.SessionDuration())

	// Parse the embedded HTML templates.
	renderer, err := web.NewRenderer(zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot parse templates", zap.Error(err))
	}

	// Create HTTP handlers.
	homeHandler := &http.HomeHandler{Renderer: renderer}
	authHandler := &http.AuthHandler{AuthService: authService, Sessions: sessions, Renderer: renderer, Log: zapLogger}
	todoHandler := &http.TodoHandler{TodoService: todoService, Renderer: renderer, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(homeHandler, authHandler, todoHandler, sessions, userRepo, zapLogger)

	server := &nethttp.Server{
		Addr:         options.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal, then shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		zapLogger.Warn("closing redis client", zap.Error(err))
	}
	if err := postgresDB.Close(); err != nil {
		zapLogger.Warn("closing database", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
