package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/edu-offline-go/api"
	"github.com/yourusername/edu-offline-go/internal/app"
	"github.com/yourusername/edu-offline-go/internal/infrastructure"
	"github.com/yourusername/edu-offline-go/pkg/logger"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting offline download service",
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("database", config.Database.Path))

	if err := os.MkdirAll(filepath.Dir(config.Database.Path), 0755); err != nil {
		log.Fatal("Failed to create database directory", zap.Error(err))
	}

	repo, err := infrastructure.NewSQLiteRepository(config.Database.Path)
	if err != nil {
		log.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	lifecycle := app.NewLifecycleManager(repo, repo, &config.Download, log)
	accountant := app.NewStorageAccountant(repo, repo, log)

	// Pick up transfers a previous process left behind before serving traffic
	if err := lifecycle.ResumeInFlight(); err != nil {
		log.Fatal("Failed to resume in-flight downloads", zap.Error(err))
	}

	router := api.SetupRouter(api.Deps{
		Lifecycle:  lifecycle,
		Accountant: accountant,
		Downloads:  repo,
		Videos:     repo,
		Progress:   repo,
		Logger:     log,
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop transfer tasks first so no store write can race the shutdown
	lifecycle.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
