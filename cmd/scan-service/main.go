package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/classifier"
	"github.com/SanchoLoco/NoPressure/pkg/common/config"
	"github.com/SanchoLoco/NoPressure/pkg/common/database"
	"github.com/SanchoLoco/NoPressure/pkg/common/kafka"
	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/middleware"
	"github.com/SanchoLoco/NoPressure/pkg/observability/metrics"
	"github.com/SanchoLoco/NoPressure/pkg/scans"
	"github.com/SanchoLoco/NoPressure/pkg/storage"
	"github.com/SanchoLoco/NoPressure/pkg/treatment"
	"github.com/gorilla/mux"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}

	repo := scans.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate scan tables")
	}

	producer := kafka.NewProducer(cfg.ScanEventsTopic)
	defer producer.Close()

	trendCache := storage.NewTrendCache(database.GetRedis(), cfg.TrendCachePrefix, cfg.TrendCacheTTL)

	service := scans.NewService(
		scans.NewValidator(),
		repo,
		classifier.NewClient(cfg),
		treatment.NewEngine(),
		producer,
		trendCache,
	)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	scans.NewHTTPHandler(service, cfg.MaxRequestBody).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Scan Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Scan Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	database.CloseRedis()
	database.ClosePostgres()
	logger.Log.Info("Scan Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
