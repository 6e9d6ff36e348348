package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/config"
	"github.com/AzizDev404/Qr/internal/infrastructure/db"
	server "github.com/AzizDev404/Qr/internal/infrastructure/http"
	"github.com/AzizDev404/Qr/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fallback := logger.DefaultZapLogger()
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Server.Debug,
	})
	if err != nil {
		fallback := logger.DefaultZapLogger()
		fallback.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	log.Info("Starting service", zap.String("service", cfg.Service.Name))

	mongoClient, database, err := db.NewMongoDatabase(&cfg.MongoDB, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	s3Client, err := db.NewS3Client(&cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to initialize S3 client", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, err := db.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		redisClient = client
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close Redis client", zap.Error(err))
			}
		}()
	}

	srv := server.NewServer(cfg, log, database, s3Client, redisClient)

	go func() {
		if err := srv.Start(); err != nil {
			log.Info("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}
