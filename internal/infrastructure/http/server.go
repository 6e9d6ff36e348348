package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	handlers "github.com/AzizDev404/Qr/internal/adapter/handler/http"
	adapterrepo "github.com/AzizDev404/Qr/internal/adapter/repository"
	"github.com/AzizDev404/Qr/internal/config"
	"github.com/AzizDev404/Qr/internal/domain/provider"
	"github.com/AzizDev404/Qr/internal/domain/repository"
	"github.com/AzizDev404/Qr/internal/infrastructure/encoder"
	"github.com/AzizDev404/Qr/internal/middleware/auth"
	"github.com/AzizDev404/Qr/internal/usecase"
)

// Server wires repositories, usecases and handlers into an Echo instance.
type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo

	db          *mongo.Database
	s3Client    *s3.Client
	redisClient *redis.Client
}

// NewServer creates the HTTP server. redisClient may be nil when the cache
// is disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db *mongo.Database, s3Client *s3.Client, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.Server.ClientURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{cfg.Server.ClientURL},
			AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
		}))
	}

	return &Server{
		config:      cfg,
		logger:      logger,
		echo:        e,
		db:          db,
		s3Client:    s3Client,
		redisClient: redisClient,
	}
}

// Start registers routes and begins serving.
func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Repositories.
	records := adapterrepo.NewRecordRepository(s.db)
	analytics := adapterrepo.NewAnalyticsRepository(s.db)
	blobs := adapterrepo.NewS3BlobStore(s.s3Client, s.config.S3.Bucket)

	var cache repository.CacheRepository
	if s.redisClient != nil {
		cache = adapterrepo.NewRedisCacheRepository(s.redisClient)
	}

	// Usecases.
	allocator := usecase.NewAllocator(records, s.logger)
	binding := usecase.NewImageBinding(
		encoder.NewQRCodeEncoder(),
		blobs,
		s.config.Service.BaseURL,
		provider.EncodeOptions{
			Size:       s.config.QR.Size,
			Level:      s.config.QR.Level,
			Foreground: s.config.QR.Foreground,
			Background: s.config.QR.Background,
		},
		s.logger,
	)
	limiter := usecase.NewAttemptLimiter(
		s.config.Scan.MaxPasswordAttempts,
		time.Duration(s.config.Scan.AttemptWindowSeconds)*time.Second,
		nil,
	)

	recordService := usecase.NewRecordService(records, blobs, cache, allocator, binding, s.logger)
	contentService := usecase.NewContentService(records, blobs, cache, s.logger)
	scanService := usecase.NewScanService(records, blobs, analytics, cache, limiter, s.logger)

	// Handlers.
	recordHandler := handlers.NewRecordHandler(recordService, contentService, s.logger)
	scanHandler := handlers.NewScanHandler(scanService, recordService, s.logger)

	// Health check.
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Public resolution routes.
	s.echo.GET("/scan/:id", scanHandler.Scan)
	s.echo.GET("/preview/:id", scanHandler.Preview)
	s.echo.GET("/r/:id", scanHandler.Redirect)
	s.echo.GET("/image/:id", scanHandler.Image)

	// Management routes behind the admin gate.
	api := s.echo.Group("/api", auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.Auth.JWTSecret,
		Logger: s.logger,
	}))
	api.POST("/qrcodes", recordHandler.CreateQRCode)
	api.GET("/qrcodes", recordHandler.ListQRCodes)
	api.GET("/qrcodes/stats", recordHandler.GetStats)
	api.GET("/qrcodes/:id", recordHandler.GetQRCode)
	api.PUT("/qrcodes/:id/content", recordHandler.UpdateContent)
	api.PUT("/qrcodes/:id/settings", recordHandler.UpdateSettings)
	api.DELETE("/qrcodes/:id", recordHandler.DeleteQRCode)
	api.POST("/qrcodes/:id/restore", recordHandler.RestoreQRCode)
}
