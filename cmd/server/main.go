package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/almast/trendmart/docs"
	cataloghttp "github.com/almast/trendmart/internal/catalog/delivery/http"
	catalogrepo "github.com/almast/trendmart/internal/catalog/repository"
	"github.com/almast/trendmart/internal/catalog/usecase/command"
	userhttp "github.com/almast/trendmart/internal/user/delivery/http"
	userrepo "github.com/almast/trendmart/internal/user/repository"
	"github.com/almast/trendmart/kafka"
	"github.com/almast/trendmart/pkg/database"
	"github.com/almast/trendmart/pkg/logger"
	"github.com/almast/trendmart/pkg/storage"
	"github.com/almast/trendmart/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "trendmart-api")
	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := environment == "development"
	logger.Init(serviceName, getEnv("LOG_LEVEL", "info"), isDevelopment)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", environment).
		Msg("Starting trendmart API")

	// Tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Database: GORM for migrations and the write path, a plain pool
	// for the read path and health checks.
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "trendmart"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	gormDB, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	gormSQL, err := gormDB.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer gormSQL.Close()

	sqlDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open read pool")
	}
	defer sqlDB.Close()

	// Repositories and migrations
	userRepository := userrepo.NewGormUserRepository(gormDB)
	if err := userRepository.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate user tables")
	}
	writer := catalogrepo.NewGormProductRepository(gormDB)
	if err := writer.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate catalog tables")
	}
	reader := catalogrepo.NewSQLProductReaderWithTracing(catalogrepo.NewSQLProductReader(sqlDB))

	if err := seed(gormDB, userRepository); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed sample data")
	}

	// Blob store for product images
	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	store, err := storage.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	// Optional response cache
	var cache *cataloghttp.ResponseCache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis unavailable, response cache disabled")
		} else {
			cache = cataloghttp.NewResponseCache(client, 5*time.Minute)
			logger.Logger.Info().Str("addr", redisAddr).Msg("Response cache enabled")
		}
	}

	// Optional event publishing
	var events command.EventPublisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, catalog events disabled")
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	// Handlers
	userHandler := userhttp.NewUserHandler(userRepository)
	catalogHandler := cataloghttp.NewCatalogHandler(reader, writer, store, events, cache, isDevelopment)

	// Routes
	router := mux.NewRouter()
	userHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router, userRepository)
	catalogHandler.RegisterHealthCheck(router, sqlDB)
	router.Handle("/metrics", promhttp.Handler())
	cataloghttp.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))),
	)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := otelhttp.NewHandler(c.Handler(router), "http.server")

	httpPort := getEnv("HTTP_PORT", "8080")
	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")
		if err := http.ListenAndServe(":"+httpPort, handler); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
