package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/config"
	"github.com/gasfresco/reservation-service/internal/auth"
	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/internal/seed"
	"github.com/gasfresco/reservation-service/pkg/broker"
	"github.com/gasfresco/reservation-service/pkg/cache"
	"github.com/gasfresco/reservation-service/pkg/i18n"
	"github.com/gasfresco/reservation-service/pkg/logger"
	"github.com/gasfresco/reservation-service/pkg/postgres"
	"github.com/gasfresco/reservation-service/pkg/search"

	lotH "github.com/gasfresco/reservation-service/internal/lot/handler"
	lotRepoPkg "github.com/gasfresco/reservation-service/internal/lot/repository"
	lotUCPkg "github.com/gasfresco/reservation-service/internal/lot/usecase"

	prodH "github.com/gasfresco/reservation-service/internal/producer/handler"
	prodRepoPkg "github.com/gasfresco/reservation-service/internal/producer/repository"
	prodUCPkg "github.com/gasfresco/reservation-service/internal/producer/usecase"

	productH "github.com/gasfresco/reservation-service/internal/product/handler"
	productRepoPkg "github.com/gasfresco/reservation-service/internal/product/repository"
	productUCPkg "github.com/gasfresco/reservation-service/internal/product/usecase"

	resH "github.com/gasfresco/reservation-service/internal/reservation/handler"
	resListenerPkg "github.com/gasfresco/reservation-service/internal/reservation/listener"
	"github.com/gasfresco/reservation-service/internal/reservation/lock"
	resRepoPkg "github.com/gasfresco/reservation-service/internal/reservation/repository"
	resUCPkg "github.com/gasfresco/reservation-service/internal/reservation/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n (embedded locales)
	if err := i18n.Init(); err != nil {
		log.Fatalf("failed to initialize i18n: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 3.5 Bootstrap: schema and fixtures, once, before serving anything
	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := seed.Bootstrap(bootstrapCtx, db, cfg.Seed.FixturesDir, appLogger); err != nil {
		appLogger.Fatal("Bootstrap failed", zap.Error(err))
	}
	bootstrapCancel()

	// 4. Initialize Redis (optional: availability cache and distributed lot lock)
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	var locker reservation.Locker
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient)
	} else {
		locker = lock.NewLocalLocker()
		appLogger.Warn("Redis disabled: using in-process lot locks, run a single instance")
	}

	// 4.5 Initialize Elasticsearch (optional: product search)
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search disabled)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5. Initialize Repositories
	producerRepo := prodRepoPkg.NewPGRepository(db)
	productRepo := productRepoPkg.NewPGRepository(db)
	lotRepo := lotRepoPkg.NewPGRepository(db)
	resRepo := resRepoPkg.NewPGRepository(db)

	// 6. Initialize UseCases
	producerUC := prodUCPkg.NewProducerUseCase(producerRepo, appLogger)
	productUC := productUCPkg.NewProductUseCase(productRepo, producerRepo, redisClient, esClient, appLogger)
	lotUC := lotUCPkg.NewLotUseCase(lotRepo, resRepo, locker, productRepo, appLogger)
	resUC := resUCPkg.NewReservationUseCase(resRepo, lotRepo, locker, redisClient, appLogger)

	// 6.5 Account events listener (optional)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		accountListener := resListenerPkg.NewAccountListener(kafkaConsumer, resUC, appLogger)
		go accountListener.Start(ctx)
	}

	// 7. Initialize Handlers
	producerHandler := prodH.NewProducerHandler(producerUC, appLogger)
	productHandler := productH.NewProductHandler(productUC, appLogger)
	lotHandler := lotH.NewLotHandler(lotUC, appLogger)
	resHandler := resH.NewReservationHandler(resUC, appLogger)

	// 8. HTTP Server
	app := fiber.New(fiber.Config{AppName: "gasfresco-reservation-service"})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(auth.Middleware())

	api := app.Group("/api")

	// Storefront
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)
	api.Get("/lots", lotHandler.List)
	api.Get("/lots/:lot_id/availability", resHandler.LotAvailability)

	// Reservations (authenticated users)
	user := api.Group("", auth.RequireUser())
	user.Post("/lots/:lot_id/reservations", resHandler.Create)
	user.Get("/reservations", resHandler.List)
	user.Put("/reservations/:id", resHandler.Update)
	user.Delete("/reservations/:id", resHandler.Delete)

	// Administration
	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Post("/producers", producerHandler.Create)
	admin.Put("/producers/:id", producerHandler.Update)
	admin.Get("/producers", producerHandler.List)
	admin.Get("/producers/:id", producerHandler.Get)
	admin.Post("/products", productHandler.Create)
	admin.Put("/products/:id", productHandler.Update)
	admin.Post("/lots", lotHandler.Create)
	admin.Put("/lots/:id", lotHandler.Update)
	admin.Delete("/lots/:id", lotHandler.Delete)
	admin.Get("/lots/:id", lotHandler.Get)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()
	appLogger.Info("Starting HTTP server", zap.String("port", port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
