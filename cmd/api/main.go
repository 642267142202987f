package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/frontandrew/fleettrack/internal/delivery/http"
	"github.com/frontandrew/fleettrack/internal/pkg/config"
	"github.com/frontandrew/fleettrack/internal/pkg/database"
	"github.com/frontandrew/fleettrack/internal/pkg/jwt"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/pkg/redis"
	"github.com/frontandrew/fleettrack/internal/repository/cached"
	"github.com/frontandrew/fleettrack/internal/repository/postgres"
	"github.com/frontandrew/fleettrack/internal/usecase/auth"
	"github.com/frontandrew/fleettrack/internal/usecase/observation"
	"github.com/frontandrew/fleettrack/internal/usecase/reservation"
	"github.com/frontandrew/fleettrack/internal/usecase/stats"
	"github.com/frontandrew/fleettrack/internal/usecase/trip"
	"github.com/frontandrew/fleettrack/internal/usecase/vehicle"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting FleetTrack API server", map[string]interface{}{
		"version": "1.0.0",
		"env":     "development",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis
	// =========================================================================

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redisClient.Close()

	log.Info("Connected to Redis", map[string]interface{}{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := cached.NewVehicleRepository(postgres.NewVehicleRepository(db), redisClient)
	tripRepo := postgres.NewTripRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	observationRepo := postgres.NewObservationRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, log)
	vehicleService := vehicle.NewService(vehicleRepo, log)
	tripService := trip.NewService(tripRepo, reservationRepo, vehicleRepo, log)
	reservationService := reservation.NewService(reservationRepo, vehicleRepo, log)
	observationService := observation.NewService(observationRepo, vehicleRepo, log)
	statsService := stats.NewService(tripRepo, observationRepo, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	vehicleHandler := deliveryHTTP.NewVehicleHandler(vehicleService, log)
	tripHandler := deliveryHTTP.NewTripHandler(tripService, log)
	reservationHandler := deliveryHTTP.NewReservationHandler(reservationService, log)
	observationHandler := deliveryHTTP.NewObservationHandler(observationService, log)
	statsHandler := deliveryHTTP.NewStatsHandler(statsService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		vehicleHandler,
		tripHandler,
		reservationHandler,
		observationHandler,
		statsHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	// Канал для получения сигналов операционной системы
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Блокируемся до получения сигнала или ошибки сервера
	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Даем серверу 30 секунд на graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			// Принудительное закрытие
			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
