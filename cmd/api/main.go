package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/seatlock/internal/adapter/cache/rediscache"
	"github.com/srgjo27/seatlock/internal/adapter/handler"
	"github.com/srgjo27/seatlock/internal/adapter/lock/memory"
	"github.com/srgjo27/seatlock/internal/adapter/lock/redislock"
	"github.com/srgjo27/seatlock/internal/adapter/publisher/rabbitmq"
	"github.com/srgjo27/seatlock/internal/adapter/repository/postgres"
	"github.com/srgjo27/seatlock/internal/core/ports"
	"github.com/srgjo27/seatlock/internal/core/services"
	"github.com/srgjo27/seatlock/internal/platform/cache"
	"github.com/srgjo27/seatlock/internal/platform/config"
	"github.com/srgjo27/seatlock/internal/platform/database"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	var redisClient *redis.Client
	if cfg.LockBackend == config.LockBackendRedis {
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}

	var locker ports.LockService
	var seatMaps ports.SeatMapCache
	if redisClient != nil {
		locker = redislock.New(redisClient)
		seatMaps = rediscache.NewSeatMapCache(redisClient, cfg.SeatMapTTL)
	} else {
		log.Println("LOCK_BACKEND=memory: reservations are only serialized within this process")
		locker = memory.New()
	}

	var publisher ports.EventPublisher = rabbitmq.Noop{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher := rabbitmq.NewPublisher(rabbitmq.DialURL(cfg.RabbitMQURL), rabbitmq.Config{})
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		log.Println("RABBITMQ_URL not set, booking events are not published")
	}

	store := postgres.NewInventoryStore(db)

	reservationService := services.NewReservationService(store, locker, seatMaps, publisher, services.ReservationConfig{
		LockTTL:      cfg.LockTTL,
		ExpiryWindow: cfg.ExpiryWindow,
	})
	showService := services.NewShowService(store, seatMaps)
	supervisor := services.NewExpirySupervisor(store, reservationService, services.ExpiryConfig{
		Interval: cfg.SweepInterval,
		Batch:    cfg.SweepBatch,
	})

	bookingHandler := handler.NewBookingHandler(reservationService, showService)

	e := echo.New()
	e.HideBanner = true
	bookingHandler.Register(e, handler.JWTAuth(cfg.JWTSecret))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		supervisor.Run(workerCtx)
	}()

	go func() {
		log.Printf("Server starting on port :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	stopWorker()
	workers.Wait()

	log.Println("Server exiting")
}
