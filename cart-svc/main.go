package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "groupcart/cart-svc/internal/api/http"
	"groupcart/cart-svc/internal/domain"
	"groupcart/cart-svc/internal/service"
	"groupcart/cart-svc/internal/storage"
	"groupcart/config"
	"groupcart/logger"
)

type cartStore interface {
	service.AggregateStore
	service.OrderRepository
	SeedCatalog(ctx context.Context, catalog []domain.SeedRestaurant) error
}

func main() {
	config.Load()

	log, err := logger.New(config.GetEnv("LOG_MODE", "dev"), config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store cartStore
	switch config.GetEnv("STORE", "postgres") {
	case "memory":
		log.Info("using in-memory store")
		store = storage.NewMemoryStore()
	default:
		db := config.MustInitPostgres(config.PostgresFromEnv(), log)
		defer db.Close()
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to create schema", "error", err)
		}
		store = repo
	}

	if config.GetBool("SEED_CATALOG", true) {
		if err := store.SeedCatalog(ctx, storage.DemoCatalog()); err != nil {
			log.Fatal("failed to seed catalog", "error", err)
		}
	}

	var publisher service.OrderPublisher
	if broker := config.GetEnv("KAFKA_BROKER", ""); broker != "" {
		writer := config.NewKafkaWriter(broker, config.GetEnv("ORDERS_TOPIC", "group-orders"))
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		log.Warn("KAFKA_BROKER not set, order events disabled")
	}

	qr := service.DefaultQRGenerator{BaseURL: config.GetEnv("RECEIPT_BASE_URL", "http://localhost:8080")}
	aggregates := service.NewAggregateService(store, store, qr, publisher, log.With("component", "aggregates"))

	handler := httpapi.NewHandler(aggregates, config.GetBool("LEGACY_DELTA_ROUTES", false), log.With("component", "http"))
	addr := ":" + config.GetEnv("PORT", "8081")
	srv := httpapi.NewServer(addr, httpapi.NewRouter(handler))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("cart service starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
