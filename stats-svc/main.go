package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groupcart/config"
	"groupcart/logger"
	httpapi "groupcart/stats-svc/internal/api/http"
	"groupcart/stats-svc/internal/service"
	"groupcart/stats-svc/internal/storage"
)

func main() {
	config.Load()

	log, err := logger.New(config.GetEnv("LOG_MODE", "dev"), config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rdb := config.MustInitRedis(config.RedisFromEnv(), log)
	defer rdb.Close()

	store := storage.NewStatsStore(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := config.NewKafkaReader(
		config.GetEnv("KAFKA_BROKER", "localhost:9092"),
		config.GetEnv("ORDERS_TOPIC", "group-orders"),
		config.GetEnv("STATS_GROUP_ID", "stats-svc"),
	)
	defer reader.Close()

	consumer := service.NewConsumer(reader, store, log.With("component", "consumer"))
	go consumer.Start(ctx)

	handler := httpapi.NewHandler(service.NewStatsService(store), log.With("component", "http"))
	addr := ":" + config.GetEnv("PORT", "8083")
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("stats service starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
