package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groupcart/api-gateway/internal/gateway"
	"groupcart/config"
	"groupcart/logger"

	"github.com/rs/cors"
)

func main() {
	config.Load()

	log, err := logger.New(config.GetEnv("LOG_MODE", "dev"), config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := gateway.Config{
		CartSvcURL:  config.GetEnv("CART_SVC_URL", "http://localhost:8081"),
		StatsSvcURL: config.GetEnv("STATS_SVC_URL", "http://localhost:8083"),
	}

	client := &http.Client{Timeout: config.GetDuration("UPSTREAM_TIMEOUT", 15*time.Second)}
	gw := gateway.NewGateway(cfg, client, log.With("component", "gateway"))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := ":" + config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(gw.SetupRoutes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("api gateway starting", "addr", addr, "cart", cfg.CartSvcURL, "stats", cfg.StatsSvcURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
}
