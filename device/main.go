package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"groupcart/config"
	"groupcart/device/agent"
	"groupcart/device/api"
	"groupcart/device/cart"
	"groupcart/device/completion"
	"groupcart/device/identity"
	"groupcart/device/localstore"
	"groupcart/device/pipeline"
	"groupcart/device/poller"
	"groupcart/logger"
)

func main() {
	config.Load()

	log, err := logger.New(config.GetEnv("LOG_MODE", "dev"), config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(config.RedisFromEnv(), log)
	defer rdb.Close()

	deviceID := config.GetEnv("DEVICE_ID", "device")
	token := config.GetEnv("AUTH_TOKEN", "")
	who := identity.KeyFromToken(token)
	log = log.With("device", deviceID, "identity", who)

	client := api.NewClient(
		config.GetEnv("API_BASE", "http://localhost:8080"),
		token,
		config.GetDuration("REQUEST_TIMEOUT", pipeline.DefaultRequestTimeout),
	)

	counts := localstore.NewCounts(rdb, deviceID)
	history := localstore.NewHistory(rdb, deviceID)
	store := cart.NewStore(counts, log.With("component", "cart"))

	saved, err := counts.LoadCounts(ctx, who)
	if err != nil {
		log.Warn("failed to load local counts", "error", err)
	}
	store.Hydrate(who, saved)

	coordinator := completion.New(completion.Config{
		Store:    store,
		Guard:    localstore.NewGuard(rdb, deviceID, config.GetDuration("COMPLETION_TTL", localstore.DefaultCompletionTTL)),
		Handoffs: localstore.NewHandoffs(rdb, deviceID),
		History:  history,
		API:      client,
		OnAwaiting: func(h localstore.Handoff) {
			fmt.Printf("minimum order reached at %s, type \"confirm\" to place the group order\n", h.RestaurantName)
		},
		Log: log.With("component", "completion"),
	})

	poll := poller.New(client, store, coordinator, config.GetDuration("POLL_INTERVAL", poller.DefaultInterval), log.With("component", "poller"))
	for _, raw := range config.GetList("WATCH_RESTAURANTS") {
		if rid, err := strconv.Atoi(raw); err == nil && rid > 0 {
			poll.Track(rid)
		}
	}
	for rid := range saved {
		poll.Track(rid)
	}

	if err := coordinator.Recover(ctx); err != nil {
		log.Warn("failed to recover pending order", "error", err)
	}

	go func() {
		if err := poll.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("poller stopped", "error", err)
		}
	}()

	a := &agent.Agent{
		Identity:    who,
		Store:       store,
		Pipeline:    pipeline.New(store, client, coordinator, config.GetDuration("REQUEST_TIMEOUT", pipeline.DefaultRequestTimeout), log.With("component", "pipeline")),
		Coordinator: coordinator,
		Poller:      poll,
		History:     history,
		Out:         os.Stdout,
	}

	log.Info("device agent started")
	if err := a.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Error("agent stopped", "error", err)
	}
	log.Info("device agent stopped")
}
