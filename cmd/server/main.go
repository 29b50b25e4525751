package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/limoondev/backend-drawly/config"
	"github.com/limoondev/backend-drawly/crypto"
	"github.com/limoondev/backend-drawly/game"
	"github.com/limoondev/backend-drawly/idgen"
	"github.com/limoondev/backend-drawly/identity"
	"github.com/limoondev/backend-drawly/logging"
	"github.com/limoondev/backend-drawly/migrations"
	"github.com/limoondev/backend-drawly/ratelimit"
	"github.com/limoondev/backend-drawly/store"
	"github.com/limoondev/backend-drawly/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.Debug)

	var st store.Store
	if cfg.PostgresURL != "" {
		if err := migrations.Up(cfg.PostgresURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations failed")
		}
		pg, err := store.NewPostgresStore(context.Background(), cfg.PostgresURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to postgres failed")
		}
		defer pg.Close()
		st = pg
	} else {
		logger.Warn().Msg("no DRAWLY_POSTGRES_URL set, running without persistence")
	}

	var rateLimiter ratelimit.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rateLimiter = ratelimit.NewRedisStore(client)
	} else {
		rateLimiter = ratelimit.NewInProcessStore()
	}

	catalogue := words.NewCatalogue(words.DefaultLists())

	resolver := identity.NewJWTResolver(crypto.NewJWTVerifier(cfg.JWTSigningKey))

	tunables := game.Tunables{
		MinPlayers:      cfg.MinPlayers,
		HintInterval:    cfg.HintInterval,
		TurnEndDelay:    cfg.TurnEndDelay,
		StartCountdown:  cfg.StartCountdown,
		AutoPickTimeout: cfg.AutoPickTimeout,
		EmptyRoomGrace:  cfg.EmptyRoomGrace,
		SettleDelay:     cfg.SettleDelay,
		KickDenylistTTL: cfg.KickDenyListTTL,
		ChatHistoryCap:  cfg.ChatHistoryCap,
		MaxNameLength:   cfg.MaxNameLength,
		MaxChatLength:   cfg.MaxChatLength,
	}
	codeGen := idgen.NewCodeGenerator(cfg.RoomCodeAlphabet, cfg.RoomCodeLength)
	registry := game.NewRegistry(codeGen, catalogue, tunables, st, logger)

	if st != nil {
		n, err := registry.RehydrateRecent(context.Background(), time.Now().Add(-cfg.RoomRetentionTTL))
		if err != nil {
			logger.Warn().Err(err).Msg("boot rehydration failed")
		} else {
			logger.Info().Int("rooms", n).Msg("rehydrated rooms from store")
		}
	}

	housekeeper := game.NewHousekeeper(registry, rateLimiter, cfg.EmptyRoomGrace, cfg.RoomRetentionTTL, logger)
	if err := housekeeper.Start(cfg.HousekeeperCron); err != nil {
		logger.Fatal().Err(err).Msg("start housekeeper failed")
	}
	defer housekeeper.Stop()

	roomDefaults := game.RoomDefaults{
		MaxPlayers:          cfg.MaxPlayers,
		DrawTime:            cfg.DefaultDrawTime,
		MaxRounds:           cfg.DefaultRounds,
		Theme:               "default",
		ChatRateLimitPerSec: cfg.RateLimitPerSec,
		ChatRateLimitBurst:  cfg.RateLimitBurst,
	}
	handler := game.NewHandler(registry, rateLimiter, roomDefaults, resolver, logger)

	r := gin.New()
	r.Use(gin.Recovery())

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{"Content-Type", "Origin"},
	}))

	game.RegisterRoute(r, handler)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("drawly listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	for _, room := range registry.Rooms() {
		room.Shutdown(game.ServerShutdownPayload{Message: "server restarting"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
