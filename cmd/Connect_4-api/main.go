package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"Connect-4-AI/internals/config"
	"Connect-4-AI/internals/handlers/matchmaking"
	"Connect-4-AI/internals/handlers/users"
	"Connect-4-AI/internals/logger"
	"Connect-4-AI/internals/storage"
)

func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Msg("Config loaded")

	store, err := storage.New(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	bots := matchmaking.NewBotPool(cfg.Engine.Workers, cfg.EngineOptions())
	srv, err := matchmaking.NewServer(store, bots, matchmaking.Options{
		BotTimeout:            cfg.MatchmakingTimeout(),
		ReconnectTimeout:      cfg.ReconnectTimeout(),
		BotMoveDelay:          cfg.BotMoveDelay(),
		DisconnectedCacheSize: cfg.Game.DisconnectedCacheSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game server")
	}
	log.Info().
		Int("workers", cfg.Engine.Workers).
		Int("depth", cfg.Engine.SearchDepth).
		Int("threat_depth", cfg.Engine.ThreatDepth).
		Int("cache_bits", cfg.Engine.CacheBits).
		Msg("Bot engines ready")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go srv.Run(ctx)

	router := http.NewServeMux()
	router.HandleFunc("/api/signup", users.SignupHandler(store)) // api for signup
	router.HandleFunc("/api/login", users.LoginHandler(store))   // api for login
	router.HandleFunc("/ws/game", srv.HandleGame)                // WebSocket endpoint for games
	router.HandleFunc("/api/rankings", srv.HandleRanking)        // api for rankings
	router.HandleFunc("/api/games", srv.HandleGames)             // recently finished games
	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"}, // For production, specify your frontend's domain.
		AllowedMethods: []string{"GET", "POST", "OPTIONS", "PATCH", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: c.Handler(router),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-done
	log.Info().Msg("Shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to gracefully shutdown server")
	}
	log.Info().Msg("Server stopped")
}
