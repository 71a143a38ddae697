package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinabrahms/hotseat/internal/auth"
	"github.com/justinabrahms/hotseat/internal/config"
	"github.com/justinabrahms/hotseat/internal/game"
	"github.com/justinabrahms/hotseat/internal/storage"
	"github.com/justinabrahms/hotseat/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var showHelp bool
	var configPath string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configPath, "config", "", "Path to a config file (default: ./config.yaml)")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogging(cfg.Development)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server exited")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func setupLogging(dev config.DevelopmentConfig) {
	if dev.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	level, err := zerolog.ParseLevel(dev.LogLevel)
	if err != nil {
		log.Warn().Str("level", dev.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func run(cfg *config.Config) error {
	// Open storage and resume the last game
	var session *game.Session
	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage.Dir)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close storage")
			}
		}()

		session, err = game.Resume(store)
		if err != nil {
			return err
		}
		log.Info().Str("dir", cfg.Storage.Dir).Msg("Storage enabled")
	} else {
		session = game.New(nil)
	}

	// Access tokens
	var tokens *auth.Issuer
	if cfg.Auth.Enabled {
		var err error
		tokens, err = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		token, err := tokens.Issue(auth.BoardSubject)
		if err != nil {
			return err
		}
		log.Info().
			Str("url", fmt.Sprintf("http://%s/?token=%s", cfg.Server.Addr(), token)).
			Dur("ttl", cfg.Auth.TokenTTL).
			Msg("Open the board with this URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := web.NewHub()
	go hub.Run(ctx)

	service := web.NewService(session, hub, tokens)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      web.NewRouter(service, cfg.Server.StaticDir),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("session", session.ID()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// Wait for interrupt signal
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func showHelpMessage() {
	fmt.Println(`Hotseat Chess Server

DESCRIPTION:
    Serves one shared chess board to browsers on this machine. Both sides
    move from the same UI; every legal-move check, check, checkmate and
    stalemate decision is made by the built-in rules engine. Board updates
    are pushed to every open page over a WebSocket.

USAGE:
    hotseat [OPTIONS]

OPTIONS:
    -h, --help       Show this help message
    -config PATH     Read configuration from PATH instead of ./config.yaml

CONFIGURATION:
    Configured via config.yaml in the current directory (or ./config) and
    HOTSEAT_* environment variables, e.g. HOTSEAT_SERVER_PORT=9000.

    Example config.yaml:
        server:
          host: localhost
          port: 8080
          static_dir: ./web/static/

        storage:
          enabled: true     # resume the last game after a restart
          dir: ./data

        auth:
          enabled: true     # require a token for moves, undo and reset
          secret: "change-me"
          token_ttl: 12h

        development:
          debug: true
          log_level: debug

API ENDPOINTS:
    GET  /api/health              - Service health check
    GET  /api/board               - Current board, side to move and status
    GET  /api/moves?from=e2       - Legal moves (optionally from one square)
    POST /api/moves               - Play a move: {"from":"e2","to":"e4"}
    POST /api/undo                - Take back the last move
    POST /api/reset               - Start a new game
    GET  /ws                      - WebSocket stream of board updates

EXAMPLES:
    # Start with default configuration
    hotseat

    # Play 1. e4
    curl -X POST http://localhost:8080/api/moves \
      -H "Content-Type: application/json" \
      -d '{"from": "e2", "to": "e4"}'

SEE ALSO:
    perft(1), config.yaml(5)`)
}
