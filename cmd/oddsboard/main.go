package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/rewired-gh/oddsboard/internal/apisports"
	"github.com/rewired-gh/oddsboard/internal/board"
	"github.com/rewired-gh/oddsboard/internal/config"
	"github.com/rewired-gh/oddsboard/internal/logger"
	"github.com/rewired-gh/oddsboard/internal/monitor"
	"github.com/rewired-gh/oddsboard/internal/oddsapi"
	"github.com/rewired-gh/oddsboard/internal/server"
	"github.com/rewired-gh/oddsboard/internal/telegram"
	"github.com/rewired-gh/oddsboard/internal/upstream"
)

var configPath = flag.String("config", "", "Path to configuration file (optional; environment variables are always read)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if *configPath != "" {
		logger.Info("Configuration loaded from %s", *configPath)
	}
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize upstream clients
	transport := upstream.ClientConfig{
		Timeout:         cfg.Upstream.Timeout,
		MaxRetries:      cfg.Upstream.MaxRetries,
		RetryDelayBase:  cfg.Upstream.RetryDelayBase,
		BreakerFailures: cfg.Upstream.BreakerFailures,
		BreakerCooldown: cfg.Upstream.BreakerCooldown,
		MinInterval:     cfg.Upstream.MinInterval,
	}
	oddsClient := oddsapi.NewClient(
		cfg.Odds.BaseURL,
		cfg.Odds.APIKey,
		cfg.Odds.Sport,
		cfg.Odds.Region,
		upstream.NewClient("odds", transport),
	)
	liveClient := apisports.NewClient(
		cfg.APISports.BaseURL,
		cfg.APISports.APIKey,
		upstream.NewClient("apisports", transport),
	)
	if cfg.Odds.APIKey == "" {
		logger.Warn("ODDS_API_KEY is not set; the board will have no games")
	}
	if cfg.APISports.APIKey == "" {
		logger.Warn("APISPORTS_KEY is not set; live scores are disabled")
	}

	// Initialize Telegram client
	var notifier monitor.Notifier
	if cfg.Telegram.Enabled {
		telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		notifier = telegramClient
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Initialize feed monitor and board
	mon := monitor.New(notifier)
	boardService := board.NewService(oddsClient, liveClient, mon)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	go mon.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(boardService, mon).Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	logger.Info("Starting oddsboard (sport: %s, region: %s)", cfg.Odds.Sport, cfg.Odds.Region)
	if err := server.Run(ctx, srv, cfg.Server.ShutdownTimeout); err != nil {
		logger.Fatal("HTTP server failed: %v", err)
	}
	logger.Info("Service stopped")
}
