// Command boardcheck fetches both feeds once, merges them and prints the
// board with any feed errors. It uses the same configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rewired-gh/oddsboard/internal/apisports"
	"github.com/rewired-gh/oddsboard/internal/board"
	"github.com/rewired-gh/oddsboard/internal/config"
	"github.com/rewired-gh/oddsboard/internal/logger"
	"github.com/rewired-gh/oddsboard/internal/oddsapi"
	"github.com/rewired-gh/oddsboard/internal/upstream"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (optional)")
	jsonOutput = flag.Bool("json", false, "Print the board exactly as GET /api/board returns it")
	timeout    = flag.Duration("timeout", 30*time.Second, "Overall deadline for both fetches")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	transport := upstream.ClientConfig{
		Timeout:        cfg.Upstream.Timeout,
		MaxRetries:     cfg.Upstream.MaxRetries,
		RetryDelayBase: cfg.Upstream.RetryDelayBase,
	}
	service := board.NewService(
		oddsapi.NewClient(cfg.Odds.BaseURL, cfg.Odds.APIKey, cfg.Odds.Sport, cfg.Odds.Region, upstream.NewClient("odds", transport)),
		apisports.NewClient(cfg.APISports.BaseURL, cfg.APISports.APIKey, upstream.NewClient("apisports", transport)),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	b, err := service.Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Board fetch failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b.Games); err != nil {
			log.Fatalf("Failed to encode board: %v", err)
		}
		return
	}

	printHeader(cfg.Odds.Sport, cfg.Odds.Region, time.Since(start))
	printFeedErrors(os.Stdout, b)
	printBoard(os.Stdout, b.Games)
	printSummary(os.Stdout, b.Games)
}
