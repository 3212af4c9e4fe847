// Package main - Entry point for the BidFix estimating server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/7mit3/BidFix-sub000/api"
	"github.com/7mit3/BidFix-sub000/db"
	"github.com/7mit3/BidFix-sub000/internal/config"
)

const version = "1.0.0"

func main() {
	cfg := config.Default()

	addr := flag.String("addr", envOr("BIDFIX_ADDR", cfg.Server.Addr), "Server address")
	dbPath := flag.String("db", envOr("BIDFIX_DB", cfg.Pricing.DatabasePath), "Price database file (empty to run without persistence)")
	flag.Parse()

	// Open the price database. The server still runs without it: price
	// overrides and saved estimates return 503, bids use catalog defaults
	var store *db.Store
	if *dbPath != "" {
		var err error
		store, err = db.NewStore(*dbPath)
		if err != nil {
			log.Printf("price database unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	apiServer := api.NewServerWithStore(version, store)

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: apiServer,
	}

	fmt.Printf("🏗  BidFix Estimating Server v%s\n", version)
	fmt.Printf("   API: http://localhost%s/api/v1\n", *addr)
	if store != nil {
		fmt.Printf("   DB:  %s\n", *dbPath)
	} else {
		fmt.Printf("   DB:  none (catalog defaults only)\n")
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("shutdown: %v", err)
		}
		fmt.Println("Server stopped.")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
