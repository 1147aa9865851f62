package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"spellbolt/server/internal/app"
)

func main() {
	cfg := app.DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "simulation ticks per second")
	flag.StringVar(&cfg.CatalogDir, "catalog-dir", cfg.CatalogDir, "directory of projectile kind definitions")
	flag.StringVar(&cfg.LogJSONPath, "log-json", cfg.LogJSONPath, "append NDJSON logs to this file")
	flag.BoolVar(&cfg.BotOpponent, "bot", cfg.BotOpponent, "spawn a scripted duel opponent")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
