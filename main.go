/*
Package main
File: main.go
Description:
    Entry point: loads server/game_config.json and data/universe.yaml,
    constructs the shared stores (accounts, universe, news, campaign,
    analytics), wires them into game.Deps, and starts the websocket
    transport. Adapted from the teacher's main.go (boot, background
    heartbeat, HTTP routing); this server has no per-frame simulation
    loop (spec.md §1 Non-goals), so the heartbeat shrinks to a single
    periodic analytics flush — campaign reset and planet regen are
    evaluated lazily at request time instead of on a tick.
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/everforgeworks/sector-commander/internal/accounts"
	"github.com/everforgeworks/sector-commander/internal/analytics"
	"github.com/everforgeworks/sector-commander/internal/campaign"
	"github.com/everforgeworks/sector-commander/internal/config"
	"github.com/everforgeworks/sector-commander/internal/dispatch"
	"github.com/everforgeworks/sector-commander/internal/game"
	"github.com/everforgeworks/sector-commander/internal/mail"
	"github.com/everforgeworks/sector-commander/internal/news"
	"github.com/everforgeworks/sector-commander/internal/transport"
	"github.com/everforgeworks/sector-commander/internal/universe"
)

func main() {
	settings, err := config.Load("server/game_config.json")
	if err != nil {
		log.Fatalf("CRITICAL: failed to load server/game_config.json: %v", err)
	}

	catalog, err := game.LoadCatalog("data/universe.yaml")
	if err != nil {
		log.Fatalf("CRITICAL: failed to load data/universe.yaml: %v", err)
	}

	if err := os.MkdirAll(settings.SaveRoot, 0o755); err != nil {
		log.Fatalf("CRITICAL: failed to create save root %q: %v", settings.SaveRoot, err)
	}

	accountsStore := accounts.New(settings.SaveRoot, []string{
		"universe_planets.json",
		"galactic_news.json",
		"winner_board.json",
		"analytics_metrics.json",
	})
	universeStore := universe.New(filepath.Join(settings.SaveRoot, "universe_planets.json"))
	newsStore := news.New(filepath.Join(settings.SaveRoot, "galactic_news.json"))
	campaignStore := campaign.New(filepath.Join(settings.SaveRoot, "winner_board.json"))
	analyticsStore := analytics.New(
		filepath.Join(settings.SaveRoot, "analytics_metrics.json"),
		settings.AnalyticsMaxEvents,
		settings.AnalyticsRetentionDays,
		settings.AnalyticsFlushIntervalSeconds,
	)
	if err := analyticsStore.Load(); err != nil {
		log.Printf("ANALYTICS: failed to load existing snapshot: %v", err)
	}

	deps := game.Deps{
		Settings:  settings,
		Catalog:   catalog,
		Accounts:  accountsStore,
		Universe:  universeStore,
		News:      newsStore,
		Campaign:  campaignStore,
		Analytics: analyticsStore,
	}

	srv := &dispatch.Server{
		Deps: deps,
		Mail: mail.Deps{Accounts: accountsStore},
	}

	hub := transport.NewHub(srv)
	srv.Deps.Online = hub.Lookup
	srv.Mail.Online = hub.Lookup
	srv.Deps.Mail = func(sender, recipient, subject, body string) error {
		_, err := mail.Send(srv.Mail, sender, recipient, subject, body, float64(time.Now().Unix()), settings.MailInboxCap)
		return err
	}

	// Periodic analytics flush. The engine has no per-frame tick loop
	// (spec.md §1); this is the one background goroutine, matching the
	// teacher's heartbeat but shrunk to the single concern that needs a
	// clock independent of player saves.
	go func() {
		interval := time.Duration(settings.AnalyticsFlushIntervalSeconds) * time.Second
		if interval <= 0 {
			interval = 30 * time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := analyticsStore.Flush(float64(time.Now().Unix()), false); err != nil {
				log.Printf("ANALYTICS: flush error: %v", err)
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		transport.ServeWs(hub, w, r)
	})

	addr := fmt.Sprintf("0.0.0.0:%d", settings.ServerPort)
	log.Printf("SECTOR COMMANDER: listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
