package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/dealermedia/api"
	"github.com/use-agent/dealermedia/cache"
	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/engine"
	"github.com/use-agent/dealermedia/resolver"
	"github.com/use-agent/dealermedia/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("dealermedia starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"origin", cfg.Site.Origin,
		"imageHost", cfg.Site.ImageHost,
		"browser", cfg.Browser.Enabled,
	)

	// ── 3. Fetch engines ────────────────────────────────────────────
	engines := []engine.Engine{
		engine.NewHTTPEngine(engine.HTTPOptions{
			Timeout:        cfg.Fetch.Timeout,
			TLSFingerprint: cfg.Fetch.TLSFingerprint,
			Proxy:          cfg.Fetch.Proxy,
			MaxBodyBytes:   cfg.Fetch.MaxBodyBytes,
		}),
	}

	sc := scraper.New(nil, cfg.Browser)
	defer sc.Close()

	if cfg.Browser.Enabled {
		if err := sc.LaunchBrowser(); err != nil {
			slog.Error("failed to launch browser", "error", err)
			os.Exit(1)
		}
		// The browser engine calls back into the scraper's page pool.
		engines = append(engines, engine.NewRodEngine(sc.BrowserFetch))
	}

	memory := engine.NewDomainMemory(cfg.Engine.DomainMemoryTTL)
	dispatcher := engine.NewDispatcher(engines, memory)
	sc.SetDispatcher(dispatcher)
	slog.Info("fetch dispatcher ready", "engines", dispatcher.Engines())

	// ── 4. Resolver and cache ───────────────────────────────────────
	rv := resolver.New(sc, cfg.Site)
	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.MaxAge)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(sc, rv, cfg, cc, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close runs via defer and stops the browser, if any.
	slog.Info("dealermedia stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
