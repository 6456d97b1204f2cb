package scraper

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/engine"
	"github.com/use-agent/dealermedia/models"
)

// Dispatcher is the engine chain the Scraper fetches through.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Scraper is the resolver's text fetcher. It owns the optional browser and
// its page pool. It is safe for concurrent use.
type Scraper struct {
	dispatcher  Dispatcher
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	browserCfg  config.BrowserConfig
	activePages atomic.Int32
}

// New creates a Scraper that fetches through d. The browser is not started;
// call LaunchBrowser when the browser engine is enabled.
func New(d Dispatcher, browserCfg config.BrowserConfig) *Scraper {
	return &Scraper{dispatcher: d, browserCfg: browserCfg}
}

// SetDispatcher replaces the engine chain. main.go uses it to close the
// loop between the browser engine (which needs the Scraper) and the
// dispatcher (which needs the browser engine).
func (s *Scraper) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// FetchText performs one GET of rawURL and returns its body. Every failure
// (bad URL, network error, non-2xx status, unreadable body) collapses to
// ("", false); callers cannot tell a blocking origin from an offline one.
func (s *Scraper) FetchText(ctx context.Context, rawURL string) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("fetch panicked", "url", rawURL, "panic", r)
			text, ok = "", false
		}
	}()

	if s.dispatcher == nil {
		return "", false
	}
	result, err := s.dispatcher.Dispatch(ctx, &engine.FetchRequest{URL: rawURL})
	if err != nil {
		slog.Debug("fetch unavailable", "url", rawURL, "error", err)
		return "", false
	}
	slog.Debug("fetched", "url", rawURL, "engine", result.EngineName, "bytes", len(result.Body))
	return result.Body, true
}

// LaunchBrowser starts a headless browser and the reusable page pool.
func (s *Scraper) LaunchBrowser() error {
	l := launcher.New().
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return models.NewResolveError(models.ErrCodeInternal, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return models.NewResolveError(models.ErrCodeInternal, "failed to connect to browser", err)
	}

	s.browser = browser
	s.pagePool = rod.NewPagePool(s.browserCfg.MaxPages)
	slog.Info("page pool created", "maxPages", s.browserCfg.MaxPages)
	return nil
}

// Stats returns a snapshot of the browser pool.
func (s *Scraper) Stats() models.PoolStats {
	return models.PoolStats{
		BrowserEnabled: s.browser != nil,
		MaxPages:       s.browserCfg.MaxPages,
		ActivePages:    int(s.activePages.Load()),
	}
}

// Close drains the page pool and kills the browser process, if any.
func (s *Scraper) Close() {
	if s.browser == nil {
		return
	}
	slog.Info("scraper shutting down: draining page pool")
	s.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := s.browser.Close(); err != nil {
		slog.Warn("closing browser", "error", err)
	}
	slog.Info("scraper shutdown complete")
}
