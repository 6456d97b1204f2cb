package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/dealermedia/engine"
	"github.com/ysmood/gson"
)

// rawDocumentJS re-requests the current document from inside the page so
// the body is the served text (XML stays XML) while any cookies the origin
// set during navigation are sent along.
const rawDocumentJS = `() => fetch(location.href, {credentials: "include"}).then(async (r) => ({
	status: r.status,
	url: r.url,
	contentType: r.headers.get("content-type") || "",
	body: await r.text(),
}))`

// BrowserFetch fetches req.URL through a pooled stealth browser tab. It is
// the callback behind engine.RodEngine.
//
// Lifecycle:
//
//  1. Acquire page from the pool; the deferred cleanup navigates to
//     about:blank and returns it.
//  2. Inject stealth.JS and mount the resource-blocking hijack (both must
//     happen before navigation).
//  3. Navigate and wait for load, then re-fetch the document text.
func (s *Scraper) BrowserFetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	if s.browser == nil {
		return nil, errors.New("browser not launched")
	}

	timeout := s.browserCfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, err := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, fmt.Errorf("acquire page: %w", err)
	}
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
	}()

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	headers := map[string]string{"Accept-Language": engine.BrowserHeaders["Accept-Language"]}
	for k, v := range req.Headers {
		headers[k] = v
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(page)

	router := setupHijack(page, s.browserCfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		slog.Debug("WaitLoad did not complete, reading document anyway", "url", req.URL, "error", err)
	}

	res, err := p.Eval(rawDocumentJS)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	status := res.Value.Get("status").Int()
	if status < 200 || status > 299 {
		return nil, &engine.StatusError{StatusCode: status, URL: req.URL}
	}

	finalURL := res.Value.Get("url").Str()
	if finalURL == "" {
		finalURL = req.URL
	}
	return &engine.FetchResult{
		Body:        res.Value.Get("body").Str(),
		ContentType: res.Value.Get("contentType").Str(),
		StatusCode:  status,
		FinalURL:    finalURL,
	}, nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
