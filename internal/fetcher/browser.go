package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// It is the fallback for JS-heavy pages and sites that block plain HTTP
// clients regardless of headers.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.FetcherConfig
	logger  *slog.Logger
}

// NewBrowserFetcher launches a headless Chromium and connects to it.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger = logger.With("component", "browser_fetcher")
	logger.Info("browser fetcher ready")

	return &BrowserFetcher{
		browser: browser,
		cfg:     &cfg.Fetcher,
		logger:  logger,
	}, nil
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, url string) (*types.Document, error) {
	start := time.Now()

	page, err := stealth.Page(bf.browser)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: fmt.Errorf("stealth page: %w", err)}
	}
	defer page.Close()

	if len(bf.cfg.UserAgents) > 0 {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: bf.cfg.UserAgents[0],
		})
		if err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	page = page.Context(ctx)

	if err := page.Timeout(bf.cfg.RequestTimeout).Navigate(url); err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	if err := page.Timeout(bf.cfg.RequestTimeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	// Rod doesn't easily expose status codes; a rendered page counts as 200.
	duration := time.Since(start)
	doc := types.NewBrowserDocument(url, finalURL, 200, []byte(html), duration)

	bf.logger.Debug("browser fetch complete",
		"url", url,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return doc, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}
