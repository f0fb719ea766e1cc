package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lucedivina/storefront/internal/fetcher"
	"github.com/lucedivina/storefront/internal/observability"
	"github.com/lucedivina/storefront/internal/types"
)

// Extractor derives a normalized metadata record from a remote product
// page. It never lets a failure cross its boundary: every code path
// yields a Metadata, degraded to empty fields or an error message.
type Extractor struct {
	fetcher fetcher.Fetcher
	rules   []SiteRule
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures the Extractor.
type Option func(*Extractor)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// WithSiteRules replaces the default site post-processing rules.
func WithSiteRules(rules []SiteRule) Option {
	return func(e *Extractor) { e.rules = rules }
}

// New creates an Extractor backed by the given fetcher.
func New(f fetcher.Fetcher, logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher: f,
		rules:   DefaultSiteRules(),
		logger:  logger.With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the given URL and runs the extraction pipeline:
// structured data first, meta tags second, text heuristics third,
// site-specific post-processing last.
func (e *Extractor) Extract(ctx context.Context, rawURL string) *types.Metadata {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		e.metrics.IncScrape("invalid_input")
		return types.ErrorMetadata(types.ErrMissingURL.Error())
	}

	target := NormalizeURL(raw)
	e.logger.Debug("fetching", "url", target)

	doc, err := e.fetcher.Fetch(ctx, target)
	if err != nil {
		e.logger.Warn("fetch failed", "url", target, "error", err)
		e.metrics.IncScrape("fetch_error")
		return types.ErrorMetadata("could not reach the source site; it may be blocking automated access")
	}
	e.metrics.ObserveFetch(doc.FetchDuration)

	if !doc.IsSuccess() {
		e.logger.Warn("upstream rejected request", "url", target, "status", doc.StatusCode)
		e.metrics.IncScrape("upstream_rejected")
		return types.ErrorMetadata(fmt.Sprintf(
			"the source site answered HTTP %d; it may be blocking automated access", doc.StatusCode))
	}

	meta := e.extract(doc)

	host := hostOf(target)
	for _, rule := range e.rules {
		if rule.Match(host) {
			meta = rule.Apply(meta, target, doc)
		}
	}

	e.countFields(&meta)
	e.metrics.IncScrape("ok")
	e.logger.Info("metadata extracted",
		"url", target,
		"title", meta.Title != "",
		"image", meta.Image != "",
		"price", meta.Price != nil,
	)
	return &meta
}

// extract runs the generic (site-independent) extraction stages.
// Per-field priority: social meta tags, then structured data, then
// document fallbacks, then text heuristics.
func (e *Extractor) extract(doc *types.Document) types.Metadata {
	var meta types.Metadata
	body := doc.HTML()

	gq, err := doc.Doc()
	if err != nil {
		// Unparseable markup: only the text heuristics can run.
		e.logger.Debug("document parse failed, heuristics only", "url", doc.URL, "error", err)
		meta.Price = scanPrice(body)
		meta.ISBN = scanIdentifier(body)
		return meta
	}

	sd := extractStructuredData(gq)
	var sdName, sdImage, sdDescription, sdAuthor, sdISBN string
	var sdPrice *float64
	if sd != nil {
		sdName = sd.Name
		sdImage = sd.Image
		sdDescription = sd.Description
		sdAuthor = sd.Author
		sdISBN = sd.ISBN
		sdPrice = sd.Price
	}

	meta.Title = firstNonEmpty(
		metaContent(gq, "og:title"),
		metaContent(gq, "twitter:title"),
		sdName,
		documentTitle(gq),
	)
	meta.Image = firstNonEmpty(
		metaContent(gq, "og:image"),
		metaContent(gq, "twitter:image"),
		sdImage,
		firstContentImage(doc.Body),
	)
	meta.Description = firstNonEmpty(
		metaContent(gq, "og:description"),
		metaContent(gq, "twitter:description"),
		metaContent(gq, "description"),
		sdDescription,
	)
	meta.Price = sdPrice
	if meta.Price == nil {
		meta.Price = scanPrice(body)
	}
	meta.Author = firstNonEmpty(
		metaContent(gq, "author"),
		metaContent(gq, "og:book:author"),
		metaContent(gq, "book:author"),
		sdAuthor,
	)
	meta.ISBN = firstNonEmpty(
		metaContent(gq, "og:isbn"),
		metaContent(gq, "book:isbn"),
		sdISBN,
		scanIdentifier(body),
	)

	return meta
}

// countFields records which fields were resolved.
func (e *Extractor) countFields(meta *types.Metadata) {
	if e.metrics == nil {
		return
	}
	if meta.Title != "" {
		e.metrics.IncField("title")
	}
	if meta.Description != "" {
		e.metrics.IncField("description")
	}
	if meta.Image != "" {
		e.metrics.IncField("image")
	}
	if meta.Price != nil {
		e.metrics.IncField("price")
	}
	if meta.Author != "" {
		e.metrics.IncField("author")
	}
	if meta.ISBN != "" {
		e.metrics.IncField("isbn")
	}
}

// NormalizeURL trims the input and prepends https:// when no http(s)
// scheme is present. It is purely textual: malformed input is left for
// the fetch to reject.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "https://" + raw
	}
	return raw
}

// hostOf extracts the hostname for site-rule matching. On parse failure
// the whole URL is matched against, lowered.
func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(target)
	}
	return strings.ToLower(u.Hostname())
}

// firstNonEmpty returns the first non-empty candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
