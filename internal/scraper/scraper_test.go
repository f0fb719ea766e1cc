package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/lucedivina/storefront/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubFetcher serves canned documents keyed by URL.
type stubFetcher struct {
	pages  map[string]*types.Document
	err    error
	lastIn string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*types.Document, error) {
	f.lastIn = url
	if f.err != nil {
		return nil, f.err
	}
	if doc, ok := f.pages[url]; ok {
		return doc, nil
	}
	return htmlDoc(url, 404, ""), nil
}

func (f *stubFetcher) Close() error { return nil }
func (f *stubFetcher) Type() string { return "stub" }

func htmlDoc(url string, status int, body string) *types.Document {
	return &types.Document{
		URL:           url,
		FinalURL:      url,
		StatusCode:    status,
		Headers:       make(http.Header),
		Body:          []byte(body),
		FetchDuration: 5 * time.Millisecond,
		FetchedAt:     time.Now(),
	}
}

func newTestExtractor(pages map[string]*types.Document) (*Extractor, *stubFetcher) {
	f := &stubFetcher{pages: pages}
	return New(f, testLogger), f
}

const bookPageHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Salmi per il Cuore | Bookshop</title>
    <meta property="og:title" content="Salmi per il Cuore">
    <meta property="og:description" content="Una raccolta di preghiere e salmi.">
    <meta property="og:image" content="https://cdn.example.com/covers/salmi.jpg">
    <meta name="author" content="Anna Benedetti">
    <script type="application/ld+json">
    {"@context":"https://schema.org","@type":"Book","name":"Salmi per il Cuore",
     "author":{"@type":"Person","name":"Anna Benedetti"},
     "isbn":"9781234567890",
     "offers":{"@type":"Offer","price":"14.90","priceCurrency":"EUR"}}
    </script>
</head>
<body><h1>Salmi per il Cuore</h1></body>
</html>`

func TestExtractBookPage(t *testing.T) {
	url := "https://books.example.com/salmi"
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, bookPageHTML),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Error != "" {
		t.Fatalf("unexpected error: %q", meta.Error)
	}
	if meta.Title != "Salmi per il Cuore" {
		t.Errorf("title: got %q", meta.Title)
	}
	if meta.Author != "Anna Benedetti" {
		t.Errorf("author: got %q", meta.Author)
	}
	if meta.ISBN != "9781234567890" {
		t.Errorf("isbn: got %q", meta.ISBN)
	}
	if meta.Image != "https://cdn.example.com/covers/salmi.jpg" {
		t.Errorf("image: got %q", meta.Image)
	}
	if meta.Price == nil || *meta.Price != 14.90 {
		t.Errorf("price: got %v", meta.Price)
	}
	if meta.Description != "Una raccolta di preghiere e salmi." {
		t.Errorf("description: got %q", meta.Description)
	}
}

func TestExtractEmptyURL(t *testing.T) {
	e, f := newTestExtractor(nil)

	for _, raw := range []string{"", "   ", "\t\n"} {
		meta := e.Extract(context.Background(), raw)
		if meta.Error != "URL is required" {
			t.Errorf("input %q: error = %q, want %q", raw, meta.Error, "URL is required")
		}
		if f.lastIn != "" {
			t.Errorf("input %q: fetcher was called with %q", raw, f.lastIn)
		}
	}
}

func TestExtractSchemePrepended(t *testing.T) {
	url := "https://example.com/item"
	e, f := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, `<html><head><title>Item</title></head></html>`),
	})

	meta := e.Extract(context.Background(), "  example.com/item ")
	if f.lastIn != url {
		t.Errorf("fetched %q, want %q", f.lastIn, url)
	}
	if meta.Title != "Item" {
		t.Errorf("title: got %q", meta.Title)
	}
}

func TestExtractSchemePreserved(t *testing.T) {
	url := "http://example.com/plain"
	e, f := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, `<html><head><title>Plain</title></head></html>`),
	})

	e.Extract(context.Background(), url)
	if f.lastIn != url {
		t.Errorf("fetched %q, want %q", f.lastIn, url)
	}
}

func TestExtractFetchFailure(t *testing.T) {
	f := &stubFetcher{err: errors.New("dial tcp: connection refused")}
	e := New(f, testLogger)

	meta := e.Extract(context.Background(), "https://unreachable.example.com")
	if meta.Error == "" {
		t.Fatal("expected an error message")
	}
	if !meta.IsEmpty() {
		t.Errorf("expected no content fields, got %+v", meta)
	}
}

func TestExtractUpstreamRejection(t *testing.T) {
	url := "https://blocked.example.com"
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 403, "<html>Access Denied</html>"),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Error == "" {
		t.Fatal("expected an error message for HTTP 403")
	}
	if meta.Title != "" {
		t.Errorf("expected no title from a rejected page, got %q", meta.Title)
	}
}

func TestExtractMetaTagFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want types.Metadata
	}{
		{
			name: "twitter tags when og absent",
			html: `<html><head>
				<meta name="twitter:title" content="Tw Title">
				<meta name="twitter:image" content="https://x.test/i.png">
				<meta name="twitter:description" content="Tw desc">
				</head></html>`,
			want: types.Metadata{Title: "Tw Title", Image: "https://x.test/i.png", Description: "Tw desc"},
		},
		{
			name: "document title as last resort",
			html: `<html><head><title>Bare Title</title></head><body></body></html>`,
			want: types.Metadata{Title: "Bare Title"},
		},
		{
			name: "og wins over twitter and title",
			html: `<html><head>
				<title>Doc Title</title>
				<meta property="og:title" content="OG Title">
				<meta name="twitter:title" content="Tw Title">
				</head></html>`,
			want: types.Metadata{Title: "OG Title"},
		},
		{
			name: "description meta tag",
			html: `<html><head><meta name="description" content="Plain desc"></head></html>`,
			want: types.Metadata{Description: "Plain desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "https://fallback.example.com/p"
			e, _ := newTestExtractor(map[string]*types.Document{
				url: htmlDoc(url, 200, tt.html),
			})
			meta := e.Extract(context.Background(), url)
			if meta.Title != tt.want.Title {
				t.Errorf("title: got %q, want %q", meta.Title, tt.want.Title)
			}
			if meta.Image != tt.want.Image {
				t.Errorf("image: got %q, want %q", meta.Image, tt.want.Image)
			}
			if meta.Description != tt.want.Description {
				t.Errorf("description: got %q, want %q", meta.Description, tt.want.Description)
			}
		})
	}
}

func TestExtractBodyImageFallback(t *testing.T) {
	url := "https://noimage.example.com"
	html := `<html><head><title>T</title></head><body>
		<img src="data:image/gif;base64,R0lGOD">
		<img src="/assets/site-logo.png">
		<img src="/img/product-shot.jpg">
	</body></html>`
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, html),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Image != "/img/product-shot.jpg" {
		t.Errorf("image: got %q, want the first non-logo content image", meta.Image)
	}
}

func TestExtractPriceFromText(t *testing.T) {
	url := "https://shop.example.com/p"
	html := `<html><head><title>P</title></head>
		<body><span class="price">€ 12,50</span></body></html>`
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, html),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Price == nil || *meta.Price != 12.50 {
		t.Errorf("price: got %v, want 12.50", meta.Price)
	}
}

func TestExtractPriceUndeterminable(t *testing.T) {
	url := "https://nothing.example.com"
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, `<html><head><title>No commerce here</title></head></html>`),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Price != nil {
		t.Errorf("price: got %v, want nil", *meta.Price)
	}
	if meta.Error != "" {
		t.Errorf("a page without a price is not an error, got %q", meta.Error)
	}
}

func TestExtractISBNFromText(t *testing.T) {
	url := "https://text.example.com/book"
	html := `<html><head><title>B</title></head>
		<body><p>Details: ISBN: 978-88-04-68127-1, hardcover.</p></body></html>`
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, html),
	})

	meta := e.Extract(context.Background(), url)
	if meta.ISBN != "978-88-04-68127-1" {
		t.Errorf("isbn: got %q", meta.ISBN)
	}
}

func TestExtractStructuredDataTypeFiltering(t *testing.T) {
	url := "https://mixed.example.com"
	html := `<html><head><title>M</title>
		<script type="application/ld+json">
		{"@type":"BreadcrumbList","name":"Not a product"}
		</script>
		<script type="application/ld+json">
		{"@type":"Product","name":"Real Product","offers":{"price":9.99}}
		</script>
		</head></html>`
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, html),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Price == nil || *meta.Price != 9.99 {
		t.Errorf("price: got %v, want 9.99 from the Product block", meta.Price)
	}
}

func TestExtractMalformedJSONLDIgnored(t *testing.T) {
	url := "https://broken.example.com"
	html := `<html><head><title>Still Works</title>
		<script type="application/ld+json">{not valid json</script>
		</head></html>`
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, html),
	})

	meta := e.Extract(context.Background(), url)
	if meta.Error != "" {
		t.Fatalf("malformed JSON-LD must not fail extraction: %q", meta.Error)
	}
	if meta.Title != "Still Works" {
		t.Errorf("title: got %q", meta.Title)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/x  ", "https://example.com/x"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"HTTPS://example.com", "HTTPS://example.com"},
		{"ftp://example.com", "https://ftp://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	url := "https://books.example.com/salmi"
	e, _ := newTestExtractor(map[string]*types.Document{
		url: htmlDoc(url, 200, bookPageHTML),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Extract(context.Background(), url)
	}
}
