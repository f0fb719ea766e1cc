package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestFetcher(t *testing.T) *HTTPFetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	f, err := NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	httpmock.ActivateNonDefault(f.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return f
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	f := newTestFetcher(t)

	var gotUA, gotAccept string
	httpmock.RegisterResponder("GET", "https://example.com/page",
		func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			gotAccept = req.Header.Get("Accept-Language")
			return httpmock.NewStringResponse(200, "<html><title>ok</title></html>"), nil
		})

	doc, err := f.Fetch(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !doc.IsSuccess() {
		t.Errorf("status: %d", doc.StatusCode)
	}
	if gotUA == "" || !bytes.Contains([]byte(gotUA), []byte("Mozilla/5.0")) {
		t.Errorf("User-Agent not browser-like: %q", gotUA)
	}
	if gotAccept == "" {
		t.Error("Accept-Language header missing")
	}
}

func TestFetchRotatesUserAgents(t *testing.T) {
	f := newTestFetcher(t)

	seen := make(map[string]bool)
	httpmock.RegisterResponder("GET", "https://example.com/",
		func(req *http.Request) (*http.Response, error) {
			seen[req.Header.Get("User-Agent")] = true
			return httpmock.NewStringResponse(200, "ok"), nil
		})

	for i := 0; i < 4; i++ {
		if _, err := f.Fetch(context.Background(), "https://example.com/"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if len(seen) != len(f.userAgents) {
		t.Errorf("saw %d distinct agents, want %d", len(seen), len(f.userAgents))
	}
}

func TestFetchErrorStatusIsNotAnError(t *testing.T) {
	f := newTestFetcher(t)

	httpmock.RegisterResponder("GET", "https://blocked.example.com/",
		httpmock.NewStringResponder(503, "Service Unavailable"))

	doc, err := f.Fetch(context.Background(), "https://blocked.example.com/")
	if err != nil {
		t.Fatalf("an HTTP error status must not be a fetch error: %v", err)
	}
	if doc.StatusCode != 503 {
		t.Errorf("status: got %d, want 503", doc.StatusCode)
	}
	if doc.IsSuccess() {
		t.Error("503 reported as success")
	}
}

func TestFetchTransportError(t *testing.T) {
	f := newTestFetcher(t)

	httpmock.RegisterResponder("GET", "https://down.example.com/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := f.Fetch(context.Background(), "https://down.example.com/")
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("error type: %T", err)
	}
}

func TestFetchGzipBody(t *testing.T) {
	f := newTestFetcher(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("<html><title>compressed</title></html>"))
	zw.Close()

	httpmock.RegisterResponder("GET", "https://gz.example.com/",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(200, buf.Bytes())
			resp.Header.Set("Content-Encoding", "gzip")
			return resp, nil
		})

	doc, err := f.Fetch(context.Background(), "https://gz.example.com/")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Contains(doc.Body, []byte("compressed")) {
		t.Errorf("body not decompressed: %q", doc.HTML())
	}
}

func TestFetchBodySizeLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fetcher.MaxBodySize = 16
	f, err := NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	httpmock.ActivateNonDefault(f.client)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("GET", "https://big.example.com/",
		httpmock.NewStringResponder(200, "0123456789012345678901234567890123456789"))

	doc, err := f.Fetch(context.Background(), "https://big.example.com/")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(doc.Body) != 16 {
		t.Errorf("body length: got %d, want 16", len(doc.Body))
	}
}
