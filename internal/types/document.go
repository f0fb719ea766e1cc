package types

import (
	"bytes"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Document represents the result of fetching a target URL. It is
// request-scoped: created per extraction and discarded afterwards.
type Document struct {
	// URL is the normalized URL that was requested.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// Body is the raw response body bytes.
	Body []byte

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// FetchedAt is when this response was received.
	FetchedAt time.Time

	// doc is the parsed goquery document (lazily loaded).
	doc *goquery.Document
}

// NewDocument creates a Document from an http.Response body.
func NewDocument(url string, httpResp *http.Response, body []byte, duration time.Duration) *Document {
	finalURL := url
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		finalURL = httpResp.Request.URL.String()
	}
	return &Document{
		URL:           url,
		FinalURL:      finalURL,
		StatusCode:    httpResp.StatusCode,
		Headers:       httpResp.Header,
		Body:          body,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// NewBrowserDocument creates a Document from headless browser output.
func NewBrowserDocument(url, finalURL string, statusCode int, body []byte, duration time.Duration) *Document {
	return &Document{
		URL:           url,
		FinalURL:      finalURL,
		StatusCode:    statusCode,
		Headers:       make(http.Header),
		Body:          body,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// HTML returns the body as a string.
func (d *Document) HTML() string {
	return string(d.Body)
}

// Doc returns a parsed goquery document, lazily initializing it.
func (d *Document) Doc() (*goquery.Document, error) {
	if d.doc != nil {
		return d.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(d.Body))
	if err != nil {
		return nil, err
	}
	d.doc = doc
	return doc, nil
}

// IsSuccess returns true if the response status is 2xx.
func (d *Document) IsSuccess() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}
