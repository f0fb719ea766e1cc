package fetcher

import (
	"context"

	"github.com/lucedivina/storefront/internal/types"
)

// Fetcher retrieves a remote document for the metadata extractor.
type Fetcher interface {
	// Fetch retrieves the content at the given (already normalized) URL.
	// An error is returned only for transport-level failures; an HTTP
	// error status is reported through the Document's StatusCode.
	Fetch(ctx context.Context, url string) (*types.Document, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}
