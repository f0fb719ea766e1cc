package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/types"
)

// Store is the interface for catalog and settings persistence backends.
type Store interface {
	// ListProducts returns all products, unordered.
	ListProducts(ctx context.Context) ([]types.Product, error)

	// GetProduct returns the product with the given id, or
	// types.ErrProductNotFound.
	GetProduct(ctx context.Context, id string) (*types.Product, error)

	// PutProduct inserts or replaces a product by id.
	PutProduct(ctx context.Context, p *types.Product) error

	// DeleteProduct removes a product, or types.ErrProductNotFound.
	DeleteProduct(ctx context.Context, id string) error

	// ReplaceProducts atomically swaps the whole catalog.
	ReplaceProducts(ctx context.Context, products []types.Product) error

	// LoadSettings returns the saved site settings, or nil when none
	// have been saved yet.
	LoadSettings(ctx context.Context) (*types.SiteSettings, error)

	// SaveSettings persists the site settings.
	SaveSettings(ctx context.Context, s *types.SiteSettings) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the configured storage backend.
func New(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path, logger)
	case "mongodb":
		return NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, logger)
	case "postgres":
		return NewPostgresStore(cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
