package storage

import (
	"context"
	"sync"

	"github.com/lucedivina/storefront/internal/types"
)

// MemoryStore keeps the catalog and settings in process memory. Used for
// tests and throwaway deployments; everything is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*types.Product
	settings *types.SiteSettings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]*types.Product)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p.Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, types.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) PutProduct(ctx context.Context, p *types.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p.Clone()
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return types.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ReplaceProducts(ctx context.Context, products []types.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*types.Product, len(products))
	for i := range products {
		next[products[i].ID] = products[i].Clone()
	}
	s.products = next
	return nil
}

func (s *MemoryStore) LoadSettings(ctx context.Context) (*types.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, nil
	}
	return s.settings.Clone(), nil
}

func (s *MemoryStore) SaveSettings(ctx context.Context, settings *types.SiteSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings.Clone()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
