package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/lucedivina/storefront/internal/types"
)

const (
	productsFile = "products.json"
	settingsFile = "settings.json"
)

// FileStore persists the catalog and settings as pretty-printed JSON
// files in a data directory. Writes go through a temp file plus rename
// so a crash never leaves a half-written catalog.
type FileStore struct {
	dir      string
	mu       sync.RWMutex
	products map[string]*types.Product
	settings *types.SiteSettings
	logger   *slog.Logger
}

// NewFileStore creates the data directory if needed and loads any
// existing records.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{
		dir:      dir,
		products: make(map[string]*types.Product),
		logger:   logger.With("component", "file_store"),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) load() error {
	var products []types.Product
	err := readJSON(filepath.Join(s.dir, productsFile), &products)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load products: %w", err)
	}
	for i := range products {
		s.products[products[i].ID] = &products[i]
	}

	var settings types.SiteSettings
	err = readJSON(filepath.Join(s.dir, settingsFile), &settings)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run: settings stay nil until saved.
	case err != nil:
		return fmt.Errorf("load settings: %w", err)
	default:
		s.settings = &settings
	}

	s.logger.Debug("store loaded", "dir", s.dir, "products", len(s.products))
	return nil
}

func (s *FileStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p.Clone())
	}
	return out, nil
}

func (s *FileStore) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, types.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (s *FileStore) PutProduct(ctx context.Context, p *types.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p.Clone()
	return s.flushProducts()
}

func (s *FileStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return types.ErrProductNotFound
	}
	delete(s.products, id)
	return s.flushProducts()
}

func (s *FileStore) ReplaceProducts(ctx context.Context, products []types.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*types.Product, len(products))
	for i := range products {
		next[products[i].ID] = products[i].Clone()
	}
	s.products = next
	return s.flushProducts()
}

func (s *FileStore) LoadSettings(ctx context.Context) (*types.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, nil
	}
	return s.settings.Clone(), nil
}

func (s *FileStore) SaveSettings(ctx context.Context, settings *types.SiteSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings.Clone()
	return writeJSON(filepath.Join(s.dir, settingsFile), s.settings)
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("file store closing", "dir", s.dir, "products", len(s.products))
	return nil
}

// flushProducts writes the catalog file. Callers hold the write lock.
func (s *FileStore) flushProducts() error {
	out := make([]types.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return writeJSON(filepath.Join(s.dir, productsFile), out)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
