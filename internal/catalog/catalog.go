package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucedivina/storefront/internal/storage"
	"github.com/lucedivina/storefront/internal/types"
)

// ListFilter narrows and orders a catalog listing. Zero values mean
// no filtering and insertion order.
type ListFilter struct {
	// Kind restricts to "book" or "music".
	Kind string

	// Category matches any of the product's categories, case-insensitively.
	Category string

	// Query is a free-text match over title, author, and tags.
	Query string

	// Sort is one of "title", "price_asc", "price_desc", "newest".
	Sort string
}

// Service manages the product catalog over a storage backend.
type Service struct {
	store  storage.Store
	logger *slog.Logger
}

// NewService creates a catalog service. When the backing store is empty
// it is seeded with the starter catalog.
func NewService(ctx context.Context, store storage.Store, logger *slog.Logger) (*Service, error) {
	s := &Service{store: store, logger: logger.With("component", "catalog")}

	existing, err := store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		if err := store.ReplaceProducts(ctx, SeedProducts()); err != nil {
			return nil, err
		}
		s.logger.Info("catalog seeded", "products", len(SeedProducts()))
	}
	return s, nil
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]types.Product, error) {
	all, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.Product, 0, len(all))
	for _, p := range all {
		if matches(&p, filter) {
			out = append(out, p)
		}
	}
	sortProducts(out, filter.Sort)
	return out, nil
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (*types.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// Add inserts a new product, assigning an id and update timestamp.
// Kind defaults to book and status to in-stock when unset.
func (s *Service) Add(ctx context.Context, p *types.Product) (*types.Product, error) {
	draft := p.Clone()
	draft.ID = uuid.NewString()
	if draft.Kind == "" {
		draft.Kind = types.KindBook
	}
	if draft.Status == "" {
		draft.Status = types.StatusInStock
	}
	draft.UpdatedAt = time.Now().UTC()

	if err := s.store.PutProduct(ctx, draft); err != nil {
		return nil, err
	}
	s.logger.Info("product added", "id", draft.ID, "title", draft.Title)
	return draft, nil
}

// Update replaces an existing product, keeping its id.
func (s *Service) Update(ctx context.Context, id string, p *types.Product) (*types.Product, error) {
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	draft := p.Clone()
	draft.ID = id
	draft.UpdatedAt = time.Now().UTC()
	if err := s.store.PutProduct(ctx, draft); err != nil {
		return nil, err
	}
	s.logger.Info("product updated", "id", id)
	return draft, nil
}

// Remove deletes a product.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product removed", "id", id)
	return nil
}

// Reset restores the starter catalog, discarding all edits.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.ReplaceProducts(ctx, SeedProducts()); err != nil {
		return err
	}
	s.logger.Info("catalog reset to seed data")
	return nil
}

// ApplyMetadata merges an extraction result into a product draft.
// Only fields the draft leaves empty are filled, so manual edits win
// over scraped values.
func ApplyMetadata(draft *types.Product, meta *types.Metadata) {
	if meta == nil || meta.Error != "" {
		return
	}
	if draft.Title == "" {
		draft.Title = meta.Title
	}
	if draft.Author == "" {
		draft.Author = meta.Author
	}
	if draft.Code == "" {
		draft.Code = meta.ISBN
	}
	if draft.Description == "" {
		draft.Description = meta.Description
	}
	if draft.Price == 0 && meta.Price != nil {
		draft.Price = *meta.Price
	}
	if len(draft.Images) == 0 && meta.Image != "" {
		draft.Images = []string{meta.Image}
	}
}

func matches(p *types.Product, f ListFilter) bool {
	if f.Kind != "" && p.Kind != f.Kind {
		return false
	}
	if f.Category != "" {
		found := false
		for _, c := range p.Categories {
			if strings.EqualFold(c, f.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hay := strings.ToLower(p.Title + " " + p.Author + " " + strings.Join(p.Tags, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

func sortProducts(products []types.Product, order string) {
	switch order {
	case "title":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Title < products[j].Title
		})
	case "price_asc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case "price_desc":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case "newest":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].UpdatedAt.After(products[j].UpdatedAt)
		})
	default:
		// Stores back onto maps; pin a stable default order.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID < products[j].ID
		})
	}
}
