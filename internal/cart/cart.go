// Package cart implements per-session shopping carts. Sessions are
// identified by an opaque client-supplied id; carts expire after a
// configurable idle TTL.
package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lucedivina/storefront/internal/storage"
	"github.com/lucedivina/storefront/internal/types"
)

// Item is a single cart line.
type Item struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Cart is a session's full cart with computed totals.
type Cart struct {
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	Count     int       `json:"count"`
	Total     float64   `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// recompute refreshes the Count and Total fields from the lines.
func (c *Cart) recompute() {
	c.Count = 0
	c.Total = 0
	for _, item := range c.Items {
		c.Count += item.Quantity
		c.Total += item.Price * float64(item.Quantity)
	}
	c.UpdatedAt = time.Now().UTC()
}

// Store persists carts keyed by session id.
type Store interface {
	// Load returns the session's cart, or nil when none exists.
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Save persists the cart under its session id.
	Save(ctx context.Context, cart *Cart) error

	// Delete drops the session's cart.
	Delete(ctx context.Context, sessionID string) error

	// Close releases resources.
	Close() error
}

// MemoryStore keeps carts in process memory with lazy TTL expiry.
type MemoryStore struct {
	ttl   time.Duration
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewMemoryStore creates an in-memory cart store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, carts: make(map[string]*Cart)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && time.Since(c.UpdatedAt) > s.ttl {
		delete(s.carts, sessionID)
		return nil, nil
	}
	clone := *c
	clone.Items = append([]Item(nil), c.Items...)
	return &clone, nil
}

func (s *MemoryStore) Save(ctx context.Context, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *cart
	clone.Items = append([]Item(nil), cart.Items...)
	s.carts[cart.SessionID] = &clone
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Service exposes cart operations over a Store, resolving product
// details from the catalog store so cart lines carry a price snapshot.
type Service struct {
	store    Store
	products storage.Store
	logger   *slog.Logger
}

// NewService creates a cart service.
func NewService(store Store, products storage.Store, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		logger:   logger.With("component", "cart"),
	}
}

// Get returns the session's cart, empty when none exists.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cart{SessionID: sessionID, Items: []Item{}}
		c.recompute()
	}
	return c, nil
}

// Add puts quantity units of a product into the cart, merging with an
// existing line for the same product.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item := Item{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Quantity:  quantity,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0]
		}
		c.Items = append(c.Items, item)
	}

	c.recompute()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug("cart item added", "session", sessionID, "product", productID, "quantity", quantity)
	return c, nil
}

// SetQuantity sets a line's quantity; zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	next := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID == productID {
			found = true
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
		}
		next = append(next, item)
	}
	if !found {
		return nil, types.ErrProductNotFound
	}
	c.Items = next

	c.recompute()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove drops a product line from the cart.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.SetQuantity(ctx, sessionID, productID, 0)
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}
