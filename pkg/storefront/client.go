// Package storefront provides a typed HTTP client for the storefront
// REST API.
//
// Example usage:
//
//	client := storefront.NewClient("http://localhost:8080",
//	    storefront.WithSessionID("my-session"),
//	)
//
//	meta, err := client.Scrape(ctx, "https://amazon.it/dp/B09XYZ123")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(meta.Title)
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lucedivina/storefront/internal/cart"
	"github.com/lucedivina/storefront/internal/types"
)

// Client talks to a storefront API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	sessionID  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the admin bearer token for privileged calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithSessionID sets the cart session identifier.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Scrape extracts product metadata from a remote URL. The returned
// record may carry an Error field when the remote site was unreachable.
func (c *Client) Scrape(ctx context.Context, url string) (*types.Metadata, error) {
	var meta types.Metadata
	err := c.do(ctx, http.MethodPost, "/api/scrape", map[string]string{"url": url}, &meta)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListProducts returns catalog products. The filter values map to the
// kind, category, q, and sort query parameters; empty strings are
// omitted.
func (c *Client) ListProducts(ctx context.Context, kind, category, query, sort string) ([]types.Product, error) {
	path := "/api/products?"
	for _, pair := range [][2]string{
		{"kind", kind}, {"category", category}, {"q", query}, {"sort", sort},
	} {
		if pair[1] != "" {
			path += pair[0] + "=" + pair[1] + "&"
		}
	}
	path = path[:len(path)-1]

	var products []types.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	var p types.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct adds a product. Requires an admin token.
func (c *Client) CreateProduct(ctx context.Context, p *types.Product) (*types.Product, error) {
	var created types.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces a product. Requires an admin token.
func (c *Client) UpdateProduct(ctx context.Context, id string, p *types.Product) (*types.Product, error) {
	var updated types.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product. Requires an admin token.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

// GetSettings returns the current site settings.
func (c *Client) GetSettings(ctx context.Context) (*types.SiteSettings, error) {
	var s types.SiteSettings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetCart returns the session's cart.
func (c *Client) GetCart(ctx context.Context) (*cart.Cart, error) {
	var out cart.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart puts a product into the session's cart.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*cart.Cart, error) {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	var out cart.Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/items", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with the admin password and stores the returned
// token on the client for subsequent privileged calls.
func (c *Client) Login(ctx context.Context, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"password": password}, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// Logout revokes the client's admin token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/admin/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
