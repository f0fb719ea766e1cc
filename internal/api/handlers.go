package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/lucedivina/storefront/internal/catalog"
	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/settings"
	"github.com/lucedivina/storefront/internal/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

// handleScrape extracts product metadata from a remote URL. A missing
// url field is the only client error; upstream failures still answer
// 200 with the error carried inside the metadata record, so the admin
// form can show a partial result.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncRequest("scrape")

	var body struct {
		URL string `json:"url"`
	}
	// An empty body is just another missing-url shape; the admin form
	// relies on the exact error string.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "URL is required"})
		return
	}

	meta := s.extractor.Extract(r.Context(), body.URL)
	s.jsonResponse(w, http.StatusOK, meta)
}

// --- Catalog ---

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncRequest("products")

	q := r.URL.Query()
	filter := catalog.ListFilter{
		Kind:     q.Get("kind"),
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
	}

	products, err := s.catalog.List(r.Context(), filter)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p types.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	created, err := s.catalog.Add(r.Context(), &p)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p types.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	updated, err := s.catalog.Update(r.Context(), r.PathValue("id"), &p)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleResetProducts(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Reset(r.Context()); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}

// --- Site settings ---

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncRequest("settings")
	s.jsonResponse(w, http.StatusOK, s.settings.Get())
}

func (s *Server) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	var patch settings.BrandPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	updated, err := s.settings.UpdateBrand(r.Context(), patch)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var patch settings.ContactPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	updated, err := s.settings.UpdateContact(r.Context(), patch)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateSocial(w http.ResponseWriter, r *http.Request) {
	var social []types.SocialLink
	if err := json.NewDecoder(r.Body).Decode(&social); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	updated, err := s.settings.UpdateSocial(r.Context(), social)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateHero(w http.ResponseWriter, r *http.Request) {
	var patch settings.HeroPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	updated, err := s.settings.UpdateHero(r.Context(), patch)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateFonts(w http.ResponseWriter, r *http.Request) {
	var patch settings.FontsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	updated, err := s.settings.UpdateFonts(r.Context(), patch)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	updated, err := s.settings.Reset(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// --- Session cart ---

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	if session == "" {
		return
	}
	c, err := s.cart.Get(r.Context(), session)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	if session == "" {
		return
	}

	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if body.ProductID == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}

	c, err := s.cart.Add(r.Context(), session, body.ProductID, body.Quantity)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	if session == "" {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	c, err := s.cart.SetQuantity(r.Context(), session, r.PathValue("id"), body.Quantity)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	if session == "" {
		return
	}
	c, err := s.cart.Remove(r.Context(), session, r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	if session == "" {
		return
	}
	c, err := s.cart.Clear(r.Context(), session)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// --- Admin gate ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	token, err := s.auth.Login(body.Password)
	if err != nil {
		s.jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		s.auth.Logout(token)
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if body.NewPassword == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "new_password is required"})
		return
	}

	if err := s.auth.SetPassword(body.CurrentPassword, body.NewPassword); err != nil {
		s.jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// serviceError maps service errors onto HTTP statuses.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrProductNotFound):
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "product not found"})
	case errors.Is(err, types.ErrCartNotFound):
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "cart not found"})
	default:
		s.logger.Error("request failed", "error", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
