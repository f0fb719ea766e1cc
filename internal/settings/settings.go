// Package settings manages the editable storefront configuration:
// branding, contact details, social links, hero banner, and fonts.
// Partial updates patch only the provided fields, matching the admin
// panel's per-section forms.
package settings

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lucedivina/storefront/internal/storage"
	"github.com/lucedivina/storefront/internal/types"
)

// DefaultSettings returns the out-of-the-box site configuration.
func DefaultSettings() *types.SiteSettings {
	return &types.SiteSettings{
		Brand: types.BrandSettings{
			SiteName:          "Luce Divina",
			SiteTagline:       "Libri e Musica Cristiana",
			LogoText:          "LD",
			FooterQuote:       "Il Signore è la mia luce e la mia salvezza",
			FooterQuoteSource: "Salmo 27:1",
		},
		Contact: types.ContactInfo{
			Email:   "info@lucedivina.it",
			Phone:   "+39 012 345 6789",
			Address: "Roma, Italia",
		},
		Social: []types.SocialLink{
			{Name: "Facebook", URL: "https://facebook.com", Enabled: true},
			{Name: "Instagram", URL: "https://instagram.com", Enabled: true},
			{Name: "YouTube", URL: "https://youtube.com", Enabled: true},
			{Name: "X", URL: "https://x.com", Enabled: false},
		},
		Hero: types.HeroContent{
			Badge:          "✝️ Nutri la tua fede con parole e melodie",
			Title:          "Libri e Musica per",
			TitleHighlight: "Illuminare",
			Subtitle:       "Scopri la nostra selezione curata di libri spirituali e musica cristiana. Ogni prodotto è scelto per ispirare, educare e accompagnare il tuo percorso di fede.",
			Stat1Value:     "500+",
			Stat1Label:     "Titoli disponibili",
			Stat2Value:     "50k+",
			Stat2Label:     "Clienti soddisfatti",
			Stat3Value:     "4.9",
			Stat3Label:     "Valutazione media",
		},
		Fonts: types.FontSettings{
			HeadingFont: "Montserrat",
			BodyFont:    "Open Sans",
		},
	}
}

// BrandPatch carries optional brand field updates.
type BrandPatch struct {
	SiteName          *string `json:"site_name"`
	SiteTagline       *string `json:"site_tagline"`
	LogoText          *string `json:"logo_text"`
	FooterQuote       *string `json:"footer_quote"`
	FooterQuoteSource *string `json:"footer_quote_source"`
}

// ContactPatch carries optional contact field updates.
type ContactPatch struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// HeroPatch carries optional hero banner field updates.
type HeroPatch struct {
	Badge           *string `json:"badge"`
	Title           *string `json:"title"`
	TitleHighlight  *string `json:"title_highlight"`
	Subtitle        *string `json:"subtitle"`
	BackgroundImage *string `json:"background_image"`
	Stat1Value      *string `json:"stat1_value"`
	Stat1Label      *string `json:"stat1_label"`
	Stat2Value      *string `json:"stat2_value"`
	Stat2Label      *string `json:"stat2_label"`
	Stat3Value      *string `json:"stat3_value"`
	Stat3Label      *string `json:"stat3_label"`
}

// FontsPatch carries optional typography updates.
type FontsPatch struct {
	HeadingFont *string `json:"heading_font"`
	BodyFont    *string `json:"body_font"`
}

// Service manages site settings over a storage backend. The current
// record is cached in memory; the store is the durable copy.
type Service struct {
	store  storage.Store
	logger *slog.Logger

	mu      sync.RWMutex
	current *types.SiteSettings
}

// NewService loads the saved settings, falling back to defaults when
// none have been saved yet.
func NewService(ctx context.Context, store storage.Store, logger *slog.Logger) (*Service, error) {
	saved, err := store.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = DefaultSettings()
	}
	return &Service{
		store:   store,
		logger:  logger.With("component", "settings"),
		current: saved,
	}, nil
}

// Get returns a copy of the current settings.
func (s *Service) Get() *types.SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// UpdateBrand patches the brand section.
func (s *Service) UpdateBrand(ctx context.Context, patch BrandPatch) (*types.SiteSettings, error) {
	return s.apply(ctx, func(cur *types.SiteSettings) {
		setString(&cur.Brand.SiteName, patch.SiteName)
		setString(&cur.Brand.SiteTagline, patch.SiteTagline)
		setString(&cur.Brand.LogoText, patch.LogoText)
		setString(&cur.Brand.FooterQuote, patch.FooterQuote)
		setString(&cur.Brand.FooterQuoteSource, patch.FooterQuoteSource)
	})
}

// UpdateContact patches the contact section.
func (s *Service) UpdateContact(ctx context.Context, patch ContactPatch) (*types.SiteSettings, error) {
	return s.apply(ctx, func(cur *types.SiteSettings) {
		setString(&cur.Contact.Email, patch.Email)
		setString(&cur.Contact.Phone, patch.Phone)
		setString(&cur.Contact.Address, patch.Address)
	})
}

// UpdateSocial replaces the whole social links list.
func (s *Service) UpdateSocial(ctx context.Context, social []types.SocialLink) (*types.SiteSettings, error) {
	return s.apply(ctx, func(cur *types.SiteSettings) {
		cur.Social = append([]types.SocialLink(nil), social...)
	})
}

// UpdateHero patches the hero banner section.
func (s *Service) UpdateHero(ctx context.Context, patch HeroPatch) (*types.SiteSettings, error) {
	return s.apply(ctx, func(cur *types.SiteSettings) {
		setString(&cur.Hero.Badge, patch.Badge)
		setString(&cur.Hero.Title, patch.Title)
		setString(&cur.Hero.TitleHighlight, patch.TitleHighlight)
		setString(&cur.Hero.Subtitle, patch.Subtitle)
		setString(&cur.Hero.BackgroundImage, patch.BackgroundImage)
		setString(&cur.Hero.Stat1Value, patch.Stat1Value)
		setString(&cur.Hero.Stat1Label, patch.Stat1Label)
		setString(&cur.Hero.Stat2Value, patch.Stat2Value)
		setString(&cur.Hero.Stat2Label, patch.Stat2Label)
		setString(&cur.Hero.Stat3Value, patch.Stat3Value)
		setString(&cur.Hero.Stat3Label, patch.Stat3Label)
	})
}

// UpdateFonts patches the typography section.
func (s *Service) UpdateFonts(ctx context.Context, patch FontsPatch) (*types.SiteSettings, error) {
	return s.apply(ctx, func(cur *types.SiteSettings) {
		setString(&cur.Fonts.HeadingFont, patch.HeadingFont)
		setString(&cur.Fonts.BodyFont, patch.BodyFont)
	})
}

// Reset restores the default settings.
func (s *Service) Reset(ctx context.Context) (*types.SiteSettings, error) {
	return s.apply(ctx, func(cur *types.SiteSettings) {
		*cur = *DefaultSettings()
	})
}

// apply mutates a copy of the current settings, persists it, and swaps
// it in on success.
func (s *Service) apply(ctx context.Context, mutate func(*types.SiteSettings)) (*types.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	mutate(next)
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return nil, err
	}
	s.current = next
	s.logger.Info("settings updated")
	return next.Clone(), nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
