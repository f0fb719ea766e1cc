package types

// SocialLink is a single social media entry shown in the site footer.
type SocialLink struct {
	Name    string `json:"name"    bson:"name"`
	URL     string `json:"url"     bson:"url"`
	Enabled bool   `json:"enabled" bson:"enabled"`
}

// ContactInfo holds the store's public contact details.
type ContactInfo struct {
	Email   string `json:"email"   bson:"email"`
	Phone   string `json:"phone"   bson:"phone"`
	Address string `json:"address" bson:"address"`
}

// HeroContent drives the storefront landing banner.
type HeroContent struct {
	Badge           string `json:"badge"             bson:"badge"`
	Title           string `json:"title"             bson:"title"`
	TitleHighlight  string `json:"title_highlight"   bson:"title_highlight"`
	Subtitle        string `json:"subtitle"          bson:"subtitle"`
	BackgroundImage string `json:"background_image"  bson:"background_image"`
	Stat1Value      string `json:"stat1_value"       bson:"stat1_value"`
	Stat1Label      string `json:"stat1_label"       bson:"stat1_label"`
	Stat2Value      string `json:"stat2_value"       bson:"stat2_value"`
	Stat2Label      string `json:"stat2_label"       bson:"stat2_label"`
	Stat3Value      string `json:"stat3_value"       bson:"stat3_value"`
	Stat3Label      string `json:"stat3_label"       bson:"stat3_label"`
}

// BrandSettings holds site naming and footer branding.
type BrandSettings struct {
	SiteName          string `json:"site_name"           bson:"site_name"`
	SiteTagline       string `json:"site_tagline"        bson:"site_tagline"`
	LogoText          string `json:"logo_text"           bson:"logo_text"`
	FooterQuote       string `json:"footer_quote"        bson:"footer_quote"`
	FooterQuoteSource string `json:"footer_quote_source" bson:"footer_quote_source"`
}

// FontSettings selects the storefront typography.
type FontSettings struct {
	HeadingFont string `json:"heading_font" bson:"heading_font"`
	BodyFont    string `json:"body_font"    bson:"body_font"`
}

// SiteSettings is the complete editable site configuration record.
type SiteSettings struct {
	Brand   BrandSettings `json:"brand"   bson:"brand"`
	Contact ContactInfo   `json:"contact" bson:"contact"`
	Social  []SocialLink  `json:"social"  bson:"social"`
	Hero    HeroContent   `json:"hero"    bson:"hero"`
	Fonts   FontSettings  `json:"fonts"   bson:"fonts"`
}

// Clone returns a deep copy of the settings.
func (s *SiteSettings) Clone() *SiteSettings {
	clone := *s
	clone.Social = append([]SocialLink(nil), s.Social...)
	return &clone
}
