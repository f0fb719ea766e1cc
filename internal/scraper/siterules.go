package scraper

import (
	"regexp"
	"strings"

	"github.com/lucedivina/storefront/internal/types"
)

// SiteRule is a host-keyed post-processing step applied after generic
// extraction. Apply is a pure transformation: it receives the metadata
// by value and returns the adjusted copy.
type SiteRule struct {
	Name  string
	Match func(host string) bool
	Apply func(meta types.Metadata, target string, doc *types.Document) types.Metadata
}

// DefaultSiteRules returns the built-in rules, in application order.
func DefaultSiteRules() []SiteRule {
	return []SiteRule{amazonRule(), youtubeRule()}
}

// amazonSizeToken is the resize/quality transformation segment embedded
// in Amazon image URLs: a dot-delimited token of uppercase letters,
// digits and commas starting with an underscore.
var amazonSizeToken = regexp.MustCompile(`(?i)\._[A-Z0-9,]+_\.`)

func amazonRule() SiteRule {
	return SiteRule{
		Name: "amazon",
		Match: func(host string) bool {
			return strings.Contains(host, "amazon")
		},
		Apply: func(meta types.Metadata, target string, doc *types.Document) types.Metadata {
			if meta.Image != "" {
				// .../I/abc._AC_SY300_.jpg -> .../I/abc.jpg (unscaled)
				meta.Image = amazonSizeToken.ReplaceAllString(meta.Image, ".")
			}
			return meta
		},
	}
}

var (
	youtubeVideoID      = regexp.MustCompile(`(?:v=|/embed/|/v/|youtu\.be/|/shorts/)([^#&?/]+)`)
	youtubeOwnerChannel = regexp.MustCompile(`"ownerChannelName"\s*:\s*"([^"]+)"`)
	youtubeScriptAuthor = regexp.MustCompile(`(?i)"author"\s*:\s*"([^"]+)"`)
)

func youtubeRule() SiteRule {
	return SiteRule{
		Name: "youtube",
		Match: func(host string) bool {
			return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
		},
		Apply: func(meta types.Metadata, target string, doc *types.Document) types.Metadata {
			if meta.Image == "" {
				// No og:image: rebuild the thumbnail from the video ID.
				if id := youtubeID(target); id != "" {
					meta.Image = "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
				}
			} else if strings.Contains(meta.Image, "hqdefault.jpg") {
				meta.Image = strings.Replace(meta.Image, "hqdefault.jpg", "maxresdefault.jpg", 1)
			}
			if meta.Author == "" {
				meta.Author = youtubeChannel(meta.Title, doc)
			}
			return meta
		},
	}
}

// youtubeID parses the video identifier out of watch, embed, short-link
// and shorts URL shapes.
func youtubeID(target string) string {
	if m := youtubeVideoID.FindStringSubmatch(target); len(m) > 1 {
		return m[1]
	}
	return ""
}

// youtubeChannel resolves the owning channel name through an ordered
// fallback chain: channel-name markup attribute, player script fields,
// then the " - YouTube" title suffix.
func youtubeChannel(title string, doc *types.Document) string {
	if gq, err := doc.Doc(); err == nil {
		if name, ok := gq.Find(`link[itemprop="name"]`).First().Attr("content"); ok {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}

	body := doc.HTML()
	if m := youtubeOwnerChannel.FindStringSubmatch(body); len(m) > 1 {
		return m[1]
	}
	if m := youtubeScriptAuthor.FindStringSubmatch(body); len(m) > 1 {
		return m[1]
	}

	if strings.HasSuffix(title, " - YouTube") {
		parts := strings.Split(title, " - ")
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[len(parts)-2])
		}
	}
	return ""
}
