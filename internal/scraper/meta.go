package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// metaContent returns the content attribute of the first <meta> tag
// whose property or name attribute equals key. Attribute order within
// the tag is irrelevant since lookup happens on the parsed tree.
func metaContent(doc *goquery.Document, key string) string {
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
	content, _ := doc.Find(sel).First().Attr("content")
	return strings.TrimSpace(content)
}

// documentTitle returns the trimmed <title> text.
func documentTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// firstContentImage scans the markup for the first <img src> that looks
// like page content rather than chrome (logos, icons, inline data URIs).
// Last-resort image source when no meta tag or structured data provided one.
func firstContentImage(body []byte) string {
	root, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, node := range htmlquery.Find(root, "//img[@src]") {
		src := strings.TrimSpace(htmlquery.SelectAttr(node, "src"))
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		lower := strings.ToLower(src)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") {
			continue
		}
		return src
	}
	return ""
}
