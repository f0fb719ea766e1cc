package scraper

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// candidateTypes are the structured-data types treated as product records.
var candidateTypes = map[string]bool{
	"Product":           true,
	"Book":              true,
	"IndividualProduct": true,
	"CreativeWork":      true,
}

// structuredData holds the fields of interest from a JSON-LD candidate.
type structuredData struct {
	Name        string
	Description string
	Image       string
	Author      string
	ISBN        string
	Price       *float64
}

// extractStructuredData scans <script type="application/ld+json"> blocks
// and returns the first candidate whose declared type matches. Blocks
// that fail to parse are skipped, never failing the whole extraction.
func extractStructuredData(doc *goquery.Document) *structuredData {
	var found *structuredData

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}
		for _, data := range decodeJSONLD(raw) {
			if cand := candidateFrom(data); cand != nil {
				found = cand
				return false
			}
		}
		return true
	})

	return found
}

// decodeJSONLD parses a raw block as a single object or an array of
// objects, flattening any @graph members into the result.
func decodeJSONLD(raw string) []map[string]any {
	var objs []map[string]any

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		objs = append(objs, obj)
	} else {
		var arr []map[string]any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			objs = append(objs, arr...)
		}
	}

	var flat []map[string]any
	for _, o := range objs {
		flat = append(flat, o)
		if graph, ok := o["@graph"].([]any); ok {
			for _, g := range graph {
				if gm, ok := g.(map[string]any); ok {
					flat = append(flat, gm)
				}
			}
		}
	}
	return flat
}

// candidateFrom builds a structuredData when the object's @type matches.
func candidateFrom(data map[string]any) *structuredData {
	if !typeMatches(data["@type"]) {
		return nil
	}
	sd := &structuredData{
		Name:        asString(data["name"]),
		Description: asString(data["description"]),
		Image:       imageString(data["image"]),
		Author:      authorName(data["author"]),
		ISBN:        asString(data["isbn"]),
		Price:       offerPrice(data["offers"]),
	}
	if sd.ISBN == "" {
		sd.ISBN = asString(data["gtin13"])
	}
	return sd
}

// typeMatches accepts both a bare type string and an array of types.
func typeMatches(v any) bool {
	switch t := v.(type) {
	case string:
		return candidateTypes[t]
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && candidateTypes[s] {
				return true
			}
		}
	}
	return false
}

// asString coerces a JSON scalar into a trimmed string. Identifier codes
// (gtin13) occasionally appear as bare numbers.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// imageString coerces the image field: a string, the first element of an
// array, or an ImageObject with a url member.
func imageString(v any) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case []any:
		if len(img) > 0 {
			return imageString(img[0])
		}
	case map[string]any:
		return asString(img["url"])
	}
	return ""
}

// authorName coerces the author field: a string, a Person object's name,
// or the first element of an array of either.
func authorName(v any) string {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case map[string]any:
		return asString(a["name"])
	case []any:
		if len(a) > 0 {
			return authorName(a[0])
		}
	}
	return ""
}

// offerPrice derives a price from the offers field (first offer when an
// array). Comma decimal separators are handled by parsePrice.
func offerPrice(v any) *float64 {
	switch offers := v.(type) {
	case map[string]any:
		return priceValue(offers["price"])
	case []any:
		if len(offers) > 0 {
			return offerPrice(offers[0])
		}
	}
	return nil
}

// priceValue coerces a price that may be a JSON number or a string.
func priceValue(v any) *float64 {
	switch p := v.(type) {
	case float64:
		if p < 0 {
			return nil
		}
		return &p
	case string:
		return parsePrice(p)
	}
	return nil
}
