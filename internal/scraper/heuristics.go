package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// pricePatterns are tried in order over the raw document text when no
// structured-data offer carried a price. First match wins.
var pricePatterns = []*regexp.Regexp{
	// symbol before amount: €12,50  $9.99  £ 7
	regexp.MustCompile(`[€$£]\s*([0-9]+(?:[.,][0-9]{1,2})?)`),
	// amount before symbol: 12,50 €
	regexp.MustCompile(`([0-9]+(?:[.,][0-9]{1,2})?)\s*[€$£]`),
	// labeled values: "price": "12.50"  amount: 12,50
	regexp.MustCompile(`(?i)["']?(?:price|amount)["']?\s*[:=]\s*["']?([0-9]+(?:[.,][0-9]{1,2})?)`),
	// data-price attributes
	regexp.MustCompile(`(?i)data-price=["']([0-9]+(?:[.,][0-9]{1,2})?)["']`),
}

// scanPrice applies the currency patterns to the document text.
// Returns nil when no pattern matches: an undeterminable price is nil,
// never zero, since zero would be indistinguishable from a free item.
func scanPrice(body string) *float64 {
	for _, re := range pricePatterns {
		if m := re.FindStringSubmatch(body); len(m) > 1 {
			if p := parsePrice(m[1]); p != nil {
				return p
			}
		}
	}
	return nil
}

// parsePrice parses a decimal amount, treating a comma as the decimal
// separator when no dot is present (European notation). Negative and
// malformed values yield nil.
func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "") // 1,234.56
		} else {
			s = strings.ReplaceAll(s, ",", ".") // 12,50
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// identifierPattern matches an ISBN/ASIN-labeled 10-17 character token.
var identifierPattern = regexp.MustCompile(`(?i)(?:ISBN|ASIN)[:\s]*([0-9A-Z][0-9A-Z-]{9,16})`)

// scanIdentifier scans the document text for a labeled identifier code.
func scanIdentifier(body string) string {
	if m := identifierPattern.FindStringSubmatch(body); len(m) > 1 {
		return m[1]
	}
	return ""
}
