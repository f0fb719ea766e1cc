package types

// Metadata is the normalized record extracted from a remote product page.
// Every field is best-effort: an empty string (or nil price) means the
// extractor could not determine the value from any source.
type Metadata struct {
	// Title is the product title.
	Title string `json:"title"`

	// Description is the product description or summary.
	Description string `json:"description"`

	// Image is the primary image URL (absolute or relative).
	Image string `json:"image"`

	// Price is the listed price. Nil when undeterminable; zero means the
	// page explicitly reported a free item.
	Price *float64 `json:"price"`

	// Author is the author, artist, or channel name.
	Author string `json:"author"`

	// ISBN is the ISBN/ASIN identifier code.
	ISBN string `json:"isbn"`

	// Error describes why extraction degraded, when it did. A populated
	// Error never accompanies a usable record.
	Error string `json:"error,omitempty"`
}

// IsEmpty reports whether no content field was resolved.
func (m *Metadata) IsEmpty() bool {
	return m.Title == "" && m.Description == "" && m.Image == "" &&
		m.Price == nil && m.Author == "" && m.ISBN == ""
}

// ErrorMetadata returns a Metadata carrying only an error message.
func ErrorMetadata(msg string) *Metadata {
	return &Metadata{Error: msg}
}

// Float64 returns a pointer to v, for populating Metadata.Price.
func Float64(v float64) *float64 { return &v }
