package types

import "time"

// Product kinds.
const (
	KindBook  = "book"
	KindMusic = "music"
)

// Availability states.
const (
	StatusInStock    = "in_stock"
	StatusOutOfStock = "out_of_stock"
)

// Product is a catalog record: a book or a music item sold by the store.
type Product struct {
	ID          string    `json:"id"            bson:"_id"`
	Kind        string    `json:"kind"          bson:"kind"`
	Title       string    `json:"title"         bson:"title"`
	Author      string    `json:"author"        bson:"author"`
	Code        string    `json:"code"          bson:"code"` // ISBN or ASIN
	Price       float64   `json:"price"         bson:"price"`
	Language    string    `json:"language"      bson:"language"`
	Format      string    `json:"format"        bson:"format"`
	Description string    `json:"description"   bson:"description"`
	Images      []string  `json:"images"        bson:"images"`
	SourceURL   string    `json:"source_url"    bson:"source_url"`
	Categories  []string  `json:"categories"    bson:"categories"`
	Tags        []string  `json:"tags"          bson:"tags"`
	Inventory   int       `json:"inventory"     bson:"inventory"`
	Status      string    `json:"status"        bson:"status"`
	Rating      float64   `json:"rating,omitempty"  bson:"rating,omitempty"`
	Reviews     int       `json:"reviews,omitempty" bson:"reviews,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"    bson:"updated_at"`
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	clone.Categories = append([]string(nil), p.Categories...)
	clone.Tags = append([]string(nil), p.Tags...)
	return &clone
}
