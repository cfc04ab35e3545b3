package model

// Product is one card scraped from a marketplace listing page. Name, Image
// and Price are carried through the vetting pipeline unmodified.
type Product struct {
	URL   string   `json:"url"`
	Name  string   `json:"name"`
	Image string   `json:"image,omitempty"`
	Price *float64 `json:"price,omitempty"`
}
