package models

// Product is a catalog entry used to estimate quotation totals from the
// lead's free-text product interest.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
