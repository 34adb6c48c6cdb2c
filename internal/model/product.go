package model

import "time"

// Product represents a catalog product.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SKU       string    `json:"sku" db:"sku"`
	Price     Money     `json:"price"`
	Stock     int       `json:"stock" db:"stock"`
	Category  string    `json:"category" db:"category"`
	ImageURL  string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductSummary is the catalog lookup result consumed by the cart and the
// checkout bridge: identity, current price and stock, nothing more.
type ProductSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Stock int    `json:"stock"`
	SKU   string `json:"sku"`
}

// Summary projects the product onto its lookup view.
func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
		SKU:   p.SKU,
	}
}
