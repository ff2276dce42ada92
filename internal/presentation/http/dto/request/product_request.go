package request

import "github.com/shopspring/decimal"

// ProductRequest represents a product create/update request. Price accepts
// a JSON number or a quoted decimal string; it is never parsed as float.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	SKU         string          `json:"sku" binding:"required,min=1,max=100"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
