package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceFromTransactionRequest represents the optional overrides
// when deriving an invoice from a POS transaction
type CreateInvoiceFromTransactionRequest struct {
	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes"`
	Terms   *string    `json:"terms"`
}

// InvoiceItemRequest represents one line of a standalone invoice
type InvoiceItemRequest struct {
	ProductID      *uuid.UUID      `json:"product_id"`
	ProductName    string          `json:"product_name" binding:"required,min=1,max=255"`
	ProductSKU     *string         `json:"product_sku"`
	Description    *string         `json:"description"`
	Quantity       int             `json:"quantity" binding:"required,min=1"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
}

// CreateInvoiceRequest represents a standalone invoice creation request
type CreateInvoiceRequest struct {
	CustomerID      *uuid.UUID           `json:"customer_id"`
	CustomerName    string               `json:"customer_name" binding:"required,min=1,max=255"`
	CustomerEmail   *string              `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone   *string              `json:"customer_phone"`
	CustomerAddress *string              `json:"customer_address"`
	Items           []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	Status          *string              `json:"status"`
	DueDate         *time.Time           `json:"due_date"`
	Notes           *string              `json:"notes"`
	Terms           *string              `json:"terms"`
}

// UpdateInvoiceStatusRequest represents an invoice status change request
type UpdateInvoiceStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// InvoiceFilterRequest represents invoice list filter parameters
type InvoiceFilterRequest struct {
	Status       string `form:"status"`
	CustomerName string `form:"customer_name"`
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}
