package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemRequest represents one product line of a sale
type SaleItemRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Quantity       int             `json:"quantity" binding:"required,min=1"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// SalePaymentRequest represents one payment applied to a sale
type SalePaymentRequest struct {
	PaymentMethodID uuid.UUID       `json:"payment_method_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber *string         `json:"reference_number"`
}

// SaleCustomerRequest identifies the customer by id or free-text details
type SaleCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	Name       *string    `json:"name"`
	Phone      *string    `json:"phone"`
	Email      *string    `json:"email" binding:"omitempty,email"`
}

// RecordSaleRequest represents a record sale request. Tax is document-level.
type RecordSaleRequest struct {
	Customer  SaleCustomerRequest  `json:"customer"`
	Items     []SaleItemRequest    `json:"items" binding:"required,min=1,dive"`
	Payments  []SalePaymentRequest `json:"payments" binding:"dive"`
	TaxAmount decimal.Decimal      `json:"tax_amount"`
	Notes     *string              `json:"notes"`
}

// TransactionFilterRequest represents transaction list filter parameters
type TransactionFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	CashierID  string `form:"cashier_id"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
