package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// POSTransaction is the source-of-truth record of a completed checkout.
// The header, its items and its payments are written in one database
// transaction when the sale completes; the record is read-mostly afterward
// and is never deleted by invoice operations.
type POSTransaction struct {
	ID                uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID         uuid.UUID              `gorm:"type:uuid;not null;index" json:"company_id"`
	TransactionNumber string                 `gorm:"size:100;uniqueIndex;not null" json:"transaction_number"`
	CustomerID        *uuid.UUID             `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName      *string                `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone     *string                `gorm:"size:50" json:"customer_phone,omitempty"`
	CustomerEmail     *string                `gorm:"size:255" json:"customer_email,omitempty"`
	SubTotal          decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	TaxAmount         decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	DiscountAmount    decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	TotalAmount       decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Status            enum.TransactionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus     enum.PaymentStatus     `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`
	CashierID         uuid.UUID              `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Notes             *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`

	// Relationships
	Customer *Customer            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Cashier  User                 `gorm:"foreignKey:CashierID" json:"-"`
	Items    []POSTransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
	Payments []POSPayment         `gorm:"foreignKey:TransactionID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new POS transaction
func (t *POSTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSTransaction model
func (POSTransaction) TableName() string {
	return "pos_transactions"
}

// POSTransactionItem is one product line within a POS transaction. Name and
// SKU are snapshots taken at sale time. LineTotal is always computed from
// quantity, price and discount; it is never set independently.
type POSTransactionItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName    string          `gorm:"size:255;not null" json:"product_name"`
	ProductSKU     string          `gorm:"size:100" json:"product_sku"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (ti *POSTransactionItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSTransactionItem model
func (POSTransactionItem) TableName() string {
	return "pos_transaction_items"
}

// POSPayment records one payment applied to a transaction.
type POSPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_method_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status          string          `gorm:"size:20;not null;default:'completed'" json:"status"`
	ReferenceNumber *string         `gorm:"size:100" json:"reference_number,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *POSPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSPayment model
func (POSPayment) TableName() string {
	return "pos_payments"
}

// PaidAmount sums all recorded payments for the transaction.
func (t *POSTransaction) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range t.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}
