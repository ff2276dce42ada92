package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a billing document, either derived from a POS transaction or
// created standalone. Customer fields are snapshots captured at creation so
// the document survives later customer edits. Invoices are hard-deleted;
// deleting one cascades to its items. The unique index on transaction_id
// prevents two racing callers from producing two invoices for one sale.
type Invoice struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"company_id"`
	InvoiceNumber   string             `gorm:"size:100;uniqueIndex;not null" json:"invoice_number"`
	TransactionID   *uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"transaction_id,omitempty"`
	OrderID         *uuid.UUID         `gorm:"type:uuid;index" json:"order_id,omitempty"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail   *string            `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerPhone   *string            `gorm:"size:50" json:"customer_phone,omitempty"`
	CustomerAddress *string            `gorm:"type:text" json:"customer_address,omitempty"`
	SubTotal        decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	TaxAmount       decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	DiscountAmount  decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	TotalAmount     decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Status          enum.InvoiceStatus `gorm:"size:20;not null;default:'draft'" json:"status"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	PaidDate        *time.Time         `json:"paid_date,omitempty"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	Terms           *string            `gorm:"type:text" json:"terms,omitempty"`
	CreatedBy       uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	// Relationships
	Transaction *POSTransaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Creator     User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one line within an invoice. ProductID may be nil when the
// product was deleted or the invoice is ad hoc; the name/SKU/description
// snapshots keep the document readable regardless. LineTotal is a pure
// function of the item's own quantity, price, discount and tax.
type InvoiceItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID      *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName    string          `gorm:"size:255;not null" json:"product_name"`
	ProductSKU     *string         `gorm:"size:100" json:"product_sku,omitempty"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
