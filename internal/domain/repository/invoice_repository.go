package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/retailops/backoffice-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// CreateWithItems persists the invoice header and its items as one
	// atomic unit; a failed item insert rolls back the header too. A
	// duplicate invoice number or duplicate transaction back-reference
	// surfaces as a conflict error.
	CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetWithItems loads the invoice with items and creator eagerly.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete hard-deletes the invoice and cascades to its items.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	GetStats(ctx context.Context) (*InvoiceStats, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination   *pagination.PaginationParams
	Status       *enum.InvoiceStatus
	CustomerName string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// InvoiceStats aggregates invoice counts and sums by status. Sums are zero,
// never null, when no rows match.
type InvoiceStats struct {
	TotalInvoices   int64           `json:"total_invoices"`
	PaidInvoices    int64           `json:"paid_invoices"`
	PendingInvoices int64           `json:"pending_invoices"`
	OverdueInvoices int64           `json:"overdue_invoices"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
}
