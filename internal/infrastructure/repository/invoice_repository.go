package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	domainRepo "github.com/retailops/backoffice-api/internal/domain/repository"
	"github.com/retailops/backoffice-api/pkg/apperror"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// CreateWithItems writes the invoice header and its items in one database
// transaction: nothing is visible until every item row commits, and any
// failure rolls back the header too. Unique violations (invoice number, or
// a second invoice for the same POS transaction) surface as conflicts.
func (r *invoiceRepository) CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&items).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("Duplicate invoice number or transaction already invoiced")
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(CompanyScope(ctx)).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(CompanyScope(ctx)).
		Preload("Items").
		Preload("Customer").
		Preload("Creator").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// Delete hard-deletes the invoice and its items in one transaction. The
// POS transaction the invoice was derived from is never touched.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(CompanyScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerName != "" {
		query = query.Where("customer_name ILIKE ?", "%"+params.CustomerName+"%")
	}

	if params.DateFrom != nil {
		query = query.Where("created_at >= ?", *params.DateFrom)
	}

	if params.DateTo != nil {
		query = query.Where("created_at <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

// GetStats aggregates counts and sums by status for the scoped company.
// COALESCE keeps the sums at 0 when no rows match.
func (r *invoiceRepository) GetStats(ctx context.Context) (*domainRepo.InvoiceStats, error) {
	var stats domainRepo.InvoiceStats

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(CompanyScope(ctx))

	err := query.Select(`
		COUNT(*) as total_invoices,
		COUNT(*) FILTER (WHERE status = ?) as paid_invoices,
		COUNT(*) FILTER (WHERE status IN (?, ?)) as pending_invoices,
		COUNT(*) FILTER (WHERE status = ?) as overdue_invoices,
		COALESCE(SUM(total_amount) FILTER (WHERE status = ?), 0) as total_revenue,
		COALESCE(SUM(total_amount) FILTER (WHERE status IN (?, ?)), 0) as pending_amount`,
		enum.InvoiceStatusPaid,
		enum.InvoiceStatusDraft, enum.InvoiceStatusSent,
		enum.InvoiceStatusOverdue,
		enum.InvoiceStatusPaid,
		enum.InvoiceStatusDraft, enum.InvoiceStatusSent,
	).Scan(&stats).Error

	if err != nil {
		return nil, err
	}

	return &stats, nil
}
