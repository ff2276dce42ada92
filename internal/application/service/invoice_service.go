package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/retailops/backoffice-api/internal/domain/repository"
	infraRepo "github.com/retailops/backoffice-api/internal/infrastructure/repository"
	"github.com/retailops/backoffice-api/pkg/apperror"
	"github.com/retailops/backoffice-api/pkg/docnum"
	"github.com/retailops/backoffice-api/pkg/money"
	"github.com/retailops/backoffice-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DefaultPOSInvoiceTerms is the payment terms applied to invoices derived
// from a completed point-of-sale transaction unless the caller overrides it.
const DefaultPOSInvoiceTerms = "Payment received at point of sale"

// InvoiceService turns POS sales into durable invoices, creates standalone
// invoices, and manages the invoice lifecycle
type InvoiceService struct {
	invoiceRepo     repository.InvoiceRepository
	transactionRepo repository.POSTransactionRepository
	customerRepo    repository.CustomerRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	transactionRepo repository.POSTransactionRepository,
	customerRepo repository.CustomerRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
	}
}

// FromTransactionInput carries the optional overrides when deriving an
// invoice from a POS transaction
type FromTransactionInput struct {
	CreatedBy uuid.UUID
	DueDate   *time.Time
	Notes     *string
	Terms     *string
}

// InvoiceItemInput represents one line of a standalone invoice
type InvoiceItemInput struct {
	ProductID      *uuid.UUID
	ProductName    string
	ProductSKU     *string
	Description    *string
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
}

// StandaloneInvoiceInput represents the create standalone invoice input
type StandaloneInvoiceInput struct {
	CreatedBy       uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    string
	CustomerEmail   *string
	CustomerPhone   *string
	CustomerAddress *string
	Items           []InvoiceItemInput
	Status          *enum.InvoiceStatus
	DueDate         *time.Time
	Notes           *string
	Terms           *string
}

// invoiceFromTransaction maps a POS transaction into an invoice header with
// a fixed, explicit field list. Customer identity and monetary totals are
// copied verbatim: the sale is authoritative for a point-of-sale-originated
// invoice, and recomputing from items could diverge from transaction-level
// adjustments.
func invoiceFromTransaction(txn *entity.POSTransaction) *entity.Invoice {
	customerName := "Walk-in Customer"
	if txn.CustomerName != nil && *txn.CustomerName != "" {
		customerName = *txn.CustomerName
	} else if txn.Customer != nil {
		customerName = txn.Customer.Name
	}

	inv := &entity.Invoice{
		CompanyID:      txn.CompanyID,
		TransactionID:  &txn.ID,
		CustomerID:     txn.CustomerID,
		CustomerName:   customerName,
		CustomerPhone:  txn.CustomerPhone,
		CustomerEmail:  txn.CustomerEmail,
		SubTotal:       txn.SubTotal,
		TaxAmount:      txn.TaxAmount,
		DiscountAmount: txn.DiscountAmount,
		TotalAmount:    txn.TotalAmount,
	}
	if txn.Customer != nil {
		if inv.CustomerEmail == nil {
			inv.CustomerEmail = txn.Customer.Email
		}
		if inv.CustomerPhone == nil {
			inv.CustomerPhone = txn.Customer.Phone
		}
		inv.CustomerAddress = txn.Customer.Address
	}
	return inv
}

// CreateFromTransaction derives an invoice from an existing POS transaction.
// The transaction's totals are carried over verbatim, each transaction item
// becomes an invoice item with zero per-line tax (POS tax lives at the
// document level, copying it per line would double count), and the invoice
// is born paid since the money already changed hands at the register.
func (s *InvoiceService) CreateFromTransaction(ctx context.Context, transactionID uuid.UUID, input *FromTransactionInput) (*entity.Invoice, error) {
	if _, ok := infraRepo.GetCompanyID(ctx); !ok {
		return nil, apperror.NewBadRequestError("Company context required")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, apperror.NewBadRequestError("User context required")
	}

	txn, err := s.transactionRepo.GetWithItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	now := time.Now()
	invoice := invoiceFromTransaction(txn)
	invoice.InvoiceNumber = docnum.InvoiceNumber(now)
	invoice.Status = enum.InvoiceStatusPaid
	invoice.PaidDate = &now
	invoice.CreatedBy = input.CreatedBy
	invoice.DueDate = input.DueDate
	invoice.Notes = input.Notes
	if input.Terms != nil {
		invoice.Terms = input.Terms
	} else {
		terms := DefaultPOSInvoiceTerms
		invoice.Terms = &terms
	}

	items := make([]entity.InvoiceItem, 0, len(txn.Items))
	for _, ti := range txn.Items {
		productID := ti.ProductID
		sku := ti.ProductSKU
		items = append(items, entity.InvoiceItem{
			ProductID:      &productID,
			ProductName:    ti.ProductName,
			ProductSKU:     &sku,
			Quantity:       ti.Quantity,
			UnitPrice:      ti.UnitPrice,
			DiscountAmount: ti.DiscountAmount,
			TaxAmount:      decimal.Zero,
			LineTotal:      ti.LineTotal,
		})
	}

	if err := s.invoiceRepo.CreateWithItems(ctx, invoice, items); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// CreateStandalone creates an invoice from a caller-supplied item list.
// Unlike the transaction path, the items are authoritative here: there is
// no prior ledger, so totals are computed from them by the calculator.
func (s *InvoiceService) CreateStandalone(ctx context.Context, input *StandaloneInvoiceInput) (*entity.Invoice, error) {
	companyID, ok := infraRepo.GetCompanyID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Company context required")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, apperror.NewBadRequestError("User context required")
	}

	var fieldErrors []apperror.FieldError
	if input.CustomerName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "is required"})
	}
	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	lines := make([]money.Line, len(input.Items))
	items := make([]entity.InvoiceItem, 0, len(input.Items))
	for i, item := range input.Items {
		if item.ProductName == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].product_name", i),
				Message: "is required",
			})
			continue
		}
		lineTotal, err := money.LineTotal(item.Quantity, item.UnitPrice, item.DiscountAmount, item.TaxAmount)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: err.Error(),
			})
			continue
		}
		lines[i] = money.Line{
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			TaxAmount:      item.TaxAmount,
		}
		items = append(items, entity.InvoiceItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ProductSKU:     item.ProductSKU,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			TaxAmount:      item.TaxAmount,
			LineTotal:      lineTotal,
		})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	totals, err := money.DocumentTotals(lines)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	status := enum.InvoiceStatusDraft
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid invoice status %q", *input.Status))
		}
		status = *input.Status
	}

	now := time.Now()
	invoice := &entity.Invoice{
		CompanyID:       companyID,
		InvoiceNumber:   docnum.InvoiceNumber(now),
		CustomerID:      input.CustomerID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		SubTotal:        totals.SubTotal,
		TaxAmount:       totals.TaxAmount,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.TotalAmount,
		Status:          status,
		DueDate:         input.DueDate,
		Notes:           input.Notes,
		Terms:           input.Terms,
		CreatedBy:       input.CreatedBy,
	}
	if status == enum.InvoiceStatusPaid {
		invoice.PaidDate = &now
	}

	if err := s.invoiceRepo.CreateWithItems(ctx, invoice, items); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// SetStatus transitions the invoice lifecycle. Illegal transitions are
// rejected with a conflict error; transitioning into paid stamps paid_date
// once and never overwrites it, so re-marking paid stays idempotent.
func (s *InvoiceService) SetStatus(ctx context.Context, id uuid.UUID, newStatus enum.InvoiceStatus, notes *string) (*entity.Invoice, error) {
	if !newStatus.IsValid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid invoice status %q", newStatus))
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if !invoice.Status.CanTransitionTo(newStatus) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot transition invoice from %s to %s", invoice.Status, newStatus))
	}

	invoice.Status = newStatus
	if newStatus == enum.InvoiceStatusPaid && invoice.PaidDate == nil {
		now := time.Now()
		invoice.PaidDate = &now
	}
	if notes != nil && *notes != "" {
		if invoice.Notes != nil && *invoice.Notes != "" {
			appended := *invoice.Notes + "\n" + *notes
			invoice.Notes = &appended
		} else {
			invoice.Notes = notes
		}
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, id)
}

// GetInvoice retrieves an invoice with items and creator
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering and offset pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// DeleteInvoice hard-deletes an invoice and its items. The underlying POS
// transaction, if any, is untouched.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// GetStats returns aggregate invoice statistics for the scoped company
func (s *InvoiceService) GetStats(ctx context.Context) (*repository.InvoiceStats, error) {
	if _, ok := infraRepo.GetCompanyID(ctx); !ok {
		return nil, apperror.NewBadRequestError("Company context required")
	}
	return s.invoiceRepo.GetStats(ctx)
}
