package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/retailops/backoffice-api/internal/domain/repository"
	infraRepo "github.com/retailops/backoffice-api/internal/infrastructure/repository"
	"github.com/retailops/backoffice-api/pkg/apperror"
	"github.com/retailops/backoffice-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc          *InvoiceService
	invoices     *fakeInvoiceRepo
	transactions *fakeTransactionRepo
	customers    *fakeCustomerRepo
	ctx          context.Context
	companyID    uuid.UUID
	userID       uuid.UUID
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	f := &invoiceFixture{
		invoices:     newFakeInvoiceRepo(),
		transactions: newFakeTransactionRepo(),
		customers:    newFakeCustomerRepo(),
		companyID:    uuid.New(),
		userID:       uuid.New(),
	}
	f.ctx = infraRepo.WithCompany(context.Background(), f.companyID)
	f.svc = NewInvoiceService(f.invoices, f.transactions, f.customers)
	return f
}

// seedTransaction stores a completed POS transaction with two items, tax at
// the document level, matching what RecordSale would have produced.
func (f *invoiceFixture) seedTransaction(t *testing.T) *entity.POSTransaction {
	t.Helper()
	name := "Jane Doe"
	phone := "0700000000"
	txn := &entity.POSTransaction{
		CompanyID:      f.companyID,
		CustomerName:   &name,
		CustomerPhone:  &phone,
		SubTotal:       dec("200.00"),
		TaxAmount:      dec("18.00"),
		DiscountAmount: dec("0"),
		TotalAmount:    dec("218.00"),
		Status:         enum.TransactionStatusCompleted,
		CashierID:      uuid.New(),
	}
	items := []entity.POSTransactionItem{
		{
			ProductID:   uuid.New(),
			ProductName: "Widget",
			ProductSKU:  "WID-1",
			Quantity:    2,
			UnitPrice:   dec("100.00"),
			LineTotal:   dec("200.00"),
		},
	}
	require.NoError(t, f.transactions.CreateWithItems(f.ctx, txn, items, nil))
	return txn
}

func TestCreateFromTransaction(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := f.seedTransaction(t)

	invoice, err := f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{
		CreatedBy: f.userID,
	})
	require.NoError(t, err)

	// Totals are copied verbatim from the transaction
	assert.True(t, invoice.SubTotal.Equal(dec("200.00")))
	assert.True(t, invoice.TaxAmount.Equal(dec("18.00")))
	assert.True(t, invoice.TotalAmount.Equal(dec("218.00")))

	// Customer identity is snapshotted
	assert.Equal(t, "Jane Doe", invoice.CustomerName)
	require.NotNil(t, invoice.CustomerPhone)
	assert.Equal(t, "0700000000", *invoice.CustomerPhone)

	// Born paid with the paid date stamped
	assert.Equal(t, enum.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidDate)
	assert.WithinDuration(t, time.Now(), *invoice.PaidDate, time.Minute)

	// Default terms when none given
	require.NotNil(t, invoice.Terms)
	assert.Equal(t, DefaultPOSInvoiceTerms, *invoice.Terms)

	assert.True(t, strings.HasPrefix(invoice.InvoiceNumber, "INV-"))
	require.NotNil(t, invoice.TransactionID)
	assert.Equal(t, txn.ID, *invoice.TransactionID)

	// Items carry the POS line totals verbatim with zero per-line tax
	require.Len(t, invoice.Items, 1)
	item := invoice.Items[0]
	assert.Equal(t, "Widget", item.ProductName)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.TaxAmount.IsZero())
	assert.True(t, item.LineTotal.Equal(dec("200.00")))
}

func TestCreateFromTransactionWalkInCustomer(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := &entity.POSTransaction{
		CompanyID:   f.companyID,
		SubTotal:    dec("10.00"),
		TotalAmount: dec("10.00"),
		Status:      enum.TransactionStatusCompleted,
		CashierID:   uuid.New(),
	}
	require.NoError(t, f.transactions.CreateWithItems(f.ctx, txn, nil, nil))

	invoice, err := f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{
		CreatedBy: f.userID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Walk-in Customer", invoice.CustomerName)
}

func TestCreateFromTransactionOverrides(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := f.seedTransaction(t)

	due := time.Now().AddDate(0, 0, 30)
	notes := "delivered on site"
	terms := "Net 30"
	invoice, err := f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{
		CreatedBy: f.userID,
		DueDate:   &due,
		Notes:     &notes,
		Terms:     &terms,
	})
	require.NoError(t, err)
	require.NotNil(t, invoice.Terms)
	assert.Equal(t, "Net 30", *invoice.Terms)
	require.NotNil(t, invoice.Notes)
	assert.Equal(t, "delivered on site", *invoice.Notes)
	require.NotNil(t, invoice.DueDate)
}

func TestCreateFromTransactionNotFound(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.CreateFromTransaction(f.ctx, uuid.New(), &FromTransactionInput{
		CreatedBy: f.userID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateFromTransactionTwiceConflicts(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := f.seedTransaction(t)

	_, err := f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{CreatedBy: f.userID})
	require.NoError(t, err)

	_, err = f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{CreatedBy: f.userID})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestCreateFromTransactionRequiresCompanyContext(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := f.seedTransaction(t)

	_, err := f.svc.CreateFromTransaction(context.Background(), txn.ID, &FromTransactionInput{
		CreatedBy: f.userID,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateFromTransactionRequiresUser(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := f.seedTransaction(t)

	_, err := f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateStandalone(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.CreateStandalone(f.ctx, &StandaloneInvoiceInput{
		CreatedBy:    f.userID,
		CustomerName: "Acme Ltd",
		Items: []InvoiceItemInput{
			{
				ProductName:    "Consulting",
				Quantity:       1,
				UnitPrice:      dec("50.00"),
				DiscountAmount: dec("5.00"),
				TaxAmount:      dec("2.00"),
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.InvoiceStatusDraft, invoice.Status)
	assert.Nil(t, invoice.PaidDate)
	assert.True(t, invoice.SubTotal.Equal(dec("50.00")))
	assert.True(t, invoice.DiscountAmount.Equal(dec("5.00")))
	assert.True(t, invoice.TaxAmount.Equal(dec("2.00")))
	assert.True(t, invoice.TotalAmount.Equal(dec("47.00")))
	assert.Equal(t, f.companyID, invoice.CompanyID)
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].LineTotal.Equal(dec("47.00")))
}

func TestCreateStandalonePaidStampsPaidDate(t *testing.T) {
	f := newInvoiceFixture(t)

	status := enum.InvoiceStatusPaid
	invoice, err := f.svc.CreateStandalone(f.ctx, &StandaloneInvoiceInput{
		CreatedBy:    f.userID,
		CustomerName: "Acme Ltd",
		Status:       &status,
		Items: []InvoiceItemInput{
			{ProductName: "Consulting", Quantity: 1, UnitPrice: dec("50.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidDate)
}

func TestCreateStandaloneValidation(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.CreateStandalone(f.ctx, &StandaloneInvoiceInput{CreatedBy: f.userID})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)

	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "customer_name")
	assert.Contains(t, fields, "items")
}

func TestCreateStandaloneBadLineReportsField(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.CreateStandalone(f.ctx, &StandaloneInvoiceInput{
		CreatedBy:    f.userID,
		CustomerName: "Acme Ltd",
		Items: []InvoiceItemInput{
			{ProductName: "Consulting", Quantity: 1, UnitPrice: dec("50.00")},
			{ProductName: "Support", Quantity: 0, UnitPrice: dec("20.00")},
		},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "items[1]", appErr.Errors[0].Field)
	// Nothing was persisted
	assert.Empty(t, f.invoices.invoices)
}

func TestCreateStandaloneUnknownCustomer(t *testing.T) {
	f := newInvoiceFixture(t)
	missing := uuid.New()

	_, err := f.svc.CreateStandalone(f.ctx, &StandaloneInvoiceInput{
		CreatedBy:    f.userID,
		CustomerID:   &missing,
		CustomerName: "Acme Ltd",
		Items: []InvoiceItemInput{
			{ProductName: "Consulting", Quantity: 1, UnitPrice: dec("50.00")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetStatusAllowedTransition(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	updated, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusSent, nil)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, updated.Status)
	assert.Nil(t, updated.PaidDate)
}

func TestSetStatusIllegalTransition(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	_, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusPaid, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 0, f.invoices.updateCalls)
}

func TestSetStatusPaidStampsDateOnce(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	_, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusSent, nil)
	require.NoError(t, err)

	paid, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusPaid, nil)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidDate)
	firstPaidDate := *paid.PaidDate

	// Re-marking paid is idempotent and keeps the original date
	again, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusPaid, nil)
	require.NoError(t, err)
	require.NotNil(t, again.PaidDate)
	assert.Equal(t, firstPaidDate, *again.PaidDate)
}

func TestSetStatusAppendsNotes(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	first := "Sent to customer by email"
	updated, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusSent, &first)
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, first, *updated.Notes)

	// A later transition appends its note instead of replacing the history
	second := "Payment received by bank transfer"
	updated, err = f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusPaid, &second)
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, first+"\n"+second, *updated.Notes)

	// A transition without a note leaves the existing notes alone
	updated, err = f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatusPaid, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, first+"\n"+second, *updated.Notes)
}

func TestSetStatusInvalidStatus(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	_, err := f.svc.SetStatus(f.ctx, invoice.ID, enum.InvoiceStatus("archived"), nil)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestSetStatusNotFound(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.SetStatus(f.ctx, uuid.New(), enum.InvoiceStatusSent, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	require.NoError(t, f.svc.DeleteInvoice(f.ctx, invoice.ID))

	_, err := f.svc.GetInvoice(f.ctx, invoice.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteInvoiceLeavesTransactionIntact(t *testing.T) {
	f := newInvoiceFixture(t)
	txn := f.seedTransaction(t)

	invoice, err := f.svc.CreateFromTransaction(f.ctx, txn.ID, &FromTransactionInput{CreatedBy: f.userID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteInvoice(f.ctx, invoice.ID))

	stored, err := f.transactions.GetByID(f.ctx, txn.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestDeleteInvoiceNotFound(t *testing.T) {
	f := newInvoiceFixture(t)

	err := f.svc.DeleteInvoice(f.ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListInvoicesFiltersByStatus(t *testing.T) {
	f := newInvoiceFixture(t)
	for i := 0; i < 3; i++ {
		f.createWithStatus(t, enum.InvoiceStatusPaid)
	}
	for i := 0; i < 2; i++ {
		f.createDraft(t)
	}

	status := enum.InvoiceStatusPaid
	result, err := f.svc.ListInvoices(f.ctx, &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 15},
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Equal(t, int64(3), result.Pagination.Total)
}

func TestGetStats(t *testing.T) {
	f := newInvoiceFixture(t)
	f.createWithStatus(t, enum.InvoiceStatusPaid)
	f.createWithStatus(t, enum.InvoiceStatusPaid)
	f.createDraft(t)

	stats, err := f.svc.GetStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalInvoices)
	assert.Equal(t, int64(2), stats.PaidInvoices)
	assert.Equal(t, int64(1), stats.PendingInvoices)
	assert.True(t, stats.TotalRevenue.Equal(dec("94.00")))
	assert.True(t, stats.PendingAmount.Equal(dec("47.00")))
}

func TestGetStatsRequiresCompanyContext(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.GetStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

// createDraft persists a standalone draft invoice totaling 47.00.
func (f *invoiceFixture) createDraft(t *testing.T) *entity.Invoice {
	t.Helper()
	return f.createWithStatus(t, enum.InvoiceStatusDraft)
}

func (f *invoiceFixture) createWithStatus(t *testing.T, status enum.InvoiceStatus) *entity.Invoice {
	t.Helper()
	invoice, err := f.svc.CreateStandalone(f.ctx, &StandaloneInvoiceInput{
		CreatedBy:    f.userID,
		CustomerName: "Acme Ltd",
		Status:       &status,
		Items: []InvoiceItemInput{
			{
				ProductName:    "Consulting",
				Quantity:       1,
				UnitPrice:      dec("50.00"),
				DiscountAmount: dec("5.00"),
				TaxAmount:      dec("2.00"),
			},
		},
	})
	require.NoError(t, err)
	return invoice
}
