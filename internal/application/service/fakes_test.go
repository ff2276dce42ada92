package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/retailops/backoffice-api/internal/domain/repository"
	"github.com/retailops/backoffice-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// In-memory fakes for the repository interfaces. They enforce the same
// contracts the gorm implementations do: (nil, nil) on not-found, conflict
// errors on unique violations, all-or-nothing stock decrements.

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
	// forceDecrementErr makes AtomicDecrementBatch fail outright
	forceDecrementErr error
	// forceIncrementErr makes the stock restore fail
	forceIncrementErr error
	incrementCalls    int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (f *fakeProductRepo) add(name, sku string, price decimal.Decimal, quantity int) *entity.Product {
	p := &entity.Product{
		ID:       uuid.New(),
		Name:     name,
		SKU:      sku,
		Price:    price,
		Quantity: quantity,
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range f.products {
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if f.forceDecrementErr != nil {
		return nil, f.forceDecrementErr
	}
	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := f.products[id]
		if !ok || p.Quantity < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		f.products[id].Quantity -= qty
	}
	return nil, nil
}

func (f *fakeProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	f.incrementCalls++
	if f.forceIncrementErr != nil {
		return f.forceIncrementErr
	}
	for id, qty := range increments {
		if p, ok := f.products[id]; ok {
			p.Quantity += qty
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) add(name string) *entity.Customer {
	c := &entity.Customer{ID: uuid.New(), Name: name}
	f.customers[c.ID] = c
	return c
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakePaymentMethodRepo struct {
	methods map[uuid.UUID]*entity.PaymentMethod
}

func newFakePaymentMethodRepo() *fakePaymentMethodRepo {
	return &fakePaymentMethodRepo{methods: make(map[uuid.UUID]*entity.PaymentMethod)}
}

func (f *fakePaymentMethodRepo) add(name string) *entity.PaymentMethod {
	m := &entity.PaymentMethod{ID: uuid.New(), Name: name, Active: true}
	f.methods[m.ID] = m
	return m
}

func (f *fakePaymentMethodRepo) Create(ctx context.Context, method *entity.PaymentMethod) error {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	f.methods[method.ID] = method
	return nil
}

func (f *fakePaymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	return f.methods[id], nil
}

func (f *fakePaymentMethodRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.PaymentMethod, error) {
	var out []entity.PaymentMethod
	for _, id := range ids {
		if m, ok := f.methods[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakePaymentMethodRepo) List(ctx context.Context) ([]entity.PaymentMethod, error) {
	var out []entity.PaymentMethod
	for _, m := range f.methods {
		out = append(out, *m)
	}
	return out, nil
}

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*entity.POSTransaction
	byNumber     map[string]uuid.UUID
	// conflictsRemaining makes the next N CreateWithItems calls fail with
	// a conflict, simulating a duplicate transaction number
	conflictsRemaining int
	createCalls        int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: make(map[uuid.UUID]*entity.POSTransaction),
		byNumber:     make(map[string]uuid.UUID),
	}
}

func (f *fakeTransactionRepo) CreateWithItems(ctx context.Context, txn *entity.POSTransaction, items []entity.POSTransactionItem, payments []entity.POSPayment) error {
	f.createCalls++
	if f.conflictsRemaining > 0 {
		f.conflictsRemaining--
		return apperror.NewConflictError("Duplicate transaction number")
	}
	if _, exists := f.byNumber[txn.TransactionNumber]; exists {
		return apperror.NewConflictError("Duplicate transaction number")
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	stored := *txn
	stored.Items = items
	stored.Payments = payments
	f.transactions[txn.ID] = &stored
	f.byNumber[txn.TransactionNumber] = txn.ID
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error) {
	return f.transactions[id], nil
}

func (f *fakeTransactionRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error) {
	return f.transactions[id], nil
}

func (f *fakeTransactionRepo) GetByNumber(ctx context.Context, number string) (*entity.POSTransaction, error) {
	if id, ok := f.byNumber[number]; ok {
		return f.transactions[id], nil
	}
	return nil, nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, params *repository.POSTransactionFilterParams) ([]entity.POSTransaction, int64, error) {
	var out []entity.POSTransaction
	for _, txn := range f.transactions {
		if params.Status != nil && txn.Status != *params.Status {
			continue
		}
		out = append(out, *txn)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error {
	if txn, ok := f.transactions[id]; ok {
		txn.Status = status
	}
	return nil
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entity.Invoice
	// byTransaction enforces the one-invoice-per-transaction unique index
	byTransaction map[uuid.UUID]uuid.UUID
	updateCalls   int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:      make(map[uuid.UUID]*entity.Invoice),
		byTransaction: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeInvoiceRepo) CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	if invoice.TransactionID != nil {
		if _, exists := f.byTransaction[*invoice.TransactionID]; exists {
			return apperror.NewConflictError("Duplicate invoice number or transaction already invoiced")
		}
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := *invoice
	stored.Items = items
	f.invoices[invoice.ID] = &stored
	if invoice.TransactionID != nil {
		f.byTransaction[*invoice.TransactionID] = invoice.ID
	}
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	f.updateCalls++
	if existing, ok := f.invoices[invoice.ID]; ok {
		items := existing.Items
		stored := *invoice
		stored.Items = items
		f.invoices[invoice.ID] = &stored
	}
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if invoice, ok := f.invoices[id]; ok {
		if invoice.TransactionID != nil {
			delete(f.byTransaction, *invoice.TransactionID)
		}
		delete(f.invoices, id)
	}
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, invoice := range f.invoices {
		if params.Status != nil && invoice.Status != *params.Status {
			continue
		}
		out = append(out, *invoice)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) GetStats(ctx context.Context) (*repository.InvoiceStats, error) {
	stats := &repository.InvoiceStats{
		TotalRevenue:  decimal.Zero,
		PendingAmount: decimal.Zero,
	}
	for _, invoice := range f.invoices {
		stats.TotalInvoices++
		switch invoice.Status {
		case enum.InvoiceStatusPaid:
			stats.PaidInvoices++
			stats.TotalRevenue = stats.TotalRevenue.Add(invoice.TotalAmount)
		case enum.InvoiceStatusOverdue:
			stats.OverdueInvoices++
		case enum.InvoiceStatusDraft, enum.InvoiceStatusSent:
			stats.PendingInvoices++
			stats.PendingAmount = stats.PendingAmount.Add(invoice.TotalAmount)
		}
	}
	return stats, nil
}
