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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// POSService records completed sales and serves the transaction ledger
type POSService struct {
	transactionRepo   repository.POSTransactionRepository
	productRepo       repository.ProductRepository
	customerRepo      repository.CustomerRepository
	paymentMethodRepo repository.PaymentMethodRepository
}

// NewPOSService creates a new POS service
func NewPOSService(
	transactionRepo repository.POSTransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
) *POSService {
	return &POSService{
		transactionRepo:   transactionRepo,
		productRepo:       productRepo,
		customerRepo:      customerRepo,
		paymentMethodRepo: paymentMethodRepo,
	}
}

// SaleItemInput represents one line of a sale
type SaleItemInput struct {
	ProductID      uuid.UUID
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
}

// SalePaymentInput represents one payment applied to a sale
type SalePaymentInput struct {
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	ReferenceNumber *string
}

// CustomerInfoInput identifies the customer either by id or by free-text
// contact details for walk-in sales
type CustomerInfoInput struct {
	CustomerID *uuid.UUID
	Name       *string
	Phone      *string
	Email      *string
}

// RecordSaleInput represents the record sale input
type RecordSaleInput struct {
	CashierID uuid.UUID
	Customer  CustomerInfoInput
	Items     []SaleItemInput
	Payments  []SalePaymentInput
	TaxAmount decimal.Decimal
	Notes     *string
}

// RecordSale validates and persists a completed sale: transaction header,
// items and payments in one atomic write. Totals come from the calculator
// before anything is written; the transaction number is assigned here and
// never regenerated afterward.
func (s *POSService) RecordSale(ctx context.Context, input *RecordSaleInput) (*entity.POSTransaction, error) {
	companyID, ok := infraRepo.GetCompanyID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Company context required")
	}
	if input.CashierID == uuid.Nil {
		return nil, apperror.NewBadRequestError("Cashier context required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one item is required"},
		})
	}

	if input.Customer.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.Customer.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// Batch fetch all products in one query
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Validate items and compute per-line totals before any write
	lines := make([]money.Line, len(input.Items))
	items := make([]entity.POSTransactionItem, 0, len(input.Items))
	stockDecrements := make(map[uuid.UUID]int)
	var fieldErrors []apperror.FieldError

	for i, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		lineTotal, err := money.LineTotal(item.Quantity, item.UnitPrice, item.DiscountAmount, decimal.Zero)
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
		}
		items = append(items, entity.POSTransactionItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			ProductSKU:     product.SKU,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			LineTotal:      lineTotal,
		})
		stockDecrements[product.ID] += item.Quantity
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	// POS tax is transaction-level, not per-line
	totals, err := money.DocumentTotalsWithTax(lines, input.TaxAmount)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	// Validate payment methods and sum payments
	payments := make([]entity.POSPayment, 0, len(input.Payments))
	paid := decimal.Zero
	if len(input.Payments) > 0 {
		methodIDs := make([]uuid.UUID, 0, len(input.Payments))
		for _, p := range input.Payments {
			methodIDs = append(methodIDs, p.PaymentMethodID)
		}
		methods, err := s.paymentMethodRepo.GetByIDs(ctx, methodIDs)
		if err != nil {
			return nil, err
		}
		methodSet := make(map[uuid.UUID]struct{}, len(methods))
		for _, m := range methods {
			methodSet[m.ID] = struct{}{}
		}
		for i, p := range input.Payments {
			if _, exists := methodSet[p.PaymentMethodID]; !exists {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Payment method %s", p.PaymentMethodID))
			}
			if p.Amount.IsNegative() {
				return nil, apperror.NewValidationError([]apperror.FieldError{
					{Field: fmt.Sprintf("payments[%d].amount", i), Message: "must not be negative"},
				})
			}
			payments = append(payments, entity.POSPayment{
				PaymentMethodID: p.PaymentMethodID,
				Amount:          p.Amount,
				Status:          "completed",
				ReferenceNumber: p.ReferenceNumber,
			})
			paid = paid.Add(p.Amount)
		}
	}

	// Atomically decrement stock; if any product is short, nothing changes
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewAppError(400, fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	txn := &entity.POSTransaction{
		CompanyID:         companyID,
		TransactionNumber: docnum.TransactionNumber(time.Now()),
		CustomerID:        input.Customer.CustomerID,
		CustomerName:      input.Customer.Name,
		CustomerPhone:     input.Customer.Phone,
		CustomerEmail:     input.Customer.Email,
		SubTotal:          totals.SubTotal,
		TaxAmount:         totals.TaxAmount,
		DiscountAmount:    totals.DiscountAmount,
		TotalAmount:       totals.TotalAmount,
		Status:            enum.TransactionStatusCompleted,
		PaymentStatus:     enum.DerivePaymentStatus(paid, totals.TotalAmount),
		CashierID:         input.CashierID,
		Notes:             input.Notes,
	}

	err = s.transactionRepo.CreateWithItems(ctx, txn, items, payments)
	if apperror.IsConflict(err) {
		// Millisecond collision on the generated number: retry once with a
		// freshly generated one.
		txn.ID = uuid.Nil
		txn.TransactionNumber = docnum.TransactionNumber(time.Now().Add(time.Millisecond))
		err = s.transactionRepo.CreateWithItems(ctx, txn, items, payments)
	}
	if err != nil {
		// The sale was not recorded, so put the stock back
		if restoreErr := s.productRepo.AtomicIncrementBatch(ctx, stockDecrements); restoreErr != nil {
			log.Error().
				Err(restoreErr).
				Str("transaction_number", txn.TransactionNumber).
				Msg("Failed to restore stock after sale creation failure")
		}
		return nil, err
	}

	return s.transactionRepo.GetWithItems(ctx, txn.ID)
}

// GetTransaction retrieves a transaction with items and payments
func (s *POSService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error) {
	txn, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions with filtering
func (s *POSService) ListTransactions(ctx context.Context, params *repository.POSTransactionFilterParams) (*pagination.PaginatedResult[entity.POSTransaction], error) {
	txns, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, pag), nil
}
