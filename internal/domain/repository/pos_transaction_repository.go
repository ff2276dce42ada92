package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/retailops/backoffice-api/pkg/pagination"
)

// POSTransactionRepository defines the interface for POS transaction data operations
type POSTransactionRepository interface {
	// CreateWithItems persists the transaction header, its items and its
	// payments as one atomic unit. Nothing is visible until all rows commit.
	CreateWithItems(ctx context.Context, tx *entity.POSTransaction, items []entity.POSTransactionItem, payments []entity.POSPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error)
	// GetWithItems loads the transaction with items and payments eagerly.
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error)
	GetByNumber(ctx context.Context, number string) (*entity.POSTransaction, error)
	List(ctx context.Context, params *POSTransactionFilterParams) ([]entity.POSTransaction, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error
}

// POSTransactionFilterParams contains filtering parameters for transaction queries
type POSTransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.TransactionStatus
	CustomerID *uuid.UUID
	CashierID  *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}
