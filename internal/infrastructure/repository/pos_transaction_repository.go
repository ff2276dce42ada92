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

type posTransactionRepository struct {
	db *gorm.DB
}

// NewPOSTransactionRepository creates a new POS transaction repository
func NewPOSTransactionRepository(db *gorm.DB) domainRepo.POSTransactionRepository {
	return &posTransactionRepository{db: db}
}

// CreateWithItems writes the header, items and payments in one database
// transaction. A failure on any row rolls back everything, so a crash
// mid-creation leaves no visible sale. A duplicate transaction number maps
// to a conflict error so the caller can retry with a fresh number.
func (r *posTransactionRepository) CreateWithItems(ctx context.Context, txn *entity.POSTransaction, items []entity.POSTransactionItem, payments []entity.POSPayment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			for i := range items {
				items[i].TransactionID = txn.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if len(payments) > 0 {
			for i := range payments {
				payments[i].TransactionID = txn.ID
			}
			if err := tx.Create(&payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("Duplicate transaction number")
	}
	return err
}

func (r *posTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error) {
	var txn entity.POSTransaction
	err := r.db.WithContext(ctx).
		Scopes(CompanyScope(ctx)).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *posTransactionRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.POSTransaction, error) {
	var txn entity.POSTransaction
	err := r.db.WithContext(ctx).
		Scopes(CompanyScope(ctx)).
		Preload("Customer").
		Preload("Items").
		Preload("Payments").
		Preload("Payments.PaymentMethod").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *posTransactionRepository) GetByNumber(ctx context.Context, number string) (*entity.POSTransaction, error) {
	var txn entity.POSTransaction
	err := r.db.WithContext(ctx).
		Scopes(CompanyScope(ctx)).
		First(&txn, "transaction_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *posTransactionRepository) List(ctx context.Context, params *domainRepo.POSTransactionFilterParams) ([]entity.POSTransaction, int64, error) {
	var txns []entity.POSTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.POSTransaction{}).Scopes(CompanyScope(ctx))

	if params.Search != "" {
		query = query.Where("transaction_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
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
		Preload("Customer").
		Order("created_at DESC").
		Find(&txns).Error

	return txns, total, err
}

func (r *posTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error {
	return r.db.WithContext(ctx).Model(&entity.POSTransaction{}).
		Scopes(CompanyScope(ctx)).
		Where("id = ?", id).
		Update("status", status).Error
}
