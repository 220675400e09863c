// Package gormstore is the Postgres-backed ledger store. Each mutation wraps
// the transaction write and the balance adjustment in one database
// transaction, and the adjustment is expressed relatively
// (balance = balance + delta) so concurrent writers cannot lose updates.
package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgsmart/ledger"
	"budgsmart/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Account(ctx context.Context, accountID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", accountID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Transaction(ctx context.Context, accountID, txID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", txID, accountID).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *Store) Transactions(ctx context.Context, accountID string, f ledger.ListFilter) ([]models.Transaction, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", accountID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if !f.StartDate.IsZero() {
		q = q.Where("date >= ?", f.StartDate)
	}
	if !f.EndDate.IsZero() {
		q = q.Where("date <= ?", f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("date desc, created_at desc")
	if f.Limit >= 0 {
		limit := f.Limit
		if limit == 0 {
			limit = 10
		}
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * limit).Limit(limit)
	}

	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (s *Store) TransactionsBetween(ctx context.Context, accountID string, start, end time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", accountID, start, end).
		Order("date desc").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error {
	return s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(tx).Error; err != nil {
			return err
		}
		return s.adjustBalance(dbtx, tx.UserID, delta)
	})
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error {
	return s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Save(tx).Error; err != nil {
			return err
		}
		return s.adjustBalance(dbtx, tx.UserID, delta)
	})
}

func (s *Store) DeleteTransaction(ctx context.Context, tx *models.Transaction, delta decimal.Decimal) error {
	return s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := s.adjustBalance(dbtx, tx.UserID, delta); err != nil {
			return err
		}
		return dbtx.Delete(&models.Transaction{}, "id = ?", tx.ID).Error
	})
}

func (s *Store) adjustBalance(dbtx *gorm.DB, accountID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	res := dbtx.Model(&models.User{}).Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
