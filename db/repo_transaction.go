package db

import (
	"context"
	"errors"

	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/models"

	"gorm.io/gorm"
)

// The transaction repo implements lifecycle.Store. Status transitions and
// inventory arithmetic must land together, so every mutation runs inside a
// database transaction with the book row locked, the same lock ordering
// everywhere (book, then transaction record).

func (r *Repo) CreateTransaction(ctx context.Context, t *models.Transaction, mutateBook func(b *models.Book) error) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := lockForUpdate(tx).First(&b, "id = ?", t.BookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lifecycle.E(lifecycle.KindNotFound, "book not found")
			}
			return err
		}
		if mutateBook != nil {
			if err := mutateBook(&b); err != nil {
				return err
			}
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return lifecycle.E(lifecycle.KindConflict, "member already has an open transaction for this book")
	}
	return err
}

func (r *Repo) UpdateTransaction(ctx context.Context, id string, fn func(t *models.Transaction, b *models.Book) error) (*models.Transaction, error) {
	var t models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		// Resolve the book id first, then take locks in book -> record order.
		if err := tx.Select("book_id").First(&t, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lifecycle.E(lifecycle.KindNotFound, "transaction not found")
			}
			return err
		}
		if err := lockForUpdate(tx).First(&b, "id = ?", t.BookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lifecycle.E(lifecycle.KindNotFound, "book not found")
			}
			return err
		}
		if err := lockForUpdate(tx).First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&t, &b); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListTransactions(ctx context.Context, f lifecycle.TxFilter) ([]models.Transaction, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Transaction{})
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.BookID != "" {
		tx = tx.Where("book_id = ?", f.BookID)
	}
	if f.Status != "" {
		tx = tx.Where("transaction_status = ?", f.Status)
	}
	if f.Type != "" {
		tx = tx.Where("transaction_type = ?", f.Type)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := tx.Order("created_at DESC")
	if f.Limit > 0 {
		page, limit := normPage(f.Page, f.Limit)
		q = q.Offset((page - 1) * limit).Limit(limit)
	}

	var ts []models.Transaction
	if err := q.Find(&ts).Error; err != nil {
		return nil, 0, err
	}
	return ts, total, nil
}
