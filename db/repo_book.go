package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/models"

	"gorm.io/gorm"
)

func (r *Repo) CreateBook(ctx context.Context, b *models.Book, categoryIDs []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := findCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		b.Categories = cats
		return tx.Create(b).Error
	})
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	err := r.DB.WithContext(ctx).Preload("Categories").First(&b, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.E(lifecycle.KindNotFound, "book not found")
		}
		return nil, err
	}
	return &b, nil
}

// ListBooks pages the catalog, optionally filtering by a name/author match
// and/or a category.
func (r *Repo) ListBooks(ctx context.Context, q, categoryID string, page, limit int) ([]models.Book, int64, error) {
	page, limit = normPage(page, limit)

	tx := r.DB.WithContext(ctx).Model(&models.Book{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(book_name) LIKE ? OR LOWER(alternate_title) LIKE ? OR LOWER(author) LIKE ?",
			like, like, like,
		)
	}
	if categoryID != "" {
		tx = tx.Where(
			"id IN (SELECT book_id FROM "+models.BookCatTable+" WHERE category_id = ?)",
			categoryID,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []models.Book
	if err := tx.
		Preload("Categories").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// BookUpdate carries the editable fields; nil pointers are left untouched.
type BookUpdate struct {
	BookName       *string
	AlternateTitle *string
	Author         *string
	Language       *string
	Publisher      *string
	CoverURL       *string
	BookCountTotal *int
	CategoryIDs    []string
}

// UpdateBook edits book metadata under a row lock. Raising or lowering the
// total adjusts the available count by the same delta so outstanding loans
// stay accounted for; available never drops below zero.
func (r *Repo) UpdateBook(ctx context.Context, id string, up BookUpdate) (*models.Book, error) {
	var b models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lifecycle.E(lifecycle.KindNotFound, "book not found")
			}
			return err
		}
		if up.BookName != nil {
			b.BookName = *up.BookName
		}
		if up.AlternateTitle != nil {
			b.AlternateTitle = *up.AlternateTitle
		}
		if up.Author != nil {
			b.Author = *up.Author
		}
		if up.Language != nil {
			b.Language = *up.Language
		}
		if up.Publisher != nil {
			b.Publisher = *up.Publisher
		}
		if up.CoverURL != nil {
			b.CoverURL = *up.CoverURL
		}
		if up.BookCountTotal != nil {
			if *up.BookCountTotal < 0 {
				return lifecycle.E(lifecycle.KindValidation, "bookCountTotal cannot be negative")
			}
			delta := *up.BookCountTotal - b.BookCountTotal
			b.BookCountTotal = *up.BookCountTotal
			b.BookCountAvailable += delta
			if b.BookCountAvailable < 0 {
				b.BookCountAvailable = 0
			}
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		if up.CategoryIDs != nil {
			cats, err := findCategories(tx, up.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&b).Association("Categories").Replace(cats); err != nil {
				return err
			}
			b.Categories = cats
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) DeleteBookByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Transaction{}).
			Where("book_id = ? AND transaction_status IN ?", id,
				[]models.TransactionStatus{models.StatusPending, models.StatusActive}).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return lifecycle.E(lifecycle.KindConflict, "book has open transactions")
		}
		if err := tx.Model(&models.Book{ID: id}).Association("Categories").Clear(); err != nil {
			return err
		}
		res := tx.Delete(&models.Book{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return lifecycle.E(lifecycle.KindNotFound, "book not found")
		}
		return nil
	})
}

func findCategories(tx *gorm.DB, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cats []models.Category
	if err := tx.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, lifecycle.E(lifecycle.KindNotFound, "unknown category id")
	}
	return cats, nil
}
