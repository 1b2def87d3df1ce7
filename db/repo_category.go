package db

import (
	"context"
	"errors"

	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/models"

	"gorm.io/gorm"
)

func (r *Repo) CreateCategory(ctx context.Context, c *models.Category) error {
	err := r.DB.WithContext(ctx).Create(c).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return lifecycle.E(lifecycle.KindConflict, "category already exists")
	}
	return err
}

// ListCategories returns every category with its books preloaded; the set is
// small enough that the catalog page wants all of them at once.
func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).
		Preload("Books").
		Order("name ASC").
		Find(&cats).Error
	return cats, err
}
