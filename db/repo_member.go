package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/models"

	"gorm.io/gorm"
)

func (r *Repo) CreateMember(ctx context.Context, m *models.Member) error {
	err := r.DB.WithContext(ctx).Create(m).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return lifecycle.E(lifecycle.KindConflict, "email already registered")
	}
	return err
}

func (r *Repo) FindMemberByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.E(lifecycle.KindNotFound, "member not found")
		}
		return nil, err
	}
	return &m, nil
}

// GetMember satisfies lifecycle.Store.
func (r *Repo) GetMember(ctx context.Context, id string) (*models.Member, error) {
	return r.FindMemberByID(ctx, id)
}

func (r *Repo) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.E(lifecycle.KindNotFound, "member not found")
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) TouchMemberLogin(ctx context.Context, memberID string) error {
	return r.DB.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchMemberSeen(ctx context.Context, memberID string) error {
	return r.DB.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", memberID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

// ListMembers pages non-admin members for the admin views, optionally
// matching name / email / identifying code.
func (r *Repo) ListMembers(ctx context.Context, q string, page, limit int) ([]models.Member, int64, error) {
	page, limit = normPage(page, limit)

	tx := r.DB.WithContext(ctx).Model(&models.Member{}).Where("is_admin = FALSE")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(user_full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(member_id) LIKE ? OR LOWER(admission_id) LIKE ? OR LOWER(employee_id) LIKE ?",
			like, like, like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.Member
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// DeleteMemberByID removes the member; their transaction history stays for
// the audit trail (borrower name is denormalized on the record).
func (r *Repo) DeleteMemberByID(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Member{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.E(lifecycle.KindNotFound, "member not found")
	}
	return nil
}
