package database

import (
	"context"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// FindAll returns submissions newest first, unhandled ones only when asked
func (r *ContactRepo) FindAll(ctx context.Context, unhandledOnly bool) ([]*models.ContactSubmission, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if unhandledOnly {
		query = query.Where("handled = ?", false)
	}

	var submissions []*models.ContactSubmission
	err := query.Find(&submissions).Error
	return submissions, err
}

func (r *ContactRepo) Add(ctx context.Context, submission *models.ContactSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *ContactRepo) SetHandled(ctx context.Context, id uuid.UUID, handled bool) error {
	res := r.db.WithContext(ctx).Model(&models.ContactSubmission{}).Where("id = ?", id).Update("handled", handled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.ContactSubmission{}, id)
}
