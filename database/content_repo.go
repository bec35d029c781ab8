package database

import (
	"context"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentRepo struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) *ContentRepo {
	return &ContentRepo{db}
}

// FindAll returns content newest first, optionally of one type
func (r *ContentRepo) FindAll(ctx context.Context, contentType models.ContentType) ([]*models.ContentItem, error) {
	query := r.db.WithContext(ctx).
		Order("COALESCE(published_at, created_at) DESC")
	if contentType != "" {
		query = query.Where("type = ?", contentType)
	}

	var items []*models.ContentItem
	err := query.Find(&items).Error
	return items, err
}

func (r *ContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepo) Add(ctx context.Context, item *models.ContentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ContentRepo) Update(ctx context.Context, item *models.ContentItem) error {
	res := r.db.WithContext(ctx).Model(&models.ContentItem{}).Where("id = ?", item.ID).
		Select("type", "title", "description", "url", "thumbnail_url", "published_at", "metadata", "updated_at").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a content item and its home placements
func (r *ContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_item_id = ?", id).Delete(&models.HomeContentPlacement{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &models.ContentItem{}, id)
	})
}
