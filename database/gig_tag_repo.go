package database

import (
	"context"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GigTagRepo struct {
	db *gorm.DB
}

func NewGigTagRepo(db *gorm.DB) *GigTagRepo {
	return &GigTagRepo{db}
}

// FindAll returns all gig tags by name
func (r *GigTagRepo) FindAll(ctx context.Context) ([]*models.GigTag, error) {
	var tags []*models.GigTag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// Add inserts a new gig tag
func (r *GigTagRepo) Add(ctx context.Context, tag *models.GigTag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	return r.db.WithContext(ctx).Create(tag).Error
}

// Delete removes a gig tag and its links
func (r *GigTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM gig_tag_links WHERE gig_tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.GigTag{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
