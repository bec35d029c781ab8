package database

import (
	"context"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MerchRepo struct {
	db *gorm.DB
}

func NewMerchRepo(db *gorm.DB) *MerchRepo {
	return &MerchRepo{db}
}

// FindAll returns merch in display order, optionally only available items
func (r *MerchRepo) FindAll(ctx context.Context, availableOnly bool) ([]*models.MerchItem, error) {
	query := r.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC")
	if availableOnly {
		query = query.Where("available = ?", true)
	}

	var items []*models.MerchItem
	err := query.Find(&items).Error
	return items, err
}

func (r *MerchRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MerchItem, error) {
	var item models.MerchItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Add inserts a merch item at the end of the list
func (r *MerchRepo) Add(ctx context.Context, item *models.MerchItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &models.MerchItem{})
		if err != nil {
			return err
		}
		item.SortOrder = next
		return tx.Create(item).Error
	})
}

func (r *MerchRepo) Update(ctx context.Context, item *models.MerchItem) error {
	res := r.db.WithContext(ctx).Model(&models.MerchItem{}).Where("id = ?", item.ID).
		Select("name", "description", "price_cents", "currency", "image_url", "shop_url", "available").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MerchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.MerchItem{}, id)
}

func (r *MerchRepo) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uuid.UUID
		if err := tx.Model(&models.MerchItem{}).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if err := sameIDSet(existing, ids); err != nil {
			return errs.NewInvalidFieldError("ids", err.Error())
		}
		return rewriteSortOrder(tx, &models.MerchItem{}, ids)
	})
}
