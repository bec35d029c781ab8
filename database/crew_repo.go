package database

import (
	"context"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CrewRepo struct {
	db *gorm.DB
}

func NewCrewRepo(db *gorm.DB) *CrewRepo {
	return &CrewRepo{db}
}

// FindAll returns the crew in display order
func (r *CrewRepo) FindAll(ctx context.Context) ([]*models.CrewMember, error) {
	var crew []*models.CrewMember
	err := r.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC").Find(&crew).Error
	return crew, err
}

func (r *CrewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CrewMember, error) {
	var member models.CrewMember
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Add inserts a crew member at the end of the list
func (r *CrewRepo) Add(ctx context.Context, member *models.CrewMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &models.CrewMember{})
		if err != nil {
			return err
		}
		member.SortOrder = next
		return tx.Create(member).Error
	})
}

// Update saves an existing crew member, keeping its position
func (r *CrewRepo) Update(ctx context.Context, member *models.CrewMember) error {
	res := r.db.WithContext(ctx).Model(&models.CrewMember{}).Where("id = ?", member.ID).
		Select("name", "role", "bio", "image_url", "instagram_url", "soundcloud_url").
		Updates(member)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CrewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.CrewMember{}, id)
}

// Reorder sets the display order to the order of ids, which must cover every member
func (r *CrewRepo) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uuid.UUID
		if err := tx.Model(&models.CrewMember{}).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if err := sameIDSet(existing, ids); err != nil {
			return errs.NewInvalidFieldError("ids", err.Error())
		}
		return rewriteSortOrder(tx, &models.CrewMember{}, ids)
	})
}

func nextSortOrder(tx *gorm.DB, model interface{}) (int, error) {
	var next int
	err := tx.Model(model).Select("COALESCE(MAX(sort_order) + 1, 0)").Scan(&next).Error
	return next, err
}

func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
