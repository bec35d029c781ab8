package database

import (
	"context"
	"fmt"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoPlacementLimit lifts the size check for a section
const NoPlacementLimit = -1

// PlacementRepo stores the admin-curated home page sections
type PlacementRepo struct {
	db *gorm.DB
}

func NewPlacementRepo(db *gorm.DB) *PlacementRepo {
	return &PlacementRepo{db}
}

// FindGigPlacements returns gig placements ordered by section and position.
// publishedOnly hides placements of unpublished gigs.
func (r *PlacementRepo) FindGigPlacements(ctx context.Context, publishedOnly bool) ([]*models.HomeGigPlacement, error) {
	query := r.db.WithContext(ctx).
		Joins("Gig").
		Order("home_gig_placements.section ASC").
		Order("home_gig_placements.sort_order ASC")
	if publishedOnly {
		query = query.Where(clause.Eq{Column: clause.Column{Table: "Gig", Name: "published"}, Value: true})
	}

	var placements []*models.HomeGigPlacement
	err := query.Find(&placements).Error
	return placements, err
}

// SetGigPlacements replaces one section with gigIDs in order. A limit of 0 allows only an empty list.
func (r *PlacementRepo) SetGigPlacements(ctx context.Context, section models.PlacementSection, gigIDs []uuid.UUID, limit int) error {
	if err := checkPlacementList(gigIDs, limit, "gigIds"); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAllExist(tx, &models.Gig{}, gigIDs, "gigIds"); err != nil {
			return err
		}
		if err := tx.Where("section = ?", section).Delete(&models.HomeGigPlacement{}).Error; err != nil {
			return err
		}
		for i, id := range gigIDs {
			placement := models.HomeGigPlacement{GigID: id, Section: section, SortOrder: i}
			if err := tx.Omit("Gig").Create(&placement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindContentPlacements returns content placements ordered by section and position
func (r *PlacementRepo) FindContentPlacements(ctx context.Context) ([]*models.HomeContentPlacement, error) {
	var placements []*models.HomeContentPlacement
	err := r.db.WithContext(ctx).
		Joins("ContentItem").
		Order("home_content_placements.section ASC").
		Order("home_content_placements.sort_order ASC").
		Find(&placements).Error
	return placements, err
}

// SetContentPlacements replaces one section with contentIDs in order. A limit of 0 allows only an empty list.
func (r *PlacementRepo) SetContentPlacements(ctx context.Context, section models.PlacementSection, contentIDs []uuid.UUID, limit int) error {
	if err := checkPlacementList(contentIDs, limit, "contentIds"); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAllExist(tx, &models.ContentItem{}, contentIDs, "contentIds"); err != nil {
			return err
		}
		if err := tx.Where("section = ?", section).Delete(&models.HomeContentPlacement{}).Error; err != nil {
			return err
		}
		for i, id := range contentIDs {
			placement := models.HomeContentPlacement{ContentItemID: id, Section: section, SortOrder: i}
			if err := tx.Omit("ContentItem").Create(&placement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func checkPlacementList(ids []uuid.UUID, limit int, field string) error {
	if len(uniqueIDs(ids)) != len(ids) {
		return errs.NewInvalidFieldError(field, "duplicate id in list")
	}
	if limit >= 0 && len(ids) > limit {
		return errs.NewInvalidFieldError(field, fmt.Sprintf("at most %d entries allowed, got %d", limit, len(ids)))
	}
	return nil
}

func requireAllExist(tx *gorm.DB, model interface{}, ids []uuid.UUID, field string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return errs.NewInvalidFieldError(field, "unknown id in list")
	}
	return nil
}
