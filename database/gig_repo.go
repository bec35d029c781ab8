package database

import (
	"context"
	"fmt"
	"time"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GigWhen string

const (
	GigsUpcoming GigWhen = "upcoming"
	GigsPast     GigWhen = "past"
	GigsAll      GigWhen = "all"
)

// GigFilter narrows FindAll
type GigFilter struct {
	When               GigWhen
	Tag                string
	IncludeUnpublished bool
	Now                time.Time
}

type GigRepo struct {
	db *gorm.DB
}

func NewGigRepo(db *gorm.DB) *GigRepo {
	return &GigRepo{db}
}

func preloadGig(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("section ASC").Order("sort_order ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

// FindAll returns gigs matching the filter with media and tags
func (r *GigRepo) FindAll(ctx context.Context, filter GigFilter) ([]*models.Gig, error) {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	query := preloadGig(r.db.WithContext(ctx)).Model(&models.Gig{})
	if !filter.IncludeUnpublished {
		query = query.Where("gigs.published = ?", true)
	}
	if filter.Tag != "" {
		query = query.Where("gigs.id IN (?)",
			r.db.Table("gig_tag_links").
				Select("gig_tag_links.gig_id").
				Joins("JOIN gig_tags ON gig_tags.id = gig_tag_links.gig_tag_id").
				Where("gig_tags.name = ?", filter.Tag))
	}

	switch filter.When {
	case GigsUpcoming:
		query = query.
			Where("COALESCE(gigs.end_time, gigs.start_time) >= ?", now).
			Order("gigs.start_time ASC")
	case GigsPast:
		query = query.
			Where("COALESCE(gigs.end_time, gigs.start_time) < ?", now).
			Order("gigs.start_time DESC")
	default:
		query = query.Order("gigs.start_time DESC")
	}

	var gigs []*models.Gig
	err := query.Find(&gigs).Error
	return gigs, err
}

// FindByID returns a gig by its ID with media and tags
func (r *GigRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := preloadGig(r.db.WithContext(ctx)).First(&gig, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gig, nil
}

// FindByTitle returns the first gig with exactly this title
func (r *GigRepo) FindByTitle(ctx context.Context, title string) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.WithContext(ctx).First(&gig, "title = ?", title).Error; err != nil {
		return nil, err
	}
	return &gig, nil
}

// Add inserts a gig. Media and tags are managed through their own methods.
func (r *GigRepo) Add(ctx context.Context, gig *models.Gig) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(gig).Error
}

// Update saves the scalar fields of an existing gig
func (r *GigRepo) Update(ctx context.Context, gig *models.Gig) error {
	res := r.db.WithContext(ctx).Model(&models.Gig{}).Where("id = ?", gig.ID).
		Select("title", "subtitle", "description", "venue", "city", "start_time", "end_time",
			"ticket_url", "poster_url", "published", "updated_at").
		Updates(gig)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a gig and, through cascades, its media, tag links and placements
func (r *GigRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gig := models.Gig{ID: id}
		if err := tx.Model(&gig).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("gig_id = ?", id).Delete(&models.GigMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gig_id = ?", id).Delete(&models.HomeGigPlacement{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Gig{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddMedia appends media to the end of its section
func (r *GigRepo) AddMedia(ctx context.Context, media *models.GigMedia) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		err := tx.Model(&models.GigMedia{}).
			Select("COALESCE(MAX(sort_order) + 1, 0)").
			Where("gig_id = ? AND section = ?", media.GigID, media.Section).
			Scan(&next).Error
		if err != nil {
			return err
		}
		media.SortOrder = next
		return tx.Create(media).Error
	})
}

// FindMedia returns a media row that belongs to the gig
func (r *GigRepo) FindMedia(ctx context.Context, gigID, mediaID uuid.UUID) (*models.GigMedia, error) {
	var media models.GigMedia
	err := r.db.WithContext(ctx).First(&media, "id = ? AND gig_id = ?", mediaID, gigID).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// DeleteMedia removes a media row and closes the gap in its section ordering
func (r *GigRepo) DeleteMedia(ctx context.Context, gigID, mediaID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var media models.GigMedia
		if err := tx.First(&media, "id = ? AND gig_id = ?", mediaID, gigID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&media).Error; err != nil {
			return err
		}

		var remaining []uuid.UUID
		err := tx.Model(&models.GigMedia{}).
			Where("gig_id = ? AND section = ?", gigID, media.Section).
			Order("sort_order ASC").
			Pluck("id", &remaining).Error
		if err != nil {
			return err
		}
		return rewriteSortOrder(tx, &models.GigMedia{}, remaining)
	})
}

// ReorderMedia rewrites the sort order of one section. mediaIDs must list
// every media row of that section exactly once.
func (r *GigRepo) ReorderMedia(ctx context.Context, gigID uuid.UUID, section models.MediaSection, mediaIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uuid.UUID
		err := tx.Model(&models.GigMedia{}).
			Where("gig_id = ? AND section = ?", gigID, section).
			Pluck("id", &existing).Error
		if err != nil {
			return err
		}

		if err := sameIDSet(existing, mediaIDs); err != nil {
			return errs.NewInvalidFieldError("mediaIds", err.Error())
		}
		return rewriteSortOrder(tx, &models.GigMedia{}, mediaIDs)
	})
}

// SetTags replaces the gig's tags
func (r *GigRepo) SetTags(ctx context.Context, gigID uuid.UUID, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var gig models.Gig
		if err := tx.First(&gig, "id = ?", gigID).Error; err != nil {
			return err
		}

		var tags []models.GigTag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(uniqueIDs(tagIDs)) {
				return errs.NewInvalidFieldError("tagIds", "unknown tag id")
			}
		}
		return tx.Model(&gig).Association("Tags").Replace(tags)
	})
}

// rewriteSortOrder assigns 0..n-1 in the order of ids. Rows are first moved to
// negative positions so unique (section, sort_order) indexes never collide mid-update.
func rewriteSortOrder(tx *gorm.DB, model interface{}, ids []uuid.UUID) error {
	for i, id := range ids {
		if err := tx.Model(model).Where("id = ?", id).Update("sort_order", -(i + 1)).Error; err != nil {
			return err
		}
	}
	for i, id := range ids {
		if err := tx.Model(model).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// sameIDSet checks that requested is a permutation of existing
func sameIDSet(existing, requested []uuid.UUID) error {
	if len(uniqueIDs(requested)) != len(requested) {
		return fmt.Errorf("duplicate id in list")
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for _, id := range requested {
		if !known[id] {
			return fmt.Errorf("id %s does not belong to this list", id)
		}
	}
	if len(requested) != len(existing) {
		return fmt.Errorf("expected %d ids, got %d", len(existing), len(requested))
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
