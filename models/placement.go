package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlacementSection string

const (
	SectionFeatured PlacementSection = "FEATURED"
	SectionUpcoming PlacementSection = "UPCOMING"
	SectionLatest   PlacementSection = "LATEST"
)

// HomeGigPlacement positions a gig in a home page section
type HomeGigPlacement struct {
	ID        uuid.UUID        `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	GigID     uuid.UUID        `json:"gigId" db:"gig_id" gorm:"type:uuid;not null;uniqueIndex:idx_home_gig_unique,priority:2"`
	Section   PlacementSection `json:"section" db:"section" gorm:"type:text;not null;uniqueIndex:idx_home_gig_unique,priority:1;uniqueIndex:idx_home_gig_order,priority:1"`
	SortOrder int              `json:"sortOrder" db:"sort_order" gorm:"not null;uniqueIndex:idx_home_gig_order,priority:2"`

	Gig Gig `json:"gig" gorm:"foreignKey:GigID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *HomeGigPlacement) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HomeContentPlacement positions a content item in a home page section
type HomeContentPlacement struct {
	ID            uuid.UUID        `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContentItemID uuid.UUID        `json:"contentItemId" db:"content_item_id" gorm:"type:uuid;not null;uniqueIndex:idx_home_content_unique,priority:2"`
	Section       PlacementSection `json:"section" db:"section" gorm:"type:text;not null;uniqueIndex:idx_home_content_unique,priority:1;uniqueIndex:idx_home_content_order,priority:1"`
	SortOrder     int              `json:"sortOrder" db:"sort_order" gorm:"not null;uniqueIndex:idx_home_content_order,priority:2"`

	ContentItem ContentItem `json:"contentItem" gorm:"foreignKey:ContentItemID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *HomeContentPlacement) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// GigSections are the home sections that hold gigs.
var GigSections = []PlacementSection{SectionFeatured, SectionUpcoming}

// ContentSections are the home sections that hold content items.
var ContentSections = []PlacementSection{SectionFeatured, SectionLatest}

func ValidGigSection(s PlacementSection) bool {
	return s == SectionFeatured || s == SectionUpcoming
}

func ValidContentSection(s PlacementSection) bool {
	return s == SectionFeatured || s == SectionLatest
}
