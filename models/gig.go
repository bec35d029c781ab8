package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gig is a scheduled event
type Gig struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null;index"`
	Subtitle    *string    `json:"subtitle,omitempty" db:"subtitle" gorm:"type:text"`
	Description string     `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	Venue       string     `json:"venue" db:"venue" gorm:"type:text;not null;default:''"`
	City        string     `json:"city" db:"city" gorm:"type:text;not null;default:''"`
	StartTime   time.Time  `json:"startTime" db:"start_time" gorm:"not null;index"`
	EndTime     *time.Time `json:"endTime,omitempty" db:"end_time"`
	TicketURL   *string    `json:"ticketUrl,omitempty" db:"ticket_url" gorm:"type:text"`
	PosterURL   *string    `json:"posterUrl,omitempty" db:"poster_url" gorm:"type:text"`
	Published   bool       `json:"published" db:"published" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Media []GigMedia `json:"media,omitempty" gorm:"foreignKey:GigID;references:ID;constraint:OnDelete:CASCADE"`
	Tags  []GigTag   `json:"tags,omitempty" gorm:"many2many:gig_tag_links;constraint:OnDelete:CASCADE"`
}

func (g *Gig) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// EffectiveEnd is the end time, or the start time for gigs without one.
func (g Gig) EffectiveEnd() time.Time {
	if g.EndTime != nil {
		return *g.EndTime
	}
	return g.StartTime
}

// IsUpcoming reports whether the gig has not finished at now.
func (g Gig) IsUpcoming(now time.Time) bool {
	return !g.EffectiveEnd().Before(now)
}

type MediaSection string

const (
	MediaSectionHero    MediaSection = "HERO"
	MediaSectionGallery MediaSection = "GALLERY"
	MediaSectionVideo   MediaSection = "VIDEO"
)

func (s MediaSection) Valid() bool {
	switch s {
	case MediaSectionHero, MediaSectionGallery, MediaSectionVideo:
		return true
	}
	return false
}

type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeEmbed MediaType = "EMBED"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeImage, MediaTypeVideo, MediaTypeEmbed:
		return true
	}
	return false
}

// GigMedia is one ordered media entry within a section of a gig page.
// SortOrder is unique per (gig, section).
type GigMedia struct {
	ID        uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	GigID     uuid.UUID    `json:"gigId" db:"gig_id" gorm:"type:uuid;not null;uniqueIndex:idx_gig_media_order,priority:1"`
	Section   MediaSection `json:"section" db:"section" gorm:"type:text;not null;uniqueIndex:idx_gig_media_order,priority:2"`
	Type      MediaType    `json:"type" db:"type" gorm:"type:text;not null"`
	URL       string       `json:"url" db:"url" gorm:"type:text;not null"`
	Caption   *string      `json:"caption,omitempty" db:"caption" gorm:"type:text"`
	SortOrder int          `json:"sortOrder" db:"sort_order" gorm:"not null;default:0;uniqueIndex:idx_gig_media_order,priority:3"`
}

func (m *GigMedia) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// GigTag labels gigs (genre, series, venue type)
type GigTag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name  string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Color *string   `json:"color,omitempty" db:"color" gorm:"type:text"`
}

func (t *GigTag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
