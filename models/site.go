package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CrewMember is a collective member shown on the about page
type CrewMember struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name          string    `json:"name" db:"name" gorm:"type:text;not null"`
	Role          string    `json:"role" db:"role" gorm:"type:text;not null;default:''"`
	Bio           string    `json:"bio" db:"bio" gorm:"type:text;not null;default:''"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url" gorm:"type:text"`
	InstagramURL  *string   `json:"instagramUrl,omitempty" db:"instagram_url" gorm:"type:text"`
	SoundcloudURL *string   `json:"soundcloudUrl,omitempty" db:"soundcloud_url" gorm:"type:text"`
	SortOrder     int       `json:"sortOrder" db:"sort_order" gorm:"not null;default:0;index"`
}

func (c *CrewMember) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type ContentType string

const (
	ContentTypeMix     ContentType = "MIX"
	ContentTypeVideo   ContentType = "VIDEO"
	ContentTypeArticle ContentType = "ARTICLE"
	ContentTypePhoto   ContentType = "PHOTO"
	ContentTypeSocial  ContentType = "SOCIAL"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMix, ContentTypeVideo, ContentTypeArticle, ContentTypePhoto, ContentTypeSocial:
		return true
	}
	return false
}

// ContentItem is an external piece of content (mix, video, article) surfaced on the site
type ContentItem struct {
	ID           uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Type         ContentType    `json:"type" db:"type" gorm:"type:text;not null;index"`
	Title        string         `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string         `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	URL          string         `json:"url" db:"url" gorm:"type:text;not null"`
	ThumbnailURL *string        `json:"thumbnailUrl,omitempty" db:"thumbnail_url" gorm:"type:text"`
	PublishedAt  *time.Time     `json:"publishedAt,omitempty" db:"published_at" gorm:"index"`
	Metadata     datatypes.JSON `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

func (c *ContentItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// MerchItem is a product linked out to the shop
type MerchItem struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	PriceCents  int64     `json:"priceCents" db:"price_cents" gorm:"not null;default:0"`
	Currency    string    `json:"currency" db:"currency" gorm:"type:text;not null;default:'GBP'"`
	ImageURL    *string   `json:"imageUrl,omitempty" db:"image_url" gorm:"type:text"`
	ShopURL     *string   `json:"shopUrl,omitempty" db:"shop_url" gorm:"type:text"`
	Available   bool      `json:"available" db:"available" gorm:"not null"`
	SortOrder   int       `json:"sortOrder" db:"sort_order" gorm:"not null;default:0;index"`
}

func (m *MerchItem) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Currency == "" {
		m.Currency = "GBP"
	}
	return nil
}

// ContactSubmission is a message sent through the public contact form
type ContactSubmission struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null"`
	Subject   string    `json:"subject" db:"subject" gorm:"type:text;not null;default:''"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null"`
	Handled   bool      `json:"handled" db:"handled" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"index"`
}

func (c *ContactSubmission) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
