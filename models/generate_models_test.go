package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"
)

func TestGetModelFields(t *testing.T) {
	fields := getModelFields(&CrewMember{}, schema.NamingStrategy{})
	assert.ElementsMatch(t, []string{
		"id", "name", "role", "bio", "image_url", "instagram_url", "soundcloud_url", "sort_order",
	}, fields)
}

func TestFindColumnMismatches(t *testing.T) {
	mismatches := findColumnMismatches(
		[]string{"id", "name", "legacy_slug", "sort_order"},
		[]string{"id", "name", "sort_order"},
	)
	assert.Equal(t, []string{"legacy_slug"}, mismatches)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "name"}))
}

func TestExtractColumnNameFromGormTag(t *testing.T) {
	assert.Equal(t, "poster_key", extractColumnNameFromGormTag("type:text; column:poster_key;not null"))
	assert.Equal(t, "", extractColumnNameFromGormTag("type:text;not null"))
	assert.True(t, isRelationTag("foreignKey:GigID;constraint:OnDelete:CASCADE"))
	assert.False(t, isRelationTag("type:uuid;index"))
}

func TestContentTypeValid(t *testing.T) {
	assert.True(t, ContentTypeMix.Valid())
	assert.True(t, ContentTypeSocial.Valid())
	assert.False(t, ContentType("PODCAST").Valid())
	assert.False(t, ContentType("mix").Valid())
}
