package database

import (
	"context"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileTagRepo struct {
	db *gorm.DB
}

func NewFileTagRepo(db *gorm.DB) *FileTagRepo {
	return &FileTagRepo{db}
}

// FileTagUsage is a tag with the number of live files carrying it
type FileTagUsage struct {
	models.FileTag
	FileCount int64 `json:"fileCount"`
}

// FindAll returns every file tag with its usage count
func (r *FileTagRepo) FindAll(ctx context.Context) ([]*FileTagUsage, error) {
	var tags []*FileTagUsage
	err := r.db.WithContext(ctx).
		Table("file_tags").
		Select("file_tags.id, file_tags.name, COUNT(file_uploads.id) AS file_count").
		Joins("LEFT JOIN file_upload_tags ON file_upload_tags.file_tag_id = file_tags.id").
		Joins("LEFT JOIN file_uploads ON file_uploads.id = file_upload_tags.file_upload_id AND file_uploads.status = ?", models.FileStatusOK).
		Group("file_tags.id, file_tags.name").
		Order("file_tags.name ASC").
		Scan(&tags).Error
	return tags, err
}

func (r *FileTagRepo) Add(ctx context.Context, tag *models.FileTag) error {
	tag.Name = normalizeTag(tag.Name)
	return r.db.WithContext(ctx).Create(tag).Error
}

// Delete removes a tag and detaches it from every file
func (r *FileTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM file_upload_tags WHERE file_tag_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &models.FileTag{}, id)
	})
}
