package database

import (
	"context"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileFilter narrows FindAll
type FileFilter struct {
	Status models.FileUploadStatus
	Tag    string
}

type FileUploadRepo struct {
	db *gorm.DB
}

func NewFileUploadRepo(db *gorm.DB) *FileUploadRepo {
	return &FileUploadRepo{db}
}

// FindAll returns uploads newest first with their tags. DELETED rows are
// hidden unless explicitly requested.
func (r *FileUploadRepo) FindAll(ctx context.Context, filter FileFilter) ([]*models.FileUpload, error) {
	query := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("file_uploads.created_at DESC")

	if filter.Status != "" {
		query = query.Where("file_uploads.status = ?", filter.Status)
	} else {
		query = query.Where("file_uploads.status <> ?", models.FileStatusDeleted)
	}
	if filter.Tag != "" {
		query = query.Where("file_uploads.id IN (?)",
			r.db.Table("file_upload_tags").
				Select("file_upload_tags.file_upload_id").
				Joins("JOIN file_tags ON file_tags.id = file_upload_tags.file_tag_id").
				Where("file_tags.name = ?", normalizeTag(filter.Tag)))
	}

	var files []*models.FileUpload
	err := query.Find(&files).Error
	return files, err
}

func (r *FileUploadRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FileUpload, error) {
	var file models.FileUpload
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByIDs returns every upload among ids
func (r *FileUploadRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.FileUpload, error) {
	var files []*models.FileUpload
	if len(ids) == 0 {
		return files, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&files).Error
	return files, err
}

// FindOKByChecksum returns the live upload with this content hash, if any
func (r *FileUploadRepo) FindOKByChecksum(ctx context.Context, checksum string) (*models.FileUpload, error) {
	var file models.FileUpload
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("checksum = ? AND status = ?", checksum, models.FileStatusOK).
		Order("created_at ASC").
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// Add inserts an upload record; tags are attached by name
func (r *FileUploadRepo) Add(ctx context.Context, file *models.FileUpload, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateFileTags(tx, tagNames)
		if err != nil {
			return err
		}
		file.Tags = tags
		return tx.Omit("Tags.*").Create(file).Error
	})
}

// SetStatus moves a file through its lifecycle, rejecting transitions the lifecycle forbids
func (r *FileUploadRepo) SetStatus(ctx context.Context, id uuid.UUID, next models.FileUploadStatus) (*models.FileUpload, error) {
	var file models.FileUpload
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&file, "id = ?", id).Error; err != nil {
			return err
		}
		if !file.Status.CanTransition(next) {
			return errs.NewInvalidStatusChangeError(string(file.Status), string(next))
		}

		res := tx.Model(&models.FileUpload{}).
			Where("id = ? AND status = ?", id, file.Status).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewConflictError("file status changed concurrently")
		}
		file.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// SetTags replaces the tags of a file, creating missing tags by name
func (r *FileUploadRepo) SetTags(ctx context.Context, id uuid.UUID, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var file models.FileUpload
		if err := tx.First(&file, "id = ?", id).Error; err != nil {
			return err
		}
		tags, err := findOrCreateFileTags(tx, tagNames)
		if err != nil {
			return err
		}
		return tx.Model(&file).Association("Tags").Replace(tags)
	})
}

// AddTags attaches tags to a file, keeping the ones it already has
func (r *FileUploadRepo) AddTags(ctx context.Context, id uuid.UUID, tagNames []string) error {
	if len(tagNames) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		file := models.FileUpload{ID: id}
		tags, err := findOrCreateFileTags(tx, tagNames)
		if err != nil {
			return err
		}
		return tx.Model(&file).Association("Tags").Append(tags)
	})
}

// findOrCreateFileTags resolves names to tags, creating the missing ones
func findOrCreateFileTags(tx *gorm.DB, names []string) ([]models.FileTag, error) {
	var normalized []string
	seen := map[string]bool{}
	for _, name := range names {
		name = normalizeTag(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		normalized = append(normalized, name)
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	var existing []models.FileTag
	if err := tx.Where("name IN ?", normalized).Find(&existing).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]models.FileTag, len(existing))
	for _, tag := range existing {
		byName[tag.Name] = tag
	}

	tags := make([]models.FileTag, 0, len(normalized))
	for _, name := range normalized {
		tag, ok := byName[name]
		if !ok {
			tag = models.FileTag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
