package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileUploadStatus string

const (
	FileStatusOK          FileUploadStatus = "OK"
	FileStatusSoftDeleted FileUploadStatus = "SOFT_DELETED"
	FileStatusDeleted     FileUploadStatus = "DELETED"
	FileStatusUploading   FileUploadStatus = "UPLOADING"
	FileStatusErrored     FileUploadStatus = "ERRORED"
)

func (s FileUploadStatus) Valid() bool {
	switch s {
	case FileStatusOK, FileStatusSoftDeleted, FileStatusDeleted, FileStatusUploading, FileStatusErrored:
		return true
	}
	return false
}

// allowedTransitions lists the statuses reachable from each status.
var allowedTransitions = map[FileUploadStatus][]FileUploadStatus{
	FileStatusUploading:   {FileStatusOK, FileStatusErrored},
	FileStatusOK:          {FileStatusSoftDeleted, FileStatusDeleted},
	FileStatusSoftDeleted: {FileStatusOK, FileStatusDeleted},
	FileStatusErrored:     {FileStatusDeleted},
}

// CanTransition reports whether a file may move from s to next.
func (s FileUploadStatus) CanTransition(next FileUploadStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// FileUpload describes an object stored in the S3 bucket
type FileUpload struct {
	ID           uuid.UUID        `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Key          string           `json:"key" db:"key" gorm:"type:text;not null;uniqueIndex"`
	OriginalName string           `json:"originalName" db:"original_name" gorm:"type:text;not null"`
	ContentType  string           `json:"contentType" db:"content_type" gorm:"type:text;not null"`
	Size         int64            `json:"size" db:"size" gorm:"not null;default:0"`
	Checksum     *string          `json:"checksum,omitempty" db:"checksum" gorm:"type:text;index"`
	Status       FileUploadStatus `json:"status" db:"status" gorm:"type:text;not null;default:'UPLOADING';index"`
	UploadedByID *uuid.UUID       `json:"uploadedById,omitempty" db:"uploaded_by_id" gorm:"type:uuid"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time        `json:"updatedAt" db:"updated_at"`

	UploadedBy *User     `json:"-" gorm:"foreignKey:UploadedByID;references:ID;constraint:OnDelete:SET NULL"`
	Tags       []FileTag `json:"tags,omitempty" gorm:"many2many:file_upload_tags;constraint:OnDelete:CASCADE"`
}

func (f *FileUpload) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Status == "" {
		f.Status = FileStatusUploading
	}
	return nil
}

// FileTag groups uploads in the files manager
type FileTag struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (t *FileTag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
