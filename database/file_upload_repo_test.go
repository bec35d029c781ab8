package database

import (
	"context"
	"testing"

	"github.com/atmos-collective/atmos-site-backend/database/dbtest"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func addTestFile(t *testing.T, repo *FileUploadRepo, key string, status models.FileUploadStatus, tags ...string) *models.FileUpload {
	t.Helper()

	file := &models.FileUpload{
		Key:          key,
		OriginalName: key,
		ContentType:  "image/jpeg",
		Size:         1024,
		Checksum:     strPtr("sum-" + key),
		Status:       status,
	}
	require.NoError(t, repo.Add(context.Background(), file, tags))
	return file
}

func TestFileUploadRepo_AddWithTagsCreatesTagsOnce(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewFileUploadRepo(db)
	tagRepo := NewFileTagRepo(db)
	ctx := context.Background()

	a := addTestFile(t, repo, "a.jpg", models.FileStatusOK, "Flyers", " flyers ", "gig-004")
	addTestFile(t, repo, "b.jpg", models.FileStatusOK, "flyers")

	fetched, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tags, 2)
	assert.Equal(t, "flyers", fetched.Tags[0].Name)
	assert.Equal(t, "gig-004", fetched.Tags[1].Name)

	tags, err := tagRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "flyers", tags[0].Name)
	assert.EqualValues(t, 2, tags[0].FileCount)
	assert.EqualValues(t, 1, tags[1].FileCount)
}

func TestFileUploadRepo_FindAllFilters(t *testing.T) {
	repo := NewFileUploadRepo(dbtest.Open(t))
	ctx := context.Background()

	ok := addTestFile(t, repo, "ok.jpg", models.FileStatusOK, "press")
	addTestFile(t, repo, "soft.jpg", models.FileStatusSoftDeleted)
	addTestFile(t, repo, "gone.jpg", models.FileStatusDeleted, "press")

	visible, err := repo.FindAll(ctx, FileFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 2, "DELETED files are hidden by default")

	onlyOK, err := repo.FindAll(ctx, FileFilter{Status: models.FileStatusOK})
	require.NoError(t, err)
	require.Len(t, onlyOK, 1)
	assert.Equal(t, ok.ID, onlyOK[0].ID)

	press, err := repo.FindAll(ctx, FileFilter{Tag: "Press"})
	require.NoError(t, err)
	require.Len(t, press, 1)
	assert.Equal(t, ok.ID, press[0].ID)
}

func TestFileUploadRepo_FindOKByChecksum(t *testing.T) {
	repo := NewFileUploadRepo(dbtest.Open(t))
	ctx := context.Background()

	ok := addTestFile(t, repo, "ok.jpg", models.FileStatusOK)
	addTestFile(t, repo, "soft.jpg", models.FileStatusSoftDeleted)

	found, err := repo.FindOKByChecksum(ctx, "sum-ok.jpg")
	require.NoError(t, err)
	assert.Equal(t, ok.ID, found.ID)

	_, err = repo.FindOKByChecksum(ctx, "sum-soft.jpg")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFileUploadRepo_SetStatusLifecycle(t *testing.T) {
	repo := NewFileUploadRepo(dbtest.Open(t))
	ctx := context.Background()

	file := addTestFile(t, repo, "a.jpg", models.FileStatusUploading)

	updated, err := repo.SetStatus(ctx, file.ID, models.FileStatusOK)
	require.NoError(t, err)
	assert.Equal(t, models.FileStatusOK, updated.Status)

	_, err = repo.SetStatus(ctx, file.ID, models.FileStatusSoftDeleted)
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, file.ID, models.FileStatusOK)
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, file.ID, models.FileStatusDeleted)
	require.NoError(t, err)

	_, err = repo.SetStatus(ctx, file.ID, models.FileStatusOK)
	assert.True(t, errs.IsInvalidStatusChange(err))
}

func TestFileUploadRepo_SetTagsReplaces(t *testing.T) {
	repo := NewFileUploadRepo(dbtest.Open(t))
	ctx := context.Background()

	file := addTestFile(t, repo, "a.jpg", models.FileStatusOK, "old")
	require.NoError(t, repo.SetTags(ctx, file.ID, []string{"new", "crew"}))

	fetched, err := repo.FindByID(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tags, 2)
	assert.Equal(t, "crew", fetched.Tags[0].Name)
	assert.Equal(t, "new", fetched.Tags[1].Name)

	require.NoError(t, repo.AddTags(ctx, file.ID, []string{"crew", "extra"}))
	fetched, err = repo.FindByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Tags, 3)
}

func TestFileTagRepo_DeleteDetaches(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewFileUploadRepo(db)
	tagRepo := NewFileTagRepo(db)
	ctx := context.Background()

	file := addTestFile(t, repo, "a.jpg", models.FileStatusOK, "flyers")
	require.Len(t, file.Tags, 1)

	require.NoError(t, tagRepo.Delete(ctx, file.Tags[0].ID))

	fetched, err := repo.FindByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Tags)
}
