package database

import (
	"context"
	"testing"

	"github.com/atmos-collective/atmos-site-backend/database/dbtest"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepo_EmailIsNormalizedAndUnique(t *testing.T) {
	repo := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()

	user := &models.User{Email: "  Crew@Atmos.Example ", PasswordHash: "x"}
	require.NoError(t, repo.Add(ctx, user))
	assert.Equal(t, models.RoleUser, user.Role)

	fetched, err := repo.FindByEmail(ctx, "CREW@atmos.example")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)

	err = repo.Add(ctx, &models.User{Email: "crew@atmos.example", PasswordHash: "y"})
	require.Error(t, err)
	assert.True(t, errs.IsAlreadyExists(errs.NewDatabaseError("create", "user", err)))
}

func TestUserRepo_UpdateRoleAndCountAdmins(t *testing.T) {
	repo := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()

	user := &models.User{Email: "a@atmos.example", PasswordHash: "x"}
	require.NoError(t, repo.Add(ctx, user))

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.UpdateRole(ctx, user.ID, models.RoleAdmin))
	count, err = repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.UpdateRole(ctx, uuid.New(), models.RoleAdmin), gorm.ErrRecordNotFound)
}

func TestCrewRepo_AddAppendsAndReorder(t *testing.T) {
	repo := NewCrewRepo(dbtest.Open(t))
	ctx := context.Background()

	var ids []uuid.UUID
	for _, name := range []string{"Ana", "Ben", "Cas"} {
		member := &models.CrewMember{Name: name}
		require.NoError(t, repo.Add(ctx, member))
		ids = append(ids, member.ID)
	}

	crew, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Ben", "Cas"}, crewNames(crew))

	require.NoError(t, repo.Reorder(ctx, []uuid.UUID{ids[2], ids[0], ids[1]}))
	crew, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cas", "Ana", "Ben"}, crewNames(crew))

	err = repo.Reorder(ctx, ids[:2])
	assert.True(t, errs.IsInvalidFieldError(err))
}

func crewNames(crew []*models.CrewMember) []string {
	names := make([]string, len(crew))
	for i, c := range crew {
		names[i] = c.Name
	}
	return names
}

func TestMerchRepo_AvailableOnly(t *testing.T) {
	repo := NewMerchRepo(dbtest.Open(t))
	ctx := context.Background()

	tee := &models.MerchItem{Name: "Tee", PriceCents: 2500, Available: true}
	require.NoError(t, repo.Add(ctx, tee))
	assert.Equal(t, "GBP", tee.Currency)

	sold := &models.MerchItem{Name: "Poster", PriceCents: 1000, Available: true}
	require.NoError(t, repo.Add(ctx, sold))
	sold.Available = false
	require.NoError(t, repo.Update(ctx, sold))

	items, err := repo.FindAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tee.ID, items[0].ID)

	items, err = repo.FindAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestContentRepo_FilterAndDelete(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewContentRepo(db)
	placements := NewPlacementRepo(db)
	ctx := context.Background()

	mix := &models.ContentItem{Type: models.ContentTypeMix, Title: "Mix 01", URL: "https://soundcloud.com/atmos/mix-01"}
	video := &models.ContentItem{Type: models.ContentTypeVideo, Title: "Aftermovie", URL: "https://youtu.be/abc123"}
	require.NoError(t, repo.Add(ctx, mix))
	require.NoError(t, repo.Add(ctx, video))

	mixes, err := repo.FindAll(ctx, models.ContentTypeMix)
	require.NoError(t, err)
	require.Len(t, mixes, 1)
	assert.Equal(t, mix.ID, mixes[0].ID)

	require.NoError(t, placements.SetContentPlacements(ctx, models.SectionFeatured, []uuid.UUID{mix.ID}, 4))
	require.NoError(t, repo.Delete(ctx, mix.ID))

	remaining, err := placements.FindContentPlacements(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestContactRepo(t *testing.T) {
	repo := NewContactRepo(dbtest.Open(t))
	ctx := context.Background()

	sub := &models.ContactSubmission{Name: "Sam", Email: "sam@example.com", Message: "Booking enquiry"}
	require.NoError(t, repo.Add(ctx, sub))

	open, err := repo.FindAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	require.NoError(t, repo.SetHandled(ctx, sub.ID, true))
	open, err = repo.FindAll(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, open)

	require.NoError(t, repo.Delete(ctx, sub.ID))
	assert.ErrorIs(t, repo.Delete(ctx, sub.ID), gorm.ErrRecordNotFound)
}
