package database

import (
	"context"
	"testing"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database/dbtest"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 10, 12, 12, 0, 0, 0, time.UTC)

func createTestGig(t *testing.T, repo *GigRepo, title string, start time.Time, published bool) *models.Gig {
	t.Helper()

	gig := &models.Gig{Title: title, StartTime: start, Published: published}
	require.NoError(t, repo.Add(context.Background(), gig))
	return gig
}

func addTestMedia(t *testing.T, repo *GigRepo, gigID uuid.UUID, section models.MediaSection, url string) *models.GigMedia {
	t.Helper()

	media := &models.GigMedia{GigID: gigID, Section: section, Type: models.MediaTypeImage, URL: url}
	require.NoError(t, repo.AddMedia(context.Background(), media))
	return media
}

func TestGigRepo_CreateThenGet(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()

	end := testNow.Add(6 * time.Hour)
	gig := &models.Gig{Title: "ATMOS 004", Venue: "Corsica Studios", StartTime: testNow, EndTime: &end, Published: true}
	require.NoError(t, repo.Add(ctx, gig))
	require.NotEqual(t, uuid.Nil, gig.ID)

	fetched, err := repo.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, "ATMOS 004", fetched.Title)
	assert.Equal(t, "Corsica Studios", fetched.Venue)
	assert.True(t, fetched.StartTime.Equal(testNow))
	require.NotNil(t, fetched.EndTime)
	assert.True(t, fetched.EndTime.Equal(end))
}

func TestGigRepo_DeleteThenGetNotFound(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()

	gig := createTestGig(t, repo, "ATMOS 001", testNow, true)
	addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "uploads/a.jpg")

	require.NoError(t, repo.Delete(ctx, gig.ID))

	_, err := repo.FindByID(ctx, gig.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, gig.ID), gorm.ErrRecordNotFound)
}

func TestGigRepo_FindAll_UpcomingAndPast(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()

	past := createTestGig(t, repo, "Past", testNow.Add(-48*time.Hour), true)
	soon := createTestGig(t, repo, "Soon", testNow.Add(24*time.Hour), true)
	later := createTestGig(t, repo, "Later", testNow.Add(72*time.Hour), true)
	createTestGig(t, repo, "Draft", testNow.Add(24*time.Hour), false)

	upcoming, err := repo.FindAll(ctx, GigFilter{When: GigsUpcoming, Now: testNow})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)

	previous, err := repo.FindAll(ctx, GigFilter{When: GigsPast, Now: testNow})
	require.NoError(t, err)
	require.Len(t, previous, 1)
	assert.Equal(t, past.ID, previous[0].ID)

	all, err := repo.FindAll(ctx, GigFilter{When: GigsAll, IncludeUnpublished: true, Now: testNow})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGigRepo_FindAll_RunningGigIsUpcoming(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()

	end := testNow.Add(2 * time.Hour)
	running := &models.Gig{Title: "Running", StartTime: testNow.Add(-4 * time.Hour), EndTime: &end, Published: true}
	require.NoError(t, repo.Add(ctx, running))

	upcoming, err := repo.FindAll(ctx, GigFilter{When: GigsUpcoming, Now: testNow})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, running.ID, upcoming[0].ID)
}

func TestGigRepo_FindAll_ByTag(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewGigRepo(db)
	tagRepo := NewGigTagRepo(db)
	ctx := context.Background()

	techno := &models.GigTag{Name: "techno"}
	require.NoError(t, tagRepo.Add(ctx, techno))

	tagged := createTestGig(t, repo, "Tagged", testNow, true)
	createTestGig(t, repo, "Untagged", testNow, true)
	require.NoError(t, repo.SetTags(ctx, tagged.ID, []uuid.UUID{techno.ID}))

	gigs, err := repo.FindAll(ctx, GigFilter{When: GigsAll, Tag: "techno", Now: testNow})
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	assert.Equal(t, tagged.ID, gigs[0].ID)
	require.Len(t, gigs[0].Tags, 1)
	assert.Equal(t, "techno", gigs[0].Tags[0].Name)
}

func TestGigRepo_SetTags_UnknownTag(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	gig := createTestGig(t, repo, "Gig", testNow, true)

	err := repo.SetTags(context.Background(), gig.ID, []uuid.UUID{uuid.New()})
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestGigRepo_AddMedia_AppendsPerSection(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	gig := createTestGig(t, repo, "Gig", testNow, true)

	a := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "a.jpg")
	b := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "b.jpg")
	hero := addTestMedia(t, repo, gig.ID, models.MediaSectionHero, "hero.jpg")

	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)
	assert.Equal(t, 0, hero.SortOrder)
}

func TestGigRepo_ReorderMedia(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()
	gig := createTestGig(t, repo, "Gig", testNow, true)

	a := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "a.jpg")
	b := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "b.jpg")
	c := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "c.jpg")

	require.NoError(t, repo.ReorderMedia(ctx, gig.ID, models.MediaSectionGallery, []uuid.UUID{c.ID, a.ID, b.ID}))

	fetched, err := repo.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Media, 3)
	assert.Equal(t, []string{"c.jpg", "a.jpg", "b.jpg"}, []string{fetched.Media[0].URL, fetched.Media[1].URL, fetched.Media[2].URL})
	for i, m := range fetched.Media {
		assert.Equal(t, i, m.SortOrder)
	}
}

func TestGigRepo_ReorderMedia_RejectsIncompleteList(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()
	gig := createTestGig(t, repo, "Gig", testNow, true)
	other := createTestGig(t, repo, "Other", testNow, true)

	a := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "a.jpg")
	b := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "b.jpg")
	foreign := addTestMedia(t, repo, other.ID, models.MediaSectionGallery, "x.jpg")

	cases := map[string][]uuid.UUID{
		"missing":   {a.ID},
		"duplicate": {a.ID, a.ID},
		"foreign":   {a.ID, foreign.ID},
		"extra":     {a.ID, b.ID, foreign.ID},
	}
	for name, ids := range cases {
		err := repo.ReorderMedia(ctx, gig.ID, models.MediaSectionGallery, ids)
		assert.True(t, errs.IsInvalidFieldError(err), name)
	}

	fetched, err := repo.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, fetched.Media[0].ID)
	assert.Equal(t, b.ID, fetched.Media[1].ID)
}

func TestGigRepo_DeleteMedia_ClosesGap(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()
	gig := createTestGig(t, repo, "Gig", testNow, true)

	a := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "a.jpg")
	b := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "b.jpg")
	c := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "c.jpg")

	require.NoError(t, repo.DeleteMedia(ctx, gig.ID, b.ID))

	fetched, err := repo.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Media, 2)
	assert.Equal(t, a.ID, fetched.Media[0].ID)
	assert.Equal(t, 0, fetched.Media[0].SortOrder)
	assert.Equal(t, c.ID, fetched.Media[1].ID)
	assert.Equal(t, 1, fetched.Media[1].SortOrder)

	next := addTestMedia(t, repo, gig.ID, models.MediaSectionGallery, "d.jpg")
	assert.Equal(t, 2, next.SortOrder)
}

func TestGigRepo_Update(t *testing.T) {
	repo := NewGigRepo(dbtest.Open(t))
	ctx := context.Background()
	gig := createTestGig(t, repo, "Gig", testNow, false)

	gig.Title = "Renamed"
	gig.Published = true
	require.NoError(t, repo.Update(ctx, gig))

	fetched, err := repo.FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Title)
	assert.True(t, fetched.Published)

	missing := &models.Gig{ID: uuid.New(), Title: "x", StartTime: testNow}
	assert.ErrorIs(t, repo.Update(ctx, missing), gorm.ErrRecordNotFound)
}
