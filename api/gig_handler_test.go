package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGig_FromFlyerDate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/gig", env.adminToken, gigRequest{
		Title:     "ATMOS 005",
		Venue:     "Corsica Studios",
		Date:      "Sat 19 Oct 2024",
		Time:      "10pm - 4am",
		TicketURL: ptr("https://ra.co/events/123"),
		PosterURL: ptr("posters/atmos-005.jpg"),
		Published: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	gig := decodeBody[gigView](t, rec)
	assert.Equal(t, time.Date(2024, 10, 19, 22, 0, 0, 0, time.UTC), gig.StartTime.UTC())
	require.NotNil(t, gig.EndTime)
	assert.Equal(t, time.Date(2024, 10, 20, 4, 0, 0, 0, time.UTC), gig.EndTime.UTC())
	assert.Equal(t, "Sat 19 Oct 2024", gig.DisplayDate)
	assert.Equal(t, "22:00 – 04:00", gig.DisplayTime)
	require.NotNil(t, gig.ResolvedPosterURL)
	assert.Equal(t, "https://cdn.atmos.test/posters/atmos-005.jpg", *gig.ResolvedPosterURL)
}

func TestCreateGig_Validation(t *testing.T) {
	env := newTestEnv(t)
	start := testNow.Add(24 * time.Hour)
	before := start.Add(-time.Hour)

	tests := []struct {
		name string
		req  gigRequest
	}{
		{"missing title", gigRequest{StartTime: &start}},
		{"missing start", gigRequest{Title: "No date"}},
		{"end before start", gigRequest{Title: "Backwards", StartTime: &start, EndTime: &before}},
		{"unparseable date", gigRequest{Title: "Soon", Date: "sometime soon"}},
		{"relative ticket url", gigRequest{Title: "Tickets", StartTime: &start, TicketURL: ptr("/tickets")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/gig", env.adminToken, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateGig_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser("crew@atmos.test", models.RoleUser)
	start := testNow.Add(24 * time.Hour)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/gig", "", gigRequest{Title: "x", StartTime: &start}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/gig", userToken, gigRequest{Title: "x", StartTime: &start}).Code)
}

func TestGetGigs_PublicHidesDrafts(t *testing.T) {
	env := newTestEnv(t)
	published := env.createGig("Published", testNow.Add(48*time.Hour), true)
	draft := env.createGig("Draft", testNow.Add(72*time.Hour), false)
	env.createGig("Last month", testNow.AddDate(0, -1, 0), true)

	public := decodeBody[[]gigView](t, env.do(http.MethodGet, "/gigs", "", nil))
	require.Len(t, public, 1)
	assert.Equal(t, published.ID, public[0].ID)

	admin := decodeBody[[]gigView](t, env.do(http.MethodGet, "/gigs", env.adminToken, nil))
	assert.Len(t, admin, 2)

	past := decodeBody[[]gigView](t, env.do(http.MethodGet, "/gigs?when=past", "", nil))
	require.Len(t, past, 1)
	assert.Equal(t, "Last month", past[0].Title)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/gigs?when=someday", "", nil).Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/gig/"+draft.ID.String(), "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/gig/"+draft.ID.String(), env.adminToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/gig/not-a-uuid", "", nil).Code)
}

func TestUpdateAndDeleteGig(t *testing.T) {
	env := newTestEnv(t)
	gig := env.createGig("Old title", testNow.Add(24*time.Hour), false)
	start := testNow.Add(48 * time.Hour)

	rec := env.do(http.MethodPut, "/gig/"+gig.ID.String(), env.adminToken, gigRequest{Title: "New title", StartTime: &start, Published: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[gigView](t, rec)
	assert.Equal(t, "New title", updated.Title)
	assert.True(t, updated.Published)

	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/gig/"+gig.ID.String(), env.adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/gig/"+gig.ID.String(), env.adminToken, nil).Code)
}

func TestGigMedia_AddAndReorder(t *testing.T) {
	env := newTestEnv(t)
	gig := env.createGig("ATMOS 006", testNow.Add(24*time.Hour), true)
	path := "/gig/" + gig.ID.String()

	var ids []string
	for _, url := range []string{"gallery/1.jpg", "gallery/2.jpg", "gallery/3.jpg"} {
		rec := env.do(http.MethodPost, path+"/media", env.adminToken, gigMediaRequest{Section: models.MediaSectionGallery, Type: models.MediaTypeImage, URL: url})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		view := decodeBody[gigView](t, rec)
		ids = append(ids, view.Media[len(view.Media)-1].ID.String())
	}

	rec := env.do(http.MethodPut, path+"/media/order", env.adminToken, reorderMediaRequest{
		Section:  models.MediaSectionGallery,
		MediaIDs: []string{ids[2], ids[0], ids[1]},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decodeBody[gigView](t, rec)
	require.Len(t, view.Media, 3)
	assert.Equal(t, ids[2], view.Media[0].ID.String())
	assert.Equal(t, ids[0], view.Media[1].ID.String())
	assert.Equal(t, "https://cdn.atmos.test/gallery/3.jpg", view.Media[0].ResolvedURL)

	partial := env.do(http.MethodPut, path+"/media/order", env.adminToken, reorderMediaRequest{
		Section:  models.MediaSectionGallery,
		MediaIDs: []string{ids[0], ids[1]},
	})
	assert.Equal(t, http.StatusBadRequest, partial.Code)
}

func TestGigMedia_EmbedMustBeSupported(t *testing.T) {
	env := newTestEnv(t)
	gig := env.createGig("ATMOS 007", testNow.Add(24*time.Hour), true)
	path := "/gig/" + gig.ID.String() + "/media"

	bad := env.do(http.MethodPost, path, env.adminToken, gigMediaRequest{Section: models.MediaSectionVideo, Type: models.MediaTypeEmbed, URL: "https://example.com/video"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	rec := env.do(http.MethodPost, path, env.adminToken, gigMediaRequest{Section: models.MediaSectionVideo, Type: models.MediaTypeEmbed, URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	view := decodeBody[gigView](t, rec)
	require.Len(t, view.Media, 1)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", view.Media[0].EmbedURL)

	missing := env.do(http.MethodPost, "/gig/"+testUUID+"/media", env.adminToken, gigMediaRequest{Section: models.MediaSectionHero, Type: models.MediaTypeImage, URL: "hero.jpg"})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestGigTags(t *testing.T) {
	env := newTestEnv(t)
	gig := env.createGig("ATMOS 008", testNow.Add(24*time.Hour), true)

	rec := env.do(http.MethodPost, "/gig-tag", env.adminToken, gigTagRequest{Name: "techno", Color: ptr("#ff0066")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decodeBody[models.GigTag](t, rec)

	badColor := env.do(http.MethodPost, "/gig-tag", env.adminToken, gigTagRequest{Name: "house", Color: ptr("pink")})
	assert.Equal(t, http.StatusBadRequest, badColor.Code)

	tagged := env.do(http.MethodPut, "/gig/"+gig.ID.String()+"/tags", env.adminToken, gigTagsRequest{TagIDs: []string{tag.ID.String()}})
	require.Equal(t, http.StatusOK, tagged.Code, tagged.Body.String())
	assert.Len(t, decodeBody[gigView](t, tagged).Tags, 1)

	filtered := decodeBody[[]gigView](t, env.do(http.MethodGet, "/gigs?tag=techno", "", nil))
	assert.Len(t, filtered, 1)
	none := decodeBody[[]gigView](t, env.do(http.MethodGet, "/gigs?tag=ambient", "", nil))
	assert.Empty(t, none)
}
