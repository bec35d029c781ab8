package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrew_CreateAndReorder(t *testing.T) {
	env := newTestEnv(t)

	var ids []string
	for _, name := range []string{"Mira", "Tomas", "Ade"} {
		rec := env.do(http.MethodPost, "/crew", env.adminToken, models.CrewMember{Name: name, Role: "Resident", ImageURL: ptr("crew/" + name + ".jpg")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeBody[crewView](t, rec).ID.String())
	}

	rec := env.do(http.MethodPut, "/crew-order", env.adminToken, idsRequest{IDs: []string{ids[2], ids[0], ids[1]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	crew := decodeBody[[]crewView](t, env.do(http.MethodGet, "/crew", "", nil))
	require.Len(t, crew, 3)
	assert.Equal(t, "Ade", crew[0].Name)
	assert.Equal(t, "Mira", crew[1].Name)
	require.NotNil(t, crew[0].ResolvedImageURL)
	assert.Equal(t, "https://cdn.atmos.test/crew/Ade.jpg", *crew[0].ResolvedImageURL)

	incomplete := env.do(http.MethodPut, "/crew-order", env.adminToken, idsRequest{IDs: []string{ids[0]}})
	assert.Equal(t, http.StatusBadRequest, incomplete.Code)

	badLink := env.do(http.MethodPost, "/crew", env.adminToken, models.CrewMember{Name: "Zed", InstagramURL: ptr("instagram.com/zed")})
	assert.Equal(t, http.StatusBadRequest, badLink.Code)
}

func TestMerch_AvailabilityAndPrice(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/merch", env.adminToken, merchRequest{Name: "Logo Tee", PriceCents: 2500})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tee := decodeBody[merchView](t, rec)
	assert.Equal(t, "GBP", tee.Currency)
	assert.Equal(t, "£25.00", tee.DisplayPrice)
	assert.True(t, tee.Available)

	soldOut := env.do(http.MethodPost, "/merch", env.adminToken, merchRequest{Name: "Tote", PriceCents: 1200, Currency: "eur", Available: ptr(false)})
	require.Equal(t, http.StatusCreated, soldOut.Code, soldOut.Body.String())
	assert.Equal(t, "€12.00", decodeBody[merchView](t, soldOut).DisplayPrice)

	assert.Len(t, decodeBody[[]merchView](t, env.do(http.MethodGet, "/merch", "", nil)), 1)
	assert.Len(t, decodeBody[[]merchView](t, env.do(http.MethodGet, "/merch", env.adminToken, nil)), 2)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/merch", env.adminToken, merchRequest{Name: "Free", PriceCents: -1}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/merch", env.adminToken, merchRequest{Name: "Odd", Currency: "POUNDS"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/merch", env.adminToken, merchRequest{PriceCents: 100}).Code)
}

func TestMerch_Reorder(t *testing.T) {
	env := newTestEnv(t)

	var ids []string
	for _, name := range []string{"tee0", "tee1", "tee2"} {
		rec := env.do(http.MethodPost, "/merch", env.adminToken, merchRequest{Name: name, PriceCents: 2000})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeBody[merchView](t, rec).ID.String())
	}

	rec := env.do(http.MethodPut, "/merch-order", env.adminToken, idsRequest{IDs: []string{ids[2], ids[0], ids[1]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	merch := decodeBody[[]merchView](t, env.do(http.MethodGet, "/merch", "", nil))
	require.Len(t, merch, 3)
	assert.Equal(t, []string{"tee2", "tee0", "tee1"}, []string{merch[0].Name, merch[1].Name, merch[2].Name})

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, "/merch-order", env.adminToken, idsRequest{IDs: []string{ids[0], ids[1]}}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, "/merch-order", env.adminToken, idsRequest{IDs: []string{ids[0], ids[0], ids[1]}}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPut, "/merch-order", "", idsRequest{IDs: ids}).Code)
}

func TestContent_EmbedsAndThumbnails(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/content", env.adminToken, contentRequest{
		Type:     models.ContentTypeVideo,
		Title:    "Live at FOLD",
		URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Metadata: json.RawMessage(`{"duration": 3600}`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	video := decodeBody[contentView](t, rec)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", video.EmbedURL)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", video.ResolvedThumbnailURL)
	assert.JSONEq(t, `{"duration": 3600}`, string(video.Metadata))

	published := testNow.Add(-time.Hour)
	mix := env.do(http.MethodPost, "/content", env.adminToken, contentRequest{
		Type:        models.ContentTypeMix,
		Title:       "Mira b2b Tomas",
		URL:         "https://soundcloud.com/atmos/mira-b2b-tomas",
		PublishedAt: &published,
	})
	require.Equal(t, http.StatusCreated, mix.Code, mix.Body.String())
	assert.Contains(t, decodeBody[contentView](t, mix).EmbedURL, "w.soundcloud.com/player/")

	mixes := decodeBody[[]contentView](t, env.do(http.MethodGet, "/content?type=mix", "", nil))
	require.Len(t, mixes, 1)
	assert.Equal(t, "Mira b2b Tomas", mixes[0].Title)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/content?type=PODCAST", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/content", env.adminToken, contentRequest{Type: models.ContentTypeMix, Title: "x", URL: "soundcloud.com/x"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/content", env.adminToken, contentRequest{Type: "PODCAST", Title: "x", URL: "https://x.test"}).Code)
}
