package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type homeHandler struct {
	responder          Responder
	logger             zerolog.Logger
	placementRepo      *database.PlacementRepo
	present            presenter
	maxFeaturedGigs    int
	maxFeaturedContent int
	now                func() time.Time
}

func newHomeHandler(placementRepo *database.PlacementRepo, present presenter, maxFeaturedGigs, maxFeaturedContent int, now func() time.Time) homeHandler {
	logger := log.With().Str("handlerName", "homeHandler").Logger()

	return homeHandler{
		responder:          NewResponder(logger),
		logger:             logger,
		placementRepo:      placementRepo,
		present:            present,
		maxFeaturedGigs:    maxFeaturedGigs,
		maxFeaturedContent: maxFeaturedContent,
		now:                now,
	}
}

type homeGigSections map[models.PlacementSection][]placementView[gigView]

type homeContentSections map[models.PlacementSection][]placementView[contentView]

type homeResponse struct {
	Gigs    homeGigSections     `json:"gigs"`
	Content homeContentSections `json:"content"`
}

// loadGigSections groups gig placements by section. The public view drops
// drafts, and finished gigs from UPCOMING.
func (h homeHandler) loadGigSections(r *http.Request) (homeGigSections, error) {
	admin := ctxIsAdmin(r.Context())
	placements, err := h.placementRepo.FindGigPlacements(r.Context(), !admin)
	if err != nil {
		return nil, wrapDatabaseError("find gig placements", "home gigs", err)
	}

	now := h.now()
	sections := homeGigSections{}
	for _, s := range models.GigSections {
		sections[s] = []placementView[gigView]{}
	}
	for _, p := range placements {
		if !admin && p.Section == models.SectionUpcoming && !p.Gig.IsUpcoming(now) {
			continue
		}
		sections[p.Section] = append(sections[p.Section], placementView[gigView]{
			ID:        p.ID.String(),
			SortOrder: p.SortOrder,
			Item:      h.present.gig(&p.Gig),
		})
	}
	return sections, nil
}

func (h homeHandler) loadContentSections(r *http.Request) (homeContentSections, error) {
	placements, err := h.placementRepo.FindContentPlacements(r.Context())
	if err != nil {
		return nil, wrapDatabaseError("find content placements", "home content", err)
	}

	sections := homeContentSections{}
	for _, s := range models.ContentSections {
		sections[s] = []placementView[contentView]{}
	}
	for _, p := range placements {
		sections[p.Section] = append(sections[p.Section], placementView[contentView]{
			ID:        p.ID.String(),
			SortOrder: p.SortOrder,
			Item:      h.present.contentItem(&p.ContentItem),
		})
	}
	return sections, nil
}

func (h homeHandler) getHomeGigs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections, err := h.loadGigSections(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sections)
	}
}

func (h homeHandler) getHomeContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections, err := h.loadContentSections(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sections)
	}
}

// getHome returns everything the home page renders in one request
func (h homeHandler) getHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigs, err := h.loadGigSections(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		content, err := h.loadContentSections(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, homeResponse{Gigs: gigs, Content: content})
	}
}

func parseSection(raw models.PlacementSection) models.PlacementSection {
	return models.PlacementSection(strings.ToUpper(strings.TrimSpace(string(raw))))
}

// setGigPlacements replaces one home section with the given gigs, in order
// @Summary Set home gig placements
// @Tags Home
// @Accept json
// @Produce json
// @Param placements body placementRequest true "Section and ordered gig IDs"
// @Success 200 {object} homeGigSections "All gig sections"
// @Failure 400 {object} ErrorResponse "Bad Request - Duplicate or unknown IDs, or too many featured gigs"
// @Router /home/gigs [put]
func (h homeHandler) setGigPlacements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placementRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		section := parseSection(req.Section)
		if !models.ValidGigSection(section) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("section", "expected FEATURED or UPCOMING"))
			return
		}
		gigIDs, err := parseUUIDs("gigIds", req.GigIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		limit := database.NoPlacementLimit
		if section == models.SectionFeatured {
			limit = h.maxFeaturedGigs
		}
		if err := h.placementRepo.SetGigPlacements(r.Context(), section, gigIDs, limit); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("set gig placements", "home gigs", err))
			return
		}

		sections, err := h.loadGigSections(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sections)
	}
}

func (h homeHandler) setContentPlacements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placementRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		section := parseSection(req.Section)
		if !models.ValidContentSection(section) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("section", "expected FEATURED or LATEST"))
			return
		}
		contentIDs, err := parseUUIDs("contentIds", req.ContentIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		limit := database.NoPlacementLimit
		if section == models.SectionFeatured {
			limit = h.maxFeaturedContent
		}
		if err := h.placementRepo.SetContentPlacements(r.Context(), section, contentIDs, limit); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("set content placements", "home content", err))
			return
		}

		sections, err := h.loadContentSections(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sections)
	}
}
