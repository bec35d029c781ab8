package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type gigHandler struct {
	responder Responder
	logger    zerolog.Logger
	gigRepo   *database.GigRepo
	present   presenter
	now       func() time.Time
}

func newGigHandler(gigRepo *database.GigRepo, present presenter, now func() time.Time) gigHandler {
	logger := log.With().Str("handlerName", "gigHandler").Logger()

	return gigHandler{
		responder: NewResponder(logger),
		logger:    logger,
		gigRepo:   gigRepo,
		present:   present,
		now:       now,
	}
}

// gigFromRequest validates a create or update payload
func (h gigHandler) gigFromRequest(req gigRequest) (*models.Gig, error) {
	title, err := requireText("title", req.Title, 200)
	if err != nil {
		return nil, err
	}

	start, end := req.StartTime, req.EndTime
	if start == nil && strings.TrimSpace(req.Date) != "" {
		parsedStart, parsedEnd, err := services.ParseTimeRange(req.Date, req.Time, h.present.loc)
		if err != nil {
			return nil, errs.NewInvalidFieldError("date", err.Error())
		}
		start = &parsedStart
		if end == nil {
			end = parsedEnd
		}
	}
	if start == nil || start.IsZero() {
		return nil, errs.NewMissingRequiredFieldError("startTime")
	}
	if end != nil && !end.After(*start) {
		return nil, errs.NewInvalidFieldError("endTime", "must be after startTime")
	}

	ticketURL, err := optionalAbsoluteURL("ticketUrl", req.TicketURL)
	if err != nil {
		return nil, err
	}

	gig := &models.Gig{
		Title:       title,
		Subtitle:    cleanOptional(req.Subtitle),
		Description: strings.TrimSpace(req.Description),
		Venue:       strings.TrimSpace(req.Venue),
		City:        strings.TrimSpace(req.City),
		StartTime:   start.UTC(),
		TicketURL:   ticketURL,
		PosterURL:   cleanOptional(req.PosterURL),
		Published:   req.Published,
	}
	if end != nil {
		utcEnd := end.UTC()
		gig.EndTime = &utcEnd
	}
	return gig, nil
}

// getAllGigs lists gigs, upcoming first by default
// @Summary Get gigs
// @Description Lists published gigs. Admins also see drafts.
// @Tags Gigs
// @Produce json
// @Param when query string false "upcoming, past or all" default(upcoming)
// @Param tag query string false "Gig tag name"
// @Success 200 {array} gigView "Gigs with media and tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid when"
// @Router /gigs [get]
func (h gigHandler) getAllGigs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		when := database.GigWhen(strings.ToLower(r.URL.Query().Get("when")))
		switch when {
		case "":
			when = database.GigsUpcoming
		case database.GigsUpcoming, database.GigsPast, database.GigsAll:
		default:
			h.responder.WriteError(w, errs.NewInvalidFieldError("when", "expected upcoming, past or all"))
			return
		}

		gigs, err := h.gigRepo.FindAll(r.Context(), database.GigFilter{
			When:               when,
			Tag:                strings.TrimSpace(r.URL.Query().Get("tag")),
			IncludeUnpublished: ctxIsAdmin(r.Context()),
			Now:                h.now().UTC(),
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gigs", "gigs", err))
			return
		}

		h.responder.WriteJSON(w, h.present.gigs(gigs))
	}
}

// getGig retrieves a gig with ordered media and tags
// @Summary Get gig
// @Tags Gigs
// @Produce json
// @Param gigID path string true "Gig ID" format(uuid)
// @Success 200 {object} gigView "Gig details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gigID"
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gig/{gigID} [get]
func (h gigHandler) getGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		gig, err := h.gigRepo.FindByID(r.Context(), gigID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig", "gig", err))
			return
		}
		// drafts are invisible to the public
		if !gig.Published && !ctxIsAdmin(r.Context()) {
			h.responder.WriteError(w, errs.NewNotFoundError("gig not found"))
			return
		}

		h.responder.WriteJSON(w, h.present.gig(gig))
	}
}

// createGig creates a gig
// @Summary Create gig
// @Tags Gigs
// @Accept json
// @Produce json
// @Param gig body gigRequest true "Gig data"
// @Success 201 {object} gigView "Created gig"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gig data"
// @Router /gig [post]
func (h gigHandler) createGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gigRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		gig, err := h.gigFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigRepo.Add(r.Context(), gig); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create gig", "gig", err))
			return
		}

		created, err := h.gigRepo.FindByID(r.Context(), gig.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created gig", "gig", err))
			return
		}

		h.logger.Info().Str("gigID", gig.ID.String()).Str("title", gig.Title).Msg("gig created")
		h.responder.WriteCreated(w, h.present.gig(created))
	}
}

// updateGig replaces the scalar fields of a gig
// @Summary Update gig
// @Tags Gigs
// @Accept json
// @Produce json
// @Param gigID path string true "Gig ID" format(uuid)
// @Param gig body gigRequest true "Updated gig data"
// @Success 200 {object} gigView "Updated gig"
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gig/{gigID} [put]
func (h gigHandler) updateGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req gigRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		gig, err := h.gigFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		gig.ID = gigID
		gig.UpdatedAt = h.now().UTC()

		if err := h.gigRepo.Update(r.Context(), gig); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update gig", "gig", err))
			return
		}

		updated, err := h.gigRepo.FindByID(r.Context(), gigID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated gig", "gig", err))
			return
		}

		h.responder.WriteJSON(w, h.present.gig(updated))
	}
}

// deleteGig deletes a gig with its media, tag links and home placements
// @Summary Delete gig
// @Tags Gigs
// @Param gigID path string true "Gig ID" format(uuid)
// @Success 200 {object} statusResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gig/{gigID} [delete]
func (h gigHandler) deleteGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigRepo.Delete(r.Context(), gigID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete gig", "gig", err))
			return
		}

		h.logger.Info().Str("gigID", gigID.String()).Msg("gig deleted")
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "gig deleted successfully"})
	}
}

// addMedia appends a media entry to the end of its section
// @Summary Add gig media
// @Tags Gigs
// @Accept json
// @Produce json
// @Param gigID path string true "Gig ID" format(uuid)
// @Param media body gigMediaRequest true "Media entry"
// @Success 201 {object} gigView "Gig with the new media"
// @Router /gig/{gigID}/media [post]
func (h gigHandler) addMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req gigMediaRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !req.Section.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("section", "expected HERO, GALLERY or VIDEO"))
			return
		}
		if !req.Type.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("type", "expected IMAGE, VIDEO or EMBED"))
			return
		}
		url, err := requireText("url", req.URL, 2048)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Type == models.MediaTypeEmbed {
			if _, ok := services.EmbedURL(url); !ok {
				h.responder.WriteError(w, errs.NewInvalidFieldError("url", "not a supported embed link"))
				return
			}
		}

		// 404 before the insert hits the foreign key
		if _, err := h.gigRepo.FindByID(r.Context(), gigID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig", "gig", err))
			return
		}

		media := &models.GigMedia{
			GigID:   gigID,
			Section: req.Section,
			Type:    req.Type,
			URL:     url,
			Caption: cleanOptional(req.Caption),
		}
		if err := h.gigRepo.AddMedia(r.Context(), media); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("add media", "gig media", err))
			return
		}

		gig, err := h.gigRepo.FindByID(r.Context(), gigID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig", "gig", err))
			return
		}
		h.responder.WriteCreated(w, h.present.gig(gig))
	}
}

func (h gigHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		mediaID, err := urlParamUUID(r, "mediaID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigRepo.DeleteMedia(r.Context(), gigID, mediaID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete media", "gig media", err))
			return
		}

		gig, err := h.gigRepo.FindByID(r.Context(), gigID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig", "gig", err))
			return
		}
		h.responder.WriteJSON(w, h.present.gig(gig))
	}
}

// reorderMedia persists the drag-and-drop order of one media section
// @Summary Reorder gig media
// @Description mediaIds must list every media entry of the section exactly once
// @Tags Gigs
// @Accept json
// @Produce json
// @Param gigID path string true "Gig ID" format(uuid)
// @Param order body reorderMediaRequest true "Section and ordered media IDs"
// @Success 200 {object} gigView "Gig with reordered media"
// @Failure 400 {object} ErrorResponse "Bad Request - List does not match the section"
// @Router /gig/{gigID}/media/order [put]
func (h gigHandler) reorderMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req reorderMediaRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !req.Section.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("section", "expected HERO, GALLERY or VIDEO"))
			return
		}
		mediaIDs, err := parseUUIDs("mediaIds", req.MediaIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigRepo.ReorderMedia(r.Context(), gigID, req.Section, mediaIDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder media", "gig media", err))
			return
		}

		gig, err := h.gigRepo.FindByID(r.Context(), gigID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig", "gig", err))
			return
		}
		h.responder.WriteJSON(w, h.present.gig(gig))
	}
}

func (h gigHandler) setTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlParamUUID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req gigTagsRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tagIDs, err := parseUUIDs("tagIds", req.TagIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigRepo.SetTags(r.Context(), gigID, tagIDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("set tags", "gig", err))
			return
		}

		gig, err := h.gigRepo.FindByID(r.Context(), gigID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig", "gig", err))
			return
		}
		h.responder.WriteJSON(w, h.present.gig(gig))
	}
}
