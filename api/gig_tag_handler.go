package api

import (
	"net/http"
	"regexp"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type gigTagHandler struct {
	responder  Responder
	logger     zerolog.Logger
	gigTagRepo *database.GigTagRepo
}

func newGigTagHandler(gigTagRepo *database.GigTagRepo) gigTagHandler {
	logger := log.With().Str("handlerName", "gigTagHandler").Logger()

	return gigTagHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		gigTagRepo: gigTagRepo,
	}
}

func (h gigTagHandler) getAllGigTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.gigTagRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find gig tags", "gig tags", err))
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

func (h gigTagHandler) createGigTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gigTagRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, err := requireText("name", req.Name, 50)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		color := cleanOptional(req.Color)
		if color != nil && !hexColor.MatchString(*color) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("color", "expected a hex colour such as #ff3300"))
			return
		}

		tag := &models.GigTag{Name: name, Color: color}
		if err := h.gigTagRepo.Add(r.Context(), tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create gig tag", "gig tag", err))
			return
		}
		h.responder.WriteCreated(w, tag)
	}
}

func (h gigTagHandler) deleteGigTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := urlParamUUID(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigTagRepo.Delete(r.Context(), tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete gig tag", "gig tag", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "gig tag deleted successfully"})
	}
}
