package api

import (
	"net/http"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type crewHandler struct {
	responder Responder
	logger    zerolog.Logger
	crewRepo  *database.CrewRepo
	present   presenter
}

func newCrewHandler(crewRepo *database.CrewRepo, present presenter) crewHandler {
	logger := log.With().Str("handlerName", "crewHandler").Logger()

	return crewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		crewRepo:  crewRepo,
		present:   present,
	}
}

func crewFromRequest(req models.CrewMember) (*models.CrewMember, error) {
	name, err := requireText("name", req.Name, 100)
	if err != nil {
		return nil, err
	}
	instagram, err := optionalAbsoluteURL("instagramUrl", req.InstagramURL)
	if err != nil {
		return nil, err
	}
	soundcloud, err := optionalAbsoluteURL("soundcloudUrl", req.SoundcloudURL)
	if err != nil {
		return nil, err
	}

	return &models.CrewMember{
		Name:          name,
		Role:          strings.TrimSpace(req.Role),
		Bio:           strings.TrimSpace(req.Bio),
		ImageURL:      cleanOptional(req.ImageURL),
		InstagramURL:  instagram,
		SoundcloudURL: soundcloud,
	}, nil
}

// getAllCrew lists the collective in display order
func (h crewHandler) getAllCrew() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crew, err := h.crewRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find crew", "crew", err))
			return
		}
		h.responder.WriteJSON(w, h.present.crew(crew))
	}
}

func (h crewHandler) getCrewMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crewID, err := urlParamUUID(r, "crewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member, err := h.crewRepo.FindByID(r.Context(), crewID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find crew member", "crew member", err))
			return
		}
		h.responder.WriteJSON(w, h.present.crewMember(member))
	}
}

// createCrewMember appends a member at the end of the display order
func (h crewHandler) createCrewMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CrewMember
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member, err := crewFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.crewRepo.Add(r.Context(), member); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create crew member", "crew member", err))
			return
		}
		h.responder.WriteCreated(w, h.present.crewMember(member))
	}
}

func (h crewHandler) updateCrewMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crewID, err := urlParamUUID(r, "crewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req models.CrewMember
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member, err := crewFromRequest(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		member.ID = crewID

		if err := h.crewRepo.Update(r.Context(), member); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update crew member", "crew member", err))
			return
		}

		updated, err := h.crewRepo.FindByID(r.Context(), crewID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find crew member", "crew member", err))
			return
		}
		h.responder.WriteJSON(w, h.present.crewMember(updated))
	}
}

func (h crewHandler) deleteCrewMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crewID, err := urlParamUUID(r, "crewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.crewRepo.Delete(r.Context(), crewID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete crew member", "crew member", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "crew member deleted successfully"})
	}
}

// reorderCrew persists the about page order; ids must cover every member
func (h crewHandler) reorderCrew() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idsRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		ids, err := parseUUIDs("ids", req.IDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.crewRepo.Reorder(r.Context(), ids); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder crew", "crew", err))
			return
		}

		crew, err := h.crewRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find crew", "crew", err))
			return
		}
		h.responder.WriteJSON(w, h.present.crew(crew))
	}
}
