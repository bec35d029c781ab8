package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 10 * time.Second

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contactRepo *database.ContactRepo
	notifier    *services.ContactNotifier
}

func newContactHandler(contactRepo *database.ContactRepo, notifier *services.ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

// submitContact stores a contact form message and notifies the collective
// @Summary Submit the contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param contact body contactRequest true "Contact message"
// @Success 201 {object} statusResponse "Message received"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid fields"
// @Router /contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, err := requireText("name", req.Name, 200)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		email := strings.TrimSpace(req.Email)
		if email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if !validEmail(email) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("email", "not a valid email address"))
			return
		}
		message, err := requireText("message", req.Message, 5000)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		subject := strings.TrimSpace(req.Subject)
		if len([]rune(subject)) > 200 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("subject", "too long"))
			return
		}

		submission := &models.ContactSubmission{
			Name:    name,
			Email:   email,
			Subject: subject,
			Message: message,
		}
		if err := h.contactRepo.Add(r.Context(), submission); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "contact submission", err))
			return
		}

		// The submission is stored; the sender must not see delivery failures.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), notifyTimeout)
		defer cancel()
		for _, notifyErr := range h.notifier.Notify(ctx, submission) {
			h.logger.Error().Err(notifyErr).Str("submissionID", submission.ID.String()).Msg("contact notification failed")
		}

		h.responder.WriteCreated(w, statusResponse{Status: "ok", Message: "Thanks, we'll be in touch."})
	}
}

func (h contactHandler) getAllSubmissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unhandledOnly := false
		if raw := r.URL.Query().Get("unhandled"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("unhandled", "expected true or false"))
				return
			}
			unhandledOnly = parsed
		}

		submissions, err := h.contactRepo.FindAll(r.Context(), unhandledOnly)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find all", "contact submissions", err))
			return
		}
		if submissions == nil {
			submissions = []*models.ContactSubmission{}
		}
		h.responder.WriteJSON(w, submissions)
	}
}

func (h contactHandler) setHandled() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParamUUID(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req handledRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Handled == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("handled"))
			return
		}

		if err := h.contactRepo.SetHandled(r.Context(), id, *req.Handled); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "contact submission", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "ok", Message: "Submission updated"})
	}
}

func (h contactHandler) deleteSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParamUUID(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.contactRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "contact submission", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "ok", Message: "Submission deleted"})
	}
}
