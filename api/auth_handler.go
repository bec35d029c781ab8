package api

import (
	"net/http"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    *services.TokenIssuer
}

func newAuthHandler(userRepo *database.UserRepo, tokens *services.TokenIssuer) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

// login exchanges email and password for a session token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and password"
// @Success 200 {object} loginResponse "Token and user"
// @Failure 401 {object} ErrorResponse "Unauthorized - Email or password is incorrect"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
		if err != nil {
			dbErr := wrapDatabaseError("find user", "user", err)
			if !errs.IsNotFound(dbErr) {
				h.responder.WriteError(w, dbErr)
				return
			}
			// same answer as a wrong password
			h.logger.Info().Str("email", database.NormalizeEmail(req.Email)).Msg("login for unknown email")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		if !services.CheckPassword(user.PasswordHash, req.Password) {
			h.logger.Info().Str("userID", user.ID.String()).Msg("login with wrong password")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, expiresAt, err := h.tokens.Issue(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		h.responder.WriteJSON(w, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
	}
}

// me returns the authenticated user
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ctxGetUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("no authenticated user"))
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		h.responder.WriteJSON(w, user)
	}
}
