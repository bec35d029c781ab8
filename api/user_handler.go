package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
}

func newUserHandler(userRepo *database.UserRepo) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
	}
}

func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.userRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find users", "users", err))
			return
		}
		h.responder.WriteJSON(w, users)
	}
}

func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlParamUUID(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
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

// createUser adds a dashboard account
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "Email, password and role"
// @Success 201 {object} models.User "Created user"
// @Failure 409 {object} ErrorResponse "Conflict - Email already registered"
// @Router /user [post]
func (h userHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		email := database.NormalizeEmail(req.Email)
		if email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if !validEmail(email) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("email", "not a valid email address"))
			return
		}
		role := req.Role
		if role == "" {
			role = models.RoleUser
		}
		if !role.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("role", "expected ADMIN or USER"))
			return
		}

		hash, err := services.HashPassword(req.Password)
		if err != nil {
			if errors.Is(err, services.ErrPasswordTooShort) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("password", err.Error()))
				return
			}
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}

		user := &models.User{
			Email:        email,
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: hash,
			Role:         role,
		}
		if err := h.userRepo.Add(r.Context(), user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		h.logger.Info().Str("userID", user.ID.String()).Str("role", string(user.Role)).Msg("user created")
		h.responder.WriteCreated(w, user)
	}
}

// updateUserRole changes a user's role. Admins cannot demote themselves,
// which also guarantees at least one admin remains.
// @Summary Update user role
// @Tags Users
// @Accept json
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Param role body roleRequest true "New role"
// @Success 200 {object} models.User "Updated user"
// @Failure 403 {object} ErrorResponse "Forbidden - Cannot demote yourself"
// @Router /user/{userID}/role [put]
func (h userHandler) updateUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlParamUUID(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req roleRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !req.Role.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("role", "expected ADMIN or USER"))
			return
		}

		actingID, _ := ctxGetUserID(r.Context())
		if actingID == userID && req.Role != models.RoleAdmin {
			h.responder.WriteError(w, errs.NewSelfModificationError("demote"))
			return
		}

		if err := h.userRepo.UpdateRole(r.Context(), userID, req.Role); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update user role", "user", err))
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		h.logger.Info().
			Str("userID", userID.String()).
			Str("actingUserID", actingID.String()).
			Str("role", string(req.Role)).
			Msg("user role updated")
		h.responder.WriteJSON(w, user)
	}
}

func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlParamUUID(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if actingID, _ := ctxGetUserID(r.Context()); actingID == userID {
			h.responder.WriteError(w, errs.NewSelfModificationError("delete"))
			return
		}

		if err := h.userRepo.Delete(r.Context(), userID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete user", "user", err))
			return
		}
		h.responder.WriteJSON(w, statusResponse{Status: "success", Message: "user deleted successfully"})
	}
}
