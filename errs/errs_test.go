package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseError_RecordNotFound(t *testing.T) {
	err := NewDatabaseError("find", "gig", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, IsNotFound(err))
}

func TestNewDatabaseError_UniqueViolation(t *testing.T) {
	cases := []error{
		errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`),
		errors.New("UNIQUE constraint failed: users.email"),
		gorm.ErrDuplicatedKey,
	}
	for _, cause := range cases {
		err := NewDatabaseError("create", "user", cause)
		assert.Equal(t, http.StatusConflict, err.StatusCode, cause.Error())
		assert.True(t, IsAlreadyExists(err))
	}
}

func TestNewDatabaseError_ForeignKey(t *testing.T) {
	err := NewDatabaseError("create", "gig media", errors.New("FOREIGN KEY constraint failed"))

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.ErrorIs(t, err, ErrForeignKeyConstraint)
}

func TestNewDatabaseError_PassesApiErrThrough(t *testing.T) {
	inner := NewInvalidFieldError("mediaIds", "unknown id")
	err := NewDatabaseError("reorder", "gig media", inner)

	assert.Same(t, inner, err)
}

func TestNewDatabaseError_Generic(t *testing.T) {
	err := NewDatabaseError("update", "crew member", errors.New("syntax error"))

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.ErrorIs(t, err, ErrDatabaseQuery)
	assert.Contains(t, err.GetFullError(), "syntax error")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, StatusOf(NewSelfModificationError("demote")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("wrapped: %w", NewInvalidStatusChangeError("DELETED", "OK"))))
}

func TestApiErr_ErrorIncludesDetails(t *testing.T) {
	err := NewMissingRequiredFieldError("title")

	assert.Equal(t, "missing required field: Missing required field: title", err.Error())
	assert.True(t, IsMissingRequiredFieldError(err))
	assert.Equal(t, "title", err.Field)
}

func TestNewUnauthorizedError(t *testing.T) {
	err := NewUnauthorizedError("token verification is not configured")

	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewUnsupportedMediaTypeError(t *testing.T) {
	err := NewUnsupportedMediaTypeError("application/json", []string{"multipart/form-data"})

	assert.Equal(t, http.StatusUnsupportedMediaType, err.StatusCode)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Contains(t, err.Details, "application/json")
}
