package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Object storage & file lifecycle errors
var (
	ErrStorageUnavailable     = errors.New("object storage unavailable")
	ErrObjectMissing          = errors.New("object missing from storage")
	ErrInvalidStatusChange    = errors.New("invalid file status transition")
	ErrStorageNotConfigured   = errors.New("object storage not configured")
	ErrNotificationNotEnabled = errors.New("notification channel not configured")
)

func NewStorageError(operation, key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("Failed to %s object %s", operation, key),
		Cause:      cause,
	}
}

func NewObjectMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrObjectMissing,
		Details:    fmt.Sprintf("Object %s was not found in storage", key),
		Field:      "key",
	}
}

// NewInvalidStatusChangeError reports a file status transition that the lifecycle does not allow.
func NewInvalidStatusChangeError(from, to string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrInvalidStatusChange,
		Details:    fmt.Sprintf("Cannot move file from %s to %s", from, to),
		Field:      "status",
	}
}

func NewStorageNotConfiguredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStorageNotConfigured,
		Details:    "S3_BUCKET is not set",
	}
}

func IsInvalidStatusChange(err error) bool {
	return errors.Is(err, ErrInvalidStatusChange)
}

func IsObjectMissing(err error) bool {
	return errors.Is(err, ErrObjectMissing)
}
