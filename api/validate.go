package api

import (
	"net/mail"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/atmos-collective/atmos-site-backend/services"
)

// cleanOptional trims s and turns empty strings into nil
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// optionalAbsoluteURL cleans s and requires an absolute http(s) URL when set
func optionalAbsoluteURL(field string, s *string) (*string, error) {
	cleaned := cleanOptional(s)
	if cleaned != nil && !services.IsAbsoluteURL(*cleaned) {
		return nil, errs.NewInvalidFieldError(field, "must be an absolute http(s) URL")
	}
	return cleaned, nil
}

func requireText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errs.NewMissingRequiredFieldError(field)
	}
	if maxLen > 0 && len([]rune(value)) > maxLen {
		return "", errs.NewInvalidFieldError(field, "too long")
	}
	return value, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, ".")
}
