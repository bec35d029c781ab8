package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailerRequiresConfig(t *testing.T) {
	assert.Nil(t, NewMailer(map[string]string{"RESEND_API_KEY": "re_123"}))
	assert.NotNil(t, NewMailer(map[string]string{"RESEND_API_KEY": "re_123", "RESEND_FROM_EMAIL": "site@atmos.test"}))
}

func TestSendEmail(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer server.Close()

	m := NewMailer(map[string]string{
		"RESEND_API_KEY":    "re_123",
		"RESEND_FROM_EMAIL": "site@atmos.test",
		"RESEND_ENDPOINT":   server.URL,
	})
	require.NotNil(t, m)

	err := m.SendEmail(context.Background(), "Hello", "<p>hi</p>", "fan@example.com", []string{"crew@atmos.test"})
	require.NoError(t, err)
	assert.Equal(t, "site@atmos.test", got.From)
	assert.Equal(t, []string{"crew@atmos.test"}, got.To)
	assert.Equal(t, "fan@example.com", got.ReplyTo)
	assert.Equal(t, "<p>hi</p>", got.Html)
}

func TestSendEmailAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	m := NewMailer(map[string]string{"RESEND_API_KEY": "k", "RESEND_FROM_EMAIL": "bad", "RESEND_ENDPOINT": server.URL})
	err := m.SendEmail(context.Background(), "s", "b", "", []string{"a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestSendEmailNilMailer(t *testing.T) {
	var m *Mailer
	err := m.SendEmail(context.Background(), "s", "b", "", []string{"a@b.c"})
	assert.ErrorIs(t, err, errs.ErrNotificationNotEnabled)
}
