package services

import (
	"context"
	"fmt"

	"github.com/atmos-collective/atmos-site-backend/config"
	"github.com/atmos-collective/atmos-site-backend/errs"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio REST client used here
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender sends text messages through Twilio
type SMSSender struct {
	api        messageCreator
	fromNumber string
}

// NewSMSSender reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_FROM_NUMBER. It returns nil when SMS is not configured.
func NewSMSSender(cfg map[string]string) *SMSSender {
	accountSID := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	authToken := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSSender{api: client.Api, fromNumber: from}
}

// SendSMS sends body to every number. Twilio's client has no context support,
// so ctx is only checked between messages.
func (s *SMSSender) SendSMS(ctx context.Context, body string, numbers []string) error {
	if s == nil {
		return errs.ErrNotificationNotEnabled
	}

	for _, to := range numbers {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.fromNumber)
		params.SetBody(body)

		resp, err := s.api.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("send sms to %s: %w", to, err)
		}
		if resp.Sid != nil {
			log.Info().Str("sid", *resp.Sid).Msg("Sent SMS via Twilio")
		}
	}
	return nil
}
