package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type emailSender interface {
	SendEmail(ctx context.Context, subject, body, replyTo string, recipients []string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, body string, numbers []string) error
}

// ContactNotifier tells the collective about new contact form submissions by
// email and SMS. Either channel may be left unconfigured.
type ContactNotifier struct {
	email   emailSender
	emailTo []string
	sms     smsSender
	smsTo   []string
	logger  zerolog.Logger
}

func NewContactNotifier(mailer *Mailer, emailTo []string, sms *SMSSender, smsTo []string) *ContactNotifier {
	n := &ContactNotifier{
		emailTo: emailTo,
		smsTo:   smsTo,
		logger:  log.With().Str("service", "contactNotifier").Logger(),
	}
	if mailer != nil && len(emailTo) > 0 {
		n.email = mailer
	}
	if sms != nil && len(smsTo) > 0 {
		n.sms = sms
	}
	return n
}

// Enabled reports whether any channel is configured.
func (n *ContactNotifier) Enabled() bool {
	return n != nil && (n.email != nil || n.sms != nil)
}

// Notify sends on every configured channel in parallel and returns one error
// per failed channel. Callers log these; a failed notification never fails
// the submission.
func (n *ContactNotifier) Notify(ctx context.Context, submission *models.ContactSubmission) []error {
	if !n.Enabled() {
		return nil
	}

	// a plain Group: one failed channel must not cancel the other
	var (
		g                errgroup.Group
		emailErr, smsErr error
	)
	if n.email != nil {
		g.Go(func() error {
			emailErr = n.email.SendEmail(ctx, contactEmailSubject(submission), contactEmailBody(submission), submission.Email, n.emailTo)
			return nil
		})
	}
	if n.sms != nil {
		g.Go(func() error {
			smsErr = n.sms.SendSMS(ctx, contactSMSBody(submission), n.smsTo)
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, result := range []struct {
		channel string
		enabled bool
		err     error
	}{
		{"email", n.email != nil, emailErr},
		{"sms", n.sms != nil, smsErr},
	} {
		if !result.enabled {
			continue
		}
		if result.err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", result.channel, result.err))
			continue
		}
		n.logger.Info().Str("channel", result.channel).Str("submissionID", submission.ID.String()).Msg("contact notification sent")
	}
	return failures
}

func contactEmailSubject(s *models.ContactSubmission) string {
	subject := strings.TrimSpace(s.Subject)
	if subject == "" {
		subject = "New message"
	}
	return "[ATMOS contact] " + subject
}

func contactEmailBody(s *models.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(s.Name), html.EscapeString(s.Email))
	if s.Subject != "" {
		fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(s.Subject))
	}
	paragraphs := strings.Split(strings.ReplaceAll(s.Message, "\r\n", "\n"), "\n")
	b.WriteString("<p>")
	for i, line := range paragraphs {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString("</p>")
	return b.String()
}

const smsPreviewLen = 120

func contactSMSBody(s *models.ContactSubmission) string {
	preview := strings.Join(strings.Fields(s.Message), " ")
	if r := []rune(preview); len(r) > smsPreviewLen {
		preview = string(r[:smsPreviewLen]) + "…"
	}
	return fmt.Sprintf("ATMOS contact from %s (%s): %s", s.Name, s.Email, preview)
}
