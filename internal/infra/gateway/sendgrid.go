package gateway

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/agencyvault/agencyvault/internal/domain"
)

// SendGridMailer is the outbound mail collaborator. Callers treat every
// error as non-fatal.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridMailer(apiKey, from, fromName string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, text, html string) error {
	if m.apiKey == "" {
		return domain.UpstreamError{Op: "mail send", Err: fmt.Errorf("sendgrid api key is empty")}
	}
	if html == "" {
		html = fmt.Sprintf("<pre>%s</pre>", text)
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		subject,
		mail.NewEmail("", to),
		text,
		html,
	)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return domain.UpstreamError{Op: "mail send", Err: err}
	}
	if response.StatusCode >= 400 {
		return domain.UpstreamError{
			Op:  "mail send",
			Err: fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body),
		}
	}
	return nil
}
