package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/m-tem/mailnir/pkg/sender"
)

// Sender implements sender.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements sender.Sender.
func (s *Sender) Send(ctx context.Context, email *sender.Email) error {
	from := s.config.SenderEmail
	if s.config.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Cc:      email.CC,
		Bcc:     email.BCC,
	}
	if len(email.Attachments) > 0 {
		req.Attachments = convertAttachments(email.Attachments)
	}

	_, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}

func convertAttachments(attachments []sender.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		}
	}
	return result
}
