package sender

import "context"

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Subject     string
	HTML        string
	Text        string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender defines the minimal interface that email providers must
// implement. It accepts a fully-prepared Email and handles delivery.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
