package sender

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrInvalidAddress indicates a recipient field that does not parse
	// as an address list.
	ErrInvalidAddress = errors.New("invalid address list")

	// ErrAttachmentRead indicates an attachment file could not be read.
	ErrAttachmentRead = errors.New("failed to read attachment")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")
)
