package sender

import (
	"fmt"
	"mime"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-tem/mailnir/pkg/render"
)

// Build converts one rendered email into an outbound message. Address
// lists are parsed and normalized to RFC 5322 form and attachment
// files are loaded from disk.
func Build(rendered *render.Email) (*Email, error) {
	to, err := parseAddressList("to", rendered.To)
	if err != nil {
		return nil, err
	}
	if len(to) == 0 {
		return nil, ErrNoRecipient
	}
	cc, err := parseAddressList("cc", rendered.CC)
	if err != nil {
		return nil, err
	}
	bcc, err := parseAddressList("bcc", rendered.BCC)
	if err != nil {
		return nil, err
	}

	attachments, err := loadAttachments(rendered.Attachments)
	if err != nil {
		return nil, err
	}

	return &Email{
		Subject:     rendered.Subject,
		HTML:        rendered.HTMLBody,
		Text:        rendered.TextBody,
		To:          to,
		CC:          cc,
		BCC:         bcc,
		Attachments: attachments,
	}, nil
}

func parseAddressList(field, raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	addrs, err := mail.ParseAddressList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %q", ErrInvalidAddress, field, raw)
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out, nil
}

func loadAttachments(paths []string) ([]Attachment, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	attachments := make([]Attachment, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAttachmentRead, path, err)
		}
		attachments = append(attachments, Attachment{
			Filename:    filepath.Base(path),
			ContentType: contentType(path, content),
			Content:     content,
		})
	}
	return attachments, nil
}

// contentType resolves the MIME type from the file extension, falling
// back to content sniffing for unknown extensions.
func contentType(path string, content []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return http.DetectContentType(content)
}
