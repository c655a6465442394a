package render

import (
	"github.com/m-tem/mailnir/pkg/join"
	"github.com/m-tem/mailnir/pkg/template"
)

// Email is the fully-rendered output for one context, ready for
// validation and transport. HTMLBody is empty in text mode.
type Email struct {
	To          string
	CC          string
	BCC         string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []string
}

// Render evaluates every template field against one context and runs
// the body through the configured transformation chain. templateDir
// anchors relative stylesheet and attachment paths.
func Render(tpl *template.Template, ctx join.Context, templateDir string) (*Email, error) {
	to, err := evalField("to", tpl.To, ctx.Values)
	if err != nil {
		return nil, err
	}
	subject, err := evalField("subject", tpl.Subject, ctx.Values)
	if err != nil {
		return nil, err
	}

	var cc, bcc string
	if tpl.CC != "" {
		if cc, err = evalField("cc", tpl.CC, ctx.Values); err != nil {
			return nil, err
		}
	}
	if tpl.BCC != "" {
		if bcc, err = evalField("bcc", tpl.BCC, ctx.Values); err != nil {
			return nil, err
		}
	}

	body, err := evalField("body", tpl.Body, ctx.Values)
	if err != nil {
		return nil, err
	}

	var htmlBody, textBody string
	switch tpl.EffectiveBodyFormat() {
	case template.BodyFormatMarkdown:
		rawHTML, err := markdownToHTML(body)
		if err != nil {
			return nil, &Error{Field: "body", Reason: err.Error()}
		}
		htmlBody, textBody, err = finishHTML(tpl, templateDir, rawHTML)
		if err != nil {
			return nil, err
		}

	case template.BodyFormatHTML:
		htmlBody, textBody, err = finishHTML(tpl, templateDir, body)
		if err != nil {
			return nil, err
		}

	case template.BodyFormatText:
		// Stylesheet and style configuration are deliberately ignored.
		textBody = body
	}

	var attachments []string
	if tpl.Attachments != "" {
		rendered, err := evalField("attachments", tpl.Attachments, ctx.Values)
		if err != nil {
			return nil, err
		}
		attachments = splitAttachments(rendered, templateDir)
	}

	return &Email{
		To:          to,
		CC:          cc,
		BCC:         bcc,
		Subject:     subject,
		HTMLBody:    htmlBody,
		TextBody:    textBody,
		Attachments: attachments,
	}, nil
}

// finishHTML applies CSS inlining and derives the text fallback from
// the pre-inlining HTML, so inlined style attributes never leak into
// the plain-text part.
func finishHTML(tpl *template.Template, templateDir, rawHTML string) (htmlBody, textBody string, err error) {
	css, err := resolveCSS(tpl, templateDir)
	if err != nil {
		return "", "", err
	}
	htmlBody, err = inlineCSS(rawHTML, css)
	if err != nil {
		return "", "", err
	}
	return htmlBody, flattenHTML(rawHTML), nil
}
