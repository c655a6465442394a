package render

import (
	"bytes"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	premailer "github.com/vanng822/go-premailer/premailer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/m-tem/mailnir/pkg/template"
)

// markdown is the shared converter. GFM covers tables, strikethrough,
// and autolinks; WithUnsafe passes raw HTML through, matching how the
// body may mix markdown with hand-written tags.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// stripPolicy removes every tag for the plain-text fallback.
var stripPolicy = bluemonday.StrictPolicy()

func markdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// flattenHTML produces the plain-text fallback: tags stripped, content
// preserved, entities decoded.
func flattenHTML(htmlText string) string {
	return html.UnescapeString(stripPolicy.Sanitize(htmlText))
}

// resolveCSS returns the CSS to inline, if any. An inline style block
// wins over a stylesheet path; stylesheet paths resolve relative to
// templateDir.
func resolveCSS(tpl *template.Template, templateDir string) (string, error) {
	if tpl.Style != "" {
		return tpl.Style, nil
	}
	if tpl.Stylesheet == "" {
		return "", nil
	}
	path := resolvePath(templateDir, tpl.Stylesheet)
	css, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &StylesheetNotFoundError{Path: path}
		}
		return "", err
	}
	return string(css), nil
}

// inlineCSS rewrites matching selector rules as inline style
// attributes. Mail clients strip <style> blocks, so the rules must
// land on the elements themselves.
func inlineCSS(htmlText, css string) (string, error) {
	if css == "" {
		return htmlText, nil
	}

	doc := "<html><head><style>" + css + "</style></head><body>" + htmlText + "</body></html>"

	opts := premailer.NewOptions()
	opts.RemoveClasses = false
	prem, err := premailer.NewPremailerFromString(doc, opts)
	if err != nil {
		return "", &CSSInlineError{Reason: err.Error()}
	}
	inlined, err := prem.Transform()
	if err != nil {
		return "", &CSSInlineError{Reason: err.Error()}
	}

	return extractBody(inlined), nil
}

// extractBody unwraps the <body> element the inliner's document
// round-trip adds; the mail body should stay a fragment.
func extractBody(doc string) string {
	lower := strings.ToLower(doc)
	start := strings.Index(lower, "<body")
	if start < 0 {
		return doc
	}
	open := strings.Index(doc[start:], ">")
	if open < 0 {
		return doc
	}
	start += open + 1
	end := strings.LastIndex(lower, "</body>")
	if end < start {
		return doc
	}
	return doc[start:end]
}

// splitAttachments turns evaluated attachment text into an ordered
// path list: one path per line, trimmed, empty lines dropped, relative
// paths resolved against templateDir. Existence is the validator's
// concern.
func splitAttachments(rendered, templateDir string) []string {
	var paths []string
	for line := range strings.SplitSeq(rendered, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paths = append(paths, resolvePath(templateDir, line))
	}
	return paths
}

func resolvePath(templateDir, path string) string {
	if filepath.IsAbs(path) || templateDir == "" {
		return path
	}
	return filepath.Join(templateDir, path)
}
