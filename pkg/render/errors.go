package render

import (
	"fmt"
)

// Error is a strict-mode rendering failure scoped to one template
// field. Expr holds the literal expression text when the failure is an
// unresolved or malformed reference.
type Error struct {
	Field  string
	Expr   string
	Reason string
}

func (e *Error) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("render error in field %q: %s in {{%s}}", e.Field, e.Reason, e.Expr)
	}
	return fmt.Sprintf("render error in field %q: %s", e.Field, e.Reason)
}

// StylesheetNotFoundError reports a configured stylesheet path that
// does not exist.
type StylesheetNotFoundError struct {
	Path string
}

func (e *StylesheetNotFoundError) Error() string {
	return fmt.Sprintf("stylesheet file not found: %s", e.Path)
}

// CSSInlineError reports a failed CSS inlining pass.
type CSSInlineError struct {
	Reason string
}

func (e *CSSInlineError) Error() string {
	return fmt.Sprintf("CSS inlining error: %s", e.Reason)
}
