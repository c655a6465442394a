package render

import (
	"strings"

	"github.com/m-tem/mailnir/pkg/value"
)

// node is one parsed element of a template string.
type node interface{}

type textNode string

type exprNode struct {
	expr string // literal expression text between the braces
}

type eachNode struct {
	expr string // the iterated path
	body []node
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
	eachOpen   = "#each"
	eachClose  = "/each"
)

// parseTemplate splits template text into literal runs, expressions,
// and each-blocks. Errors carry the owning field name.
func parseTemplate(field, text string) ([]node, error) {
	nodes, _, _, err := parseNodes(field, text, false)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// parseNodes consumes input until end of text or, inside a block, the
// matching {{/each}}. It returns the unconsumed remainder and whether
// a closing tag ended the run.
func parseNodes(field, text string, inBlock bool) (nodes []node, rest string, closed bool, err error) {
	for text != "" {
		open := strings.Index(text, openDelim)
		if open < 0 {
			nodes = append(nodes, textNode(text))
			text = ""
			break
		}
		if open > 0 {
			nodes = append(nodes, textNode(text[:open]))
		}
		text = text[open+len(openDelim):]

		end := strings.Index(text, closeDelim)
		if end < 0 {
			return nil, "", false, &Error{Field: field, Reason: "unterminated expression"}
		}
		raw := strings.TrimSpace(text[:end])
		text = text[end+len(closeDelim):]

		switch {
		case strings.HasPrefix(raw, eachOpen):
			path := strings.TrimSpace(strings.TrimPrefix(raw, eachOpen))
			if path == "" {
				return nil, "", false, &Error{Field: field, Expr: raw, Reason: "each block missing a path"}
			}
			body, blockRest, blockClosed, err := parseNodes(field, text, true)
			if err != nil {
				return nil, "", false, err
			}
			if !blockClosed {
				return nil, "", false, &Error{Field: field, Expr: raw, Reason: "each block is never closed"}
			}
			nodes = append(nodes, eachNode{expr: path, body: body})
			text = blockRest

		case raw == eachClose:
			if !inBlock {
				return nil, "", false, &Error{Field: field, Expr: raw, Reason: "unmatched closing block"}
			}
			return nodes, text, true, nil

		case raw == "":
			return nil, "", false, &Error{Field: field, Reason: "empty expression"}

		default:
			nodes = append(nodes, exprNode{expr: raw})
		}
	}

	return nodes, "", false, nil
}

// frame is one active each-iteration binding.
type frame struct {
	this  any
	index int
}

// evaluator resolves expressions against a context's namespace values
// plus the active each-frames.
type evaluator struct {
	root   map[string]any
	frames []frame
}

// evalField evaluates one template field strictly.
func evalField(field, text string, root map[string]any) (string, error) {
	nodes, err := parseTemplate(field, text)
	if err != nil {
		return "", err
	}
	ev := &evaluator{root: root}
	var sb strings.Builder
	if err := ev.evalNodes(field, nodes, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (ev *evaluator) evalNodes(field string, nodes []node, sb *strings.Builder) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			sb.WriteString(string(n))

		case exprNode:
			v, err := ev.resolve(field, n.expr)
			if err != nil {
				return err
			}
			text, ok := value.Format(v)
			if !ok {
				return &Error{Field: field, Expr: n.expr, Reason: "expression resolves to a map value"}
			}
			sb.WriteString(text)

		case eachNode:
			v, err := ev.resolve(field, n.expr)
			if err != nil {
				return err
			}
			list, ok := v.([]any)
			if !ok {
				return &Error{
					Field:  field,
					Expr:   eachOpen + " " + n.expr,
					Reason: "each requires a list, got " + value.KindOf(v).String(),
				}
			}
			for i, el := range list {
				ev.frames = append(ev.frames, frame{this: el, index: i})
				err := ev.evalNodes(field, n.body, sb)
				ev.frames = ev.frames[:len(ev.frames)-1]
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// resolve looks up an expression path. this, this.path, and @index
// resolve against the innermost each-frame; everything else resolves
// from the namespace roots. Any failure is a strict unresolved-
// reference error quoting the literal expression.
func (ev *evaluator) resolve(field, expr string) (any, error) {
	unresolved := &Error{Field: field, Expr: expr, Reason: "cannot resolve reference"}

	switch {
	case expr == "this":
		if len(ev.frames) == 0 {
			return nil, &Error{Field: field, Expr: expr, Reason: "this is only valid inside an each block"}
		}
		return ev.frames[len(ev.frames)-1].this, nil

	case expr == "@index":
		if len(ev.frames) == 0 {
			return nil, &Error{Field: field, Expr: expr, Reason: "@index is only valid inside an each block"}
		}
		return int64(ev.frames[len(ev.frames)-1].index), nil

	case strings.HasPrefix(expr, "this."):
		if len(ev.frames) == 0 {
			return nil, &Error{Field: field, Expr: expr, Reason: "this is only valid inside an each block"}
		}
		v, ok := value.Lookup(ev.frames[len(ev.frames)-1].this, strings.TrimPrefix(expr, "this."))
		if !ok {
			return nil, unresolved
		}
		return v, nil

	default:
		v, ok := value.Lookup(ev.root, expr)
		if !ok {
			return nil, unresolved
		}
		return v, nil
	}
}
