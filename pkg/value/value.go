package value

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a normalized value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String returns a human-readable kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// noMatch is the unexported type behind NoMatch so the marker cannot be
// confused with any decoder output.
type noMatch struct{}

// NoMatch marks a 1:1 join that found no candidate in lenient mode.
// Lookups through it report "not found"; IsNoMatch distinguishes it
// from a namespace that was never bound at all.
var NoMatch any = noMatch{}

// IsNoMatch reports whether v is the NoMatch marker.
func IsNoMatch(v any) bool {
	_, ok := v.(noMatch)
	return ok
}

// KindOf classifies a normalized value. The NoMatch marker classifies
// as null.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil, noMatch:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	default:
		if _, ok := asFloat(v); ok {
			return KindNumber
		}
		return KindNull
	}
}

// Equal implements join-key equality over normalized values. Numbers
// compare numerically regardless of integer or float representation;
// strings compare by exact text; there is no coercion between string
// and number. Lists and maps compare structurally.
func Equal(a, b any) bool {
	if IsNoMatch(a) || IsNoMatch(b) {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, present := bv[k]
			if !present || !Equal(v, bval) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// asFloat widens any Go numeric type a decoder may produce to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Lookup resolves a dotted path against a normalized value. Map
// segments are keys, list segments are decimal indexes. The boolean
// result is false whenever any segment fails to resolve, including
// paths that traverse the NoMatch marker; callers must treat that as
// the strict-mode "unresolved" outcome, never as an empty value.
func Lookup(root any, path string) (any, bool) {
	cur := root
	for seg := range strings.SplitSeq(path, ".") {
		if seg == "" {
			return nil, false
		}
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	if IsNoMatch(cur) {
		return nil, false
	}
	return cur, true
}

// Records interprets v as a list of maps, the required shape for
// primary and joined datasets. The boolean result is false when v is
// not a list or any element is not a map.
func Records(v any) ([]map[string]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	records := make([]map[string]any, len(list))
	for i, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			return nil, false
		}
		records[i] = rec
	}
	return records, true
}
