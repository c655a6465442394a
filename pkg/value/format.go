package value

import (
	"strconv"
	"strings"
)

// Format renders a scalar or list value as interpolation text. Null
// renders empty, numbers in their shortest decimal form, lists as
// comma-joined elements. Map values have no text form; the boolean
// result is false for them so the renderer can raise a field-scoped
// error instead of guessing.
func Format(v any) (string, bool) {
	switch n := v.(type) {
	case nil, noMatch:
		return "", true
	case bool:
		return strconv.FormatBool(n), true
	case string:
		return n, true
	case []any:
		parts := make([]string, len(n))
		for i, el := range n {
			s, ok := Format(el)
			if !ok {
				return "", false
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), true
	case map[string]any:
		return "", false
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	default:
		f, ok := asFloat(v)
		if !ok {
			return "", false
		}
		return strconv.FormatInt(int64(f), 10), true
	}
}
