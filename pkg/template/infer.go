package template

import (
	"sort"
	"strings"
)

// InferFields extracts the field names referenced as namespace.field
// anywhere in the template's text fields. The result is sorted and
// deduplicated. A shell uses it to build a data-entry form for sources
// declared with form: true.
func InferFields(t *Template, namespace string) []string {
	texts := []string{t.To, t.CC, t.BCC, t.Subject, t.Body, t.Attachments}
	needle := namespace + "."

	seen := make(map[string]struct{})
	for _, s := range texts {
		start := 0
		for {
			pos := strings.Index(s[start:], needle)
			if pos < 0 {
				break
			}
			abs := start + pos

			// A word character before the match means a longer
			// namespace merely ends with ours.
			if abs > 0 && isWordByte(s[abs-1]) {
				start = abs + len(needle)
				continue
			}

			fieldStart := abs + len(needle)
			fieldEnd := fieldStart
			for fieldEnd < len(s) && isWordByte(s[fieldEnd]) {
				fieldEnd++
			}
			if field := s[fieldStart:fieldEnd]; field != "" {
				seen[field] = struct{}{}
			}
			start = fieldEnd
		}
	}

	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
