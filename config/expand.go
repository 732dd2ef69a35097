package config

import "strings"

// expandString replaces ${VAR} and ${VAR:-default} placeholders.
//
// ${VAR} resolves only when VAR is set and non-empty; otherwise the placeholder
// is kept verbatim. ${VAR:-default} falls back to default when VAR is unset or empty.
func expandString(s string, lookup LookupFunc) string {
	if !strings.Contains(s, "${") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			b.WriteString(s)
			break
		}
		end += start

		b.WriteString(s[:start])
		placeholder := s[start : end+1]
		body := s[start+2 : end]

		name, def, hasDefault := strings.Cut(body, ":-")
		value, ok := lookup(name)
		switch {
		case ok && value != "":
			b.WriteString(value)
		case hasDefault:
			b.WriteString(def)
		default:
			b.WriteString(placeholder)
		}
		s = s[end+1:]
	}
	return b.String()
}
