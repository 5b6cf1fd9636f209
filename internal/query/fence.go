package query

import (
	"regexp"
	"strings"
)

// infoString matches a fence language tag such as json or JSON, alone or
// followed by the start of the JSON value.
var infoString = regexp.MustCompile(`^[A-Za-z]+(\s+|$)`)

// StripFences removes a Markdown code fence around a model reply, with or
// without a language tag. Unfenced text is returned trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	nl := strings.IndexByte(s, '\n')
	if nl == -1 {
		// Single line: ```json {...}```
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
		if loc := infoString.FindStringIndex(s); loc != nil {
			s = s[loc[1]:]
		}
		return strings.TrimSpace(s)
	}

	// Content on the opening line is kept; only a language tag is dropped.
	s = strings.TrimLeft(s[3:], " \t")
	if loc := infoString.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
