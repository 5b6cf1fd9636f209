package pipeline

import (
	"fmt"
	"strings"
)

// Language is the learner's selected language. It is recorded with the run
// and does not change any prompt.
type Language string

// Languages lists the selectable languages, default first.
var Languages = []Language{"English", "French", "Spanish", "German", "Chinese"}

// DefaultLanguage is used when none is selected.
const DefaultLanguage Language = "English"

// ParseLanguage matches s case-insensitively against Languages.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLanguage, nil
	}
	for _, l := range Languages {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", s)
}
