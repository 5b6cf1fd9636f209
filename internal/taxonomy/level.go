package taxonomy

import (
	"fmt"
	"strings"
)

// Level is one of the six Bloom's Taxonomy levels.
type Level string

const (
	Remember   Level = "Remember"
	Understand Level = "Understand"
	Apply      Level = "Apply"
	Analyze    Level = "Analyze"
	Evaluate   Level = "Evaluate"
	Create     Level = "Create"
)

// Levels lists every level in display order.
var Levels = []Level{Remember, Understand, Apply, Analyze, Evaluate, Create}

// levelPrompts are the learner-facing cues shown above each sub-question.
var levelPrompts = map[Level]string{
	Remember:   "Recall what you've learned",
	Understand: "Make sense of the idea",
	Apply:      "Put your knowledge into action",
	Analyze:    "Break it down and explore the details",
	Evaluate:   "Make a judgment or decide what's best",
	Create:     "Build something new from what you've learned",
}

// Valid reports whether l is one of the six known levels.
func (l Level) Valid() bool {
	_, ok := levelPrompts[l]
	return ok
}

// Prompt returns the short learner-facing cue for the level.
func (l Level) Prompt() string {
	return levelPrompts[l]
}

// Index returns the display position of l, or -1 if l is unknown.
func (l Level) Index() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// ParseLevel resolves a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown taxonomy level %q", s)
}
