package scoring

import (
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// MaxScore is the top of the scoring scale.
const MaxScore = 5.0

// ScoringSchema defines the reply expected from the scoring call: the
// grouping echoed back with a bounded numeric score on every leaf.
var ScoringSchema = &llm.Schema{
	Name:        "taxonomy-scoring",
	Description: "Student answers grouped by Bloom's Taxonomy level, each with a score from 0 to 5",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Bloom Taxonomy": map[string]any{
				"type":                 "object",
				"properties":           levelProperties(),
				"additionalProperties": false,
			},
		},
		"required":             []any{"Bloom Taxonomy"},
		"additionalProperties": false,
	},
}

func levelProperties() map[string]any {
	entry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Original Question": map[string]any{"type": "string"},
			"Sub-Question": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"Question": map[string]any{"type": "string"},
					"Answer":   map[string]any{"type": "string"},
					"score": map[string]any{
						"type":        "number",
						"minimum":     0,
						"maximum":     MaxScore,
						"description": "0 means no understanding, 5 means excellent understanding",
					},
				},
				"required": []any{"score"},
			},
		},
		"required": []any{"Sub-Question"},
	}

	props := make(map[string]any, len(taxonomy.Levels))
	for _, l := range taxonomy.Levels {
		props[string(l)] = map[string]any{
			"type":  "array",
			"items": entry,
		}
	}
	return props
}
