package expansion

import (
	"github.com/abhisek/learnify/internal/llm"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// ExpansionSchema defines the reply expected from the expansion call.
var ExpansionSchema = &llm.Schema{
	Name:        "taxonomy-expansion",
	Description: "Each source question rewritten once per Bloom's Taxonomy level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Topic Questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    topicQuestionItem(),
			},
		},
		"required":             []any{"Topic Questions"},
		"additionalProperties": false,
	},
}

func topicQuestionItem() map[string]any {
	props := map[string]any{
		"Original Question": nonEmptyString("The source question, verbatim"),
	}
	required := []any{"Original Question"}
	for _, l := range taxonomy.Levels {
		props[string(l)] = nonEmptyString("Question at the " + string(l) + " level")
		required = append(required, string(l))
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func nonEmptyString(desc string) map[string]any {
	return map[string]any{
		"type":        "string",
		"minLength":   1,
		"description": desc,
	}
}
