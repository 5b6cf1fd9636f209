package expansion

import "strings"

const expansionInstructions = `You are an educational design assistant specializing in Bloom's Taxonomy. Rewrite each of the input questions below as six new questions, one for every taxonomy level: Remember, Understand, Apply, Analyze, Evaluate and Create. Keep every generated question on the topic of the question it came from.

Reply with a single JSON object and nothing else: no explanations, no code fences, no surrounding text. The object has one key, "Topic Questions", whose value is an array with one object per input question. Each object has exactly these keys:

- "Original Question"
- "Remember"
- "Understand"
- "Apply"
- "Analyze"
- "Evaluate"
- "Create"

Example:

{
    "Topic Questions": [
        {
            "Original Question": "What is photosynthesis?",
            "Remember": "Define photosynthesis.",
            "Understand": "Explain how photosynthesis works.",
            "Apply": "Describe how photosynthesis affects plant growth.",
            "Analyze": "Compare photosynthesis and cellular respiration.",
            "Evaluate": "Assess the importance of photosynthesis in ecosystems.",
            "Create": "Design an experiment to measure the rate of photosynthesis."
        }
    ]
}

Input questions:

`

// buildExpansionPrompt embeds the source document below the instructions.
func buildExpansionPrompt(source string) string {
	var b strings.Builder
	b.WriteString(expansionInstructions)
	b.WriteString(strings.TrimSpace(source))
	b.WriteString("\n")
	return b.String()
}
