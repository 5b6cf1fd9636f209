package scoring

import "strings"

const scoringInstructions = `You are an educational evaluator specializing in Bloom's Taxonomy assessments.

The JSON below holds a student's answers to questions at each level of Bloom's Taxonomy. Evaluate every answer and give it a score between 0 and 5, where 0 means no understanding (or no answer) and 5 means excellent understanding.

Add a field named "score" to every "Sub-Question" object. Reply with valid JSON that has exactly the same structure, keys and entry order as the input, with only the "score" fields added. Do not include any text outside the JSON.

Example input:

{
    "Bloom Taxonomy": {
        "Remember": [
            {
                "Original Question": "What is photosynthesis?",
                "Sub-Question": {
                    "Question": "Define photosynthesis.",
                    "Answer": "It's how plants make food."
                }
            }
        ]
    }
}

Example output:

{
    "Bloom Taxonomy": {
        "Remember": [
            {
                "Original Question": "What is photosynthesis?",
                "Sub-Question": {
                    "Question": "Define photosynthesis.",
                    "Answer": "It's how plants make food.",
                    "score": 4
                }
            }
        ]
    }
}

Input JSON:

`

func buildScoringPrompt(inputJSON []byte) string {
	var b strings.Builder
	b.WriteString(scoringInstructions)
	b.Write(inputJSON)
	b.WriteString("\n")
	return b.String()
}
