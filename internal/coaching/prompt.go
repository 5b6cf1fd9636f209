package coaching

import (
	"fmt"
	"strings"
)

// Audience selects who the recommendations address.
type Audience string

const (
	AudienceGeneral Audience = "general"
	AudienceTeacher Audience = "teacher"
	AudienceStudent Audience = "student"
)

// Audiences lists the supported audiences, default first.
var Audiences = []Audience{AudienceGeneral, AudienceTeacher, AudienceStudent}

// ParseAudience parses an audience name. Empty input is the default.
func ParseAudience(s string) (Audience, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AudienceGeneral, nil
	}
	for _, a := range Audiences {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown audience %q (want general, teacher or student)", s)
}

const generalInstructions = `You are an educational coach specializing in metacognitive strategies aligned with Bloom's Taxonomy, addressing teachers.

The data below gives the student's scores for each taxonomy level. Analyze them and recommend metacognitive strategies the teacher can use to help the student improve in all areas.

For each taxonomy level:

- Summarize the student's current performance.
- Suggest metacognitive strategies and scaffolding techniques the teacher can use to strengthen the student's learning at that level.

Reply with a clear, well-structured set of recommendations and nothing else.
`

const teacherInstructions = `You are an educational coach specializing in metacognitive strategies aligned with Bloom's Taxonomy, addressing teachers.

The JSON below gives the student's weighted average score for each level of Bloom's Taxonomy. Analyze the scores and recommend metacognitive strategies the teacher can use to help the student improve in all areas.

Give priority to the levels with the lowest weighted averages and use the Leitner system to revisit and reinforce them. Also give encouraging feedback on the levels where the student does well, and tell the teacher how to build on those strengths.

For each taxonomy level:

- Summarize the student's current performance.
- Suggest metacognitive strategies and scaffolding techniques the teacher can use to strengthen the student's learning at that level.

Reply with a clear, well-structured set of recommendations and nothing else.
`

const studentInstructions = `You are an educational coach specializing in metacognitive strategies aligned with Bloom's Taxonomy, speaking directly to a student.

The JSON below gives your weighted average score for each level of Bloom's Taxonomy. Analyze the scores and suggest metacognitive strategies that help you improve in all areas.

Give priority to the levels with the lowest weighted averages and use the Leitner system to revisit and reinforce them. Also celebrate the levels where you do well, so you keep up the good work.

For each taxonomy level:

- Acknowledge your current performance in positive, motivating language.
- Suggest first-principles metacognitive strategies you can use to learn better at that level.

Keep the tone friendly and motivating, and avoid technical jargon.
`

func instructionsFor(a Audience) string {
	switch a {
	case AudienceTeacher:
		return teacherInstructions
	case AudienceStudent:
		return studentInstructions
	default:
		return generalInstructions
	}
}

// buildCoachingPrompt appends the evaluation JSON and, when there are any,
// the focus levels.
func buildCoachingPrompt(a Audience, evaluationJSON []byte, focus []string) string {
	var b strings.Builder
	b.WriteString(instructionsFor(a))

	if len(focus) > 0 {
		b.WriteString("\nLevels below the target score, weakest first: ")
		b.WriteString(strings.Join(focus, ", "))
		b.WriteString(".\n")
	}

	b.WriteString("\nInput data:\n\n")
	b.Write(evaluationJSON)
	b.WriteString("\n")
	return b.String()
}
