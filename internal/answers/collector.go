// Package answers gathers the learner's free-text answers into the answer
// sheet that the rest of the pipeline consumes.
package answers

import (
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Key identifies one sub-question: the index of its topic set and its level.
type Key struct {
	Topic int
	Level taxonomy.Level
}

// Item is one sub-question as presented to the learner.
type Item struct {
	Key              Key
	OriginalQuestion string
	Question         string
	// Prompt is the level's learner-facing hint.
	Prompt string
}

// Items lists every sub-question in presentation order: topic by topic,
// levels in taxonomy order.
func Items(sets []taxonomy.TopicQuestionSet) []Item {
	items := make([]Item, 0, len(sets)*len(taxonomy.Levels))
	for i, set := range sets {
		for _, l := range taxonomy.Levels {
			items = append(items, Item{
				Key:              Key{Topic: i, Level: l},
				OriginalQuestion: set.OriginalQuestion,
				Question:         set.SubQuestion(l),
				Prompt:           l.Prompt(),
			})
		}
	}
	return items
}

// Responses holds the learner's text keyed by sub-question. Missing keys
// are unanswered.
type Responses map[Key]string

// Set records an answer.
func (r Responses) Set(k Key, answer string) {
	r[k] = answer
}

// Answered counts the non-empty answers.
func (r Responses) Answered() int {
	n := 0
	for _, a := range r {
		if a != "" {
			n++
		}
	}
	return n
}

// Collect builds the answer sheet. Every sub-question gets an answer field;
// unanswered ones default to the empty string. Answers are kept verbatim.
func Collect(sets []taxonomy.TopicQuestionSet, responses Responses) taxonomy.AnswerSheet {
	sheet := taxonomy.AnswerSheet{Topics: make([]taxonomy.AnsweredTopic, 0, len(sets))}
	for i, set := range sets {
		topic := taxonomy.AnsweredTopic{
			OriginalQuestion: set.OriginalQuestion,
			SubQuestions:     make(taxonomy.LevelMap[taxonomy.SubQuestionAnswer], len(taxonomy.Levels)),
		}
		for _, l := range taxonomy.Levels {
			topic.SubQuestions[l] = taxonomy.SubQuestionAnswer{
				Question: set.SubQuestion(l),
				Answer:   responses[Key{Topic: i, Level: l}],
			}
		}
		sheet.Topics = append(sheet.Topics, topic)
	}
	return sheet
}
