// Package restructure converts between the per-question answer sheet and
// the per-level grouping used for scoring.
package restructure

import (
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Restructure groups the answer sheet by level. Every level key is present,
// possibly with no entries. Within a level, entries keep topic order and
// carry their original question for context.
func Restructure(sheet taxonomy.AnswerSheet) *taxonomy.Grouping {
	g := &taxonomy.Grouping{Levels: make(taxonomy.LevelMap[[]taxonomy.GroupedEntry], len(taxonomy.Levels))}
	for _, l := range taxonomy.Levels {
		g.Levels[l] = []taxonomy.GroupedEntry{}
	}
	for _, topic := range sheet.Topics {
		for _, l := range taxonomy.Levels {
			sub, ok := topic.SubQuestions[l]
			if !ok {
				continue
			}
			g.Levels[l] = append(g.Levels[l], taxonomy.GroupedEntry{
				OriginalQuestion: topic.OriginalQuestion,
				SubQuestion:      sub,
			})
		}
	}
	return g
}

type topicKey struct {
	question string
	ordinal  int
}

// Invert maps a grouping back to an answer sheet. The n-th entry for a
// given original question in any level belongs to the n-th topic with that
// question, so repeated question texts stay distinct. Topics are ordered by
// first appearance, walking levels in taxonomy order.
func Invert(g *taxonomy.Grouping) taxonomy.AnswerSheet {
	sheet := taxonomy.AnswerSheet{Topics: []taxonomy.AnsweredTopic{}}
	if g == nil {
		return sheet
	}

	index := make(map[topicKey]int)
	for _, l := range taxonomy.Levels {
		seen := make(map[string]int)
		for _, e := range g.Levels[l] {
			k := topicKey{question: e.OriginalQuestion, ordinal: seen[e.OriginalQuestion]}
			seen[e.OriginalQuestion]++

			i, ok := index[k]
			if !ok {
				i = len(sheet.Topics)
				index[k] = i
				sheet.Topics = append(sheet.Topics, taxonomy.AnsweredTopic{
					OriginalQuestion: e.OriginalQuestion,
					SubQuestions:     make(taxonomy.LevelMap[taxonomy.SubQuestionAnswer], len(taxonomy.Levels)),
				})
			}
			sheet.Topics[i].SubQuestions[l] = e.SubQuestion
		}
	}
	return sheet
}

// Counts returns the number of entries per level.
func Counts(g *taxonomy.Grouping) map[taxonomy.Level]int {
	out := make(map[taxonomy.Level]int, len(taxonomy.Levels))
	if g == nil {
		return out
	}
	for l, entries := range g.Levels {
		out[l] = len(entries)
	}
	return out
}
