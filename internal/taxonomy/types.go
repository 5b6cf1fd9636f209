package taxonomy

import (
	"bytes"
	"encoding/json"
	"sort"
)

// TopicQuestionSet is one source question expanded into six sub-questions.
// The JSON shape matches the "Topic Questions" items the model is asked for.
type TopicQuestionSet struct {
	OriginalQuestion string `json:"Original Question"`
	Remember         string `json:"Remember"`
	Understand       string `json:"Understand"`
	Apply            string `json:"Apply"`
	Analyze          string `json:"Analyze"`
	Evaluate         string `json:"Evaluate"`
	Create           string `json:"Create"`
}

// SubQuestion returns the sub-question for the given level.
func (t TopicQuestionSet) SubQuestion(l Level) string {
	switch l {
	case Remember:
		return t.Remember
	case Understand:
		return t.Understand
	case Apply:
		return t.Apply
	case Analyze:
		return t.Analyze
	case Evaluate:
		return t.Evaluate
	case Create:
		return t.Create
	}
	return ""
}

// TopicQuestions is the document written to original_questions_*.json.
type TopicQuestions struct {
	Topics []TopicQuestionSet `json:"Topic Questions"`
}

// SubQuestionAnswer is a single sub-question with the learner's answer and,
// once scored, the model-assigned score.
type SubQuestionAnswer struct {
	Question string   `json:"Question"`
	Answer   string   `json:"Answer"`
	Score    *float64 `json:"score,omitempty"`
}

// Scored reports whether a score has been attached.
func (s SubQuestionAnswer) Scored() bool {
	return s.Score != nil
}

// AnsweredTopic groups the answered sub-questions of one source question.
type AnsweredTopic struct {
	OriginalQuestion string                       `json:"Original Question"`
	SubQuestions     LevelMap[SubQuestionAnswer] `json:"Sub-Questions"`
}

// AnswerSheet is the per-question answer structure written to
// student_answers_*.json.
type AnswerSheet struct {
	Topics []AnsweredTopic `json:"Topic Questions"`
}

// GroupedEntry is one leaf of the per-level grouping. The original question
// travels with the leaf so it can be shown as context.
type GroupedEntry struct {
	OriginalQuestion string            `json:"Original Question"`
	SubQuestion      SubQuestionAnswer `json:"Sub-Question"`
}

// Grouping is the per-level structure written to structured_data_*.json and,
// after scoring, student_score_*.json.
type Grouping struct {
	Levels LevelMap[[]GroupedEntry] `json:"Bloom Taxonomy"`
}

// Clone returns a deep copy of g.
func (g *Grouping) Clone() *Grouping {
	if g == nil {
		return nil
	}
	out := &Grouping{Levels: make(LevelMap[[]GroupedEntry], len(g.Levels))}
	for l, entries := range g.Levels {
		cp := make([]GroupedEntry, len(entries))
		for i, e := range entries {
			cp[i] = e
			if e.SubQuestion.Score != nil {
				s := *e.SubQuestion.Score
				cp[i].SubQuestion.Score = &s
			}
		}
		out.Levels[l] = cp
	}
	return out
}

// LevelMap is a map keyed by level that marshals its keys in display order
// rather than alphabetically. Unknown keys follow, sorted.
type LevelMap[T any] map[Level]T

func (m LevelMap[T]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	keys := make([]Level, 0, len(m))
	for _, l := range Levels {
		if _, ok := m[l]; ok {
			keys = append(keys, l)
		}
	}
	var extra []Level
	for l := range m {
		if !l.Valid() {
			extra = append(extra, l)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	keys = append(keys, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalRaw(string(k))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalRaw(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping so learner text round-trips
// byte for byte.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent encodes v the way artifacts and prompts embed JSON: four
// space indentation, no HTML escaping, non-ASCII kept as is.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
