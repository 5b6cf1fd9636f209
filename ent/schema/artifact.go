package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Artifact indexes a result file written for a run.
type Artifact struct {
	ent.Schema
}

func (Artifact) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Artifact) Fields() []ent.Field {
	return []ent.Field{
		field.String("kind").
			Comment("original_questions, student_answers, structured_data, student_score or metacognitive_recommendations"),
		field.String("path"),
	}
}
