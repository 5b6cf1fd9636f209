package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Run is the index entry for one pass of the pipeline.
type Run struct {
	ent.Schema
}

func (Run) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.Time("started_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.String("source_name").
			Default(""),
		field.String("language"),
		field.String("audience"),
		field.String("stage").
			Comment("Furthest completed stage"),
		field.Float("composite").
			Optional().
			Nillable().
			Comment("Weighted score, set once the answers are scored"),
		field.Text("state").
			Comment("Serialized pipeline state"),
	}
}

func (Run) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("updated_at"),
	}
}
