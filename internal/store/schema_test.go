package store

import (
	"testing"

	"entgo.io/ent"
	sqlschema "entgo.io/ent/dialect/sql/schema"

	entschema "github.com/abhisek/learnify/ent/schema"
)

// TestTablesMatchEntSchema keeps the hand-maintained tables in step with
// the ent schema definitions.
func TestTablesMatchEntSchema(t *testing.T) {
	mixin := entschema.EventMixin{}.Fields()
	tests := []struct {
		table  *sqlschema.Table
		fields []ent.Field
	}{
		{LLMRequestEventsTable, append(mixin, entschema.LLMRequestEvent{}.Fields()...)},
		{ArtifactsTable, append(entschema.EventMixin{}.Fields(), entschema.Artifact{}.Fields()...)},
		{RunsTable, entschema.Run{}.Fields()},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			columns := make(map[string]*sqlschema.Column, len(tt.table.Columns))
			for _, c := range tt.table.Columns {
				columns[c.Name] = c
			}
			for _, f := range tt.fields {
				d := f.Descriptor()
				c, ok := columns[d.Name]
				if !ok {
					t.Errorf("column %q missing", d.Name)
					continue
				}
				if d.Unique && !c.Unique {
					t.Errorf("column %q should be unique", d.Name)
				}
				if d.Nillable != c.Nullable {
					t.Errorf("column %q nullable = %v, want %v", d.Name, c.Nullable, d.Nillable)
				}
			}
		})
	}
}
