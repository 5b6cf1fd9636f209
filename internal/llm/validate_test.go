package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/learnify/internal/stageerr"
)

// scoreLeafSchema is a cut-down scoring reply: one level with scored
// sub-questions.
var scoreLeafSchema = &Schema{
	Name: "test-score-leaves",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"Remember"},
		"properties": map[string]any{
			"Remember": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"Question", "score"},
					"properties": map[string]any{
						"Question": map[string]any{"type": "string"},
						"score":    map[string]any{"type": "number", "minimum": 0, "maximum": 5},
					},
				},
			},
		},
	},
}

func TestValidateJSON_Kinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want stageerr.Kind
	}{
		{"empty", "", stageerr.KindEmpty},
		{"whitespace", " \n\t", stageerr.KindEmpty},
		{"not json", `{Remember: []}`, stageerr.KindParse},
		{"truncated", `{"Remember": [{"Question": "Define it.", "sco`, stageerr.KindParse},
		{"missing level", `{"Apply": []}`, stageerr.KindSchema},
		{"score above range", `{"Remember": [{"Question": "Define it.", "score": 6}]}`, stageerr.KindSchema},
		{"negative score", `{"Remember": [{"Question": "Define it.", "score": -1}]}`, stageerr.KindSchema},
		{"score as text", `{"Remember": [{"Question": "Define it.", "score": "four"}]}`, stageerr.KindSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(scoreLeafSchema, []byte(tt.raw))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := StageKind(err); got != tt.want {
				t.Errorf("StageKind = %v, want %v (%v)", got, tt.want, err)
			}
		})
	}
}

func TestValidateJSON_Accepts(t *testing.T) {
	for _, raw := range []string{
		`{"Remember": []}`,
		`{"Remember": [{"Question": "Define it.", "score": 0}, {"Question": "List them.", "score": 4.5}]}`,
	} {
		if err := ValidateJSON(scoreLeafSchema, []byte(raw)); err != nil {
			t.Errorf("ValidateJSON(%s): %v", raw, err)
		}
	}
}

func TestValidateJSON_NamesSchema(t *testing.T) {
	err := ValidateJSON(scoreLeafSchema, []byte(`{"Remember": [{"score": 2}]}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
	if inv.Schema != "test-score-leaves" {
		t.Errorf("schema = %q", inv.Schema)
	}
	if string(inv.Content) != `{"Remember": [{"score": 2}]}` {
		t.Errorf("content = %s", inv.Content)
	}
}

func TestValidateJSON_NilSchemaOnlyParses(t *testing.T) {
	if err := ValidateJSON(nil, []byte(`{"anything": "goes"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var malformed *ErrMalformedJSON
	if err := ValidateJSON(nil, []byte(`Here are your scores`)); !errors.As(err, &malformed) {
		t.Fatalf("expected ErrMalformedJSON, got %T", err)
	}
}

func TestCheckReply(t *testing.T) {
	req := Request{Schema: scoreLeafSchema}

	var truncated *ErrMaxTokensExceeded
	if err := checkReply(req, json.RawMessage(`{"Remember": [`), "max_tokens"); !errors.As(err, &truncated) {
		t.Errorf("expected ErrMaxTokensExceeded, got %T", err)
	}
	if err := checkReply(req, json.RawMessage(`{"Remember": []}`), "end"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := checkReply(Request{}, json.RawMessage("free text advice"), "end"); err != nil {
		t.Errorf("text replies skip validation: %v", err)
	}
}

func TestStageKind(t *testing.T) {
	tests := []struct {
		err  error
		want stageerr.Kind
	}{
		{&ErrEmptyResponse{Provider: "gemini"}, stageerr.KindEmpty},
		{&ErrMalformedJSON{Err: errors.New("bad")}, stageerr.KindParse},
		{&ErrMaxTokensExceeded{}, stageerr.KindParse},
		{&ErrInvalidResponse{Err: errors.New("bad")}, stageerr.KindSchema},
		{&ErrRateLimit{}, stageerr.KindTransport},
		{&ErrProviderUnavailable{}, stageerr.KindTransport},
		{errors.New("dial tcp: refused"), stageerr.KindTransport},
	}
	for _, tt := range tests {
		if got := StageKind(tt.err); got != tt.want {
			t.Errorf("StageKind(%T) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
