package query

import "testing"

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `  {"a":1}  `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"json on opening line", "```{\"a\":1}\n```", `{"a":1}`},
		{"tagged with json on opening line", "```json {\"a\":1,\n\"b\":2}\n```", "{\"a\":1,\n\"b\":2}"},
		{"uppercase tag", "```JSON\n[1,2]\n```", `[1,2]`},
		{"single line", "```json {\"a\":1}```", `{"a":1}`},
		{"trailing prose after fence", "```json\n{\"a\":1}\n```\nHope this helps.", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"malformed stays malformed", `{"a":`, `{"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
