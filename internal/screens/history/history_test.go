package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnify/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "learnify.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestEmpty(t *testing.T) {
	st := openStore(t)
	s := New(st.RunRepo(), st.ArtifactRepo())
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected a loading message before Init completes")
	}
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No runs yet") {
		t.Error("expected the empty message")
	}
}

func TestListAndExpand(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	composite := 3.25
	if err := st.RunRepo().Save(ctx, &store.Run{
		ID: "0123456789abcdef", SourceName: "biology.txt", Language: "English",
		Audience: "general", Stage: "scored", Composite: &composite, State: []byte(`{}`),
	}); err != nil {
		t.Fatal(err)
	}
	if err := st.ArtifactRepo().Record(ctx, "0123456789abcdef", "student_score", "/out/student_score_20260101_120000.json"); err != nil {
		t.Fatal(err)
	}

	s := New(st.RunRepo(), st.ArtifactRepo())
	load(t, s)

	view := s.View(120, 30)
	for _, want := range []string{"01234567", "scored", "3.25", "biology.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expanding should load the run's files")
	}
	s.Update(cmd())
	if !strings.Contains(s.View(120, 30), "student_score_20260101_120000.json") {
		t.Error("expected the artifact file name")
	}

	// Collapsing and expanding again uses the cached list.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("files should be loaded once")
	}
}

func TestRunLineWithoutScore(t *testing.T) {
	line := RunLine(store.Run{ID: "abc", Stage: "new"})
	if !strings.Contains(line, "(no file)") || !strings.Contains(line, "  -  ") {
		t.Errorf("RunLine = %q", line)
	}
}
