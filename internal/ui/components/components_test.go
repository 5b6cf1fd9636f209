package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func typeText(t TextInput, s string) TextInput {
	for _, r := range s {
		t, _ = t.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return t
}

func TestSelectorCycles(t *testing.T) {
	s := NewSelector("Audience", []string{"general", "teacher", "student"}, "student")
	if s.Value() != "student" {
		t.Fatalf("Value() = %q", s.Value())
	}

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.Value() != "general" {
		t.Errorf("right should wrap to the first option, got %q", s.Value())
	}
	s, _ = s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if s.Value() != "student" {
		t.Errorf("h should wrap to the last option, got %q", s.Value())
	}

	if !strings.Contains(s.View(), "[student]") {
		t.Errorf("View() should bracket the selection: %q", s.View())
	}
}

func TestSelectorUnknownCurrent(t *testing.T) {
	s := NewSelector("", []string{"a", "b"}, "z")
	if s.Value() != "a" {
		t.Errorf("Value() = %q, want first option", s.Value())
	}
	if (Selector{}).Value() != "" {
		t.Error("empty selector should have no value")
	}
}

func TestDecimalOnlyInput(t *testing.T) {
	in := typeText(NewTextInput("0.0", true, 8), "1a.2 .5")
	if in.Value() != "1.25" {
		t.Fatalf("Value() = %q, want 1.25", in.Value())
	}
	f, err := in.FloatValue()
	if err != nil || f != 1.25 {
		t.Errorf("FloatValue() = %v, %v", f, err)
	}

	empty := NewTextInput("", true, 8)
	if f, err := empty.FloatValue(); err != nil || f != 0 {
		t.Errorf("empty FloatValue() = %v, %v", f, err)
	}
}

func TestTextInputSubmitMark(t *testing.T) {
	in := NewTextInput("", false, 0)
	in.Submit(false)
	if !strings.Contains(in.View(), "✗") {
		t.Error("expected the invalid mark after Submit(false)")
	}
	in = typeText(in, "x")
	if strings.Contains(in.View(), "✗") {
		t.Error("typing should clear the mark")
	}
}

func TestProgressBarFraction(t *testing.T) {
	tests := []struct {
		value, max, want float64
	}{
		{2.5, 5, 0.5},
		{7, 5, 1},
		{-1, 5, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := NewScoreBar("", tt.value, tt.max, 40).Fraction(); got != tt.want {
			t.Errorf("Fraction(%v/%v) = %v, want %v", tt.value, tt.max, got, tt.want)
		}
	}

	view := NewScoreBar("Apply", 3.5, 5, 40).View()
	if !strings.Contains(view, "Apply") || !strings.Contains(view, "3.50") {
		t.Errorf("View() = %q", view)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "A", Disabled: true}, {Label: "B"}, {Label: "C", Disabled: true}, {Label: "D"}})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down should skip disabled items, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up should skip disabled items, got %d", m.Selected)
	}
}
