package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/prost/pkg/solve"
)

func browseFixture(t *testing.T) *solve.Decomposition {
	t.Helper()
	solver, err := solve.New(solve.Options{Mode: solve.ModeAStar})
	if err != nil {
		t.Fatalf("solve.New: %v", err)
	}
	d, err := solver.Decompose(context.Background(), 4)
	if err != nil {
		t.Fatalf("Decompose(4): %v", err)
	}
	return d
}

func TestBrowseModelNavigation(t *testing.T) {
	d := browseFixture(t)
	m := newBrowseModel(d)

	key := func(s string) tea.Msg {
		if len(s) == 1 {
			return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}
		switch s {
		case "left":
			return tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			return tea.KeyMsg{Type: tea.KeyRight}
		}
		t.Fatalf("unknown key %q", s)
		return nil
	}

	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(browseModel)
	}

	if m.cursor != 0 {
		t.Fatalf("initial cursor = %d, want 0", m.cursor)
	}

	step(key("left"))
	if m.cursor != 0 {
		t.Errorf("left at start moved cursor to %d", m.cursor)
	}

	step(key("right"))
	if m.cursor != 1 {
		t.Errorf("right moved cursor to %d, want 1", m.cursor)
	}

	step(key("right"))
	if m.cursor != d.RoundCount()-1 {
		t.Errorf("cursor past last round: %d", m.cursor)
	}

	step(key("g"))
	if m.cursor != 0 {
		t.Errorf("g moved cursor to %d, want 0", m.cursor)
	}

	step(key("G"))
	if m.cursor != d.RoundCount()-1 {
		t.Errorf("G moved cursor to %d, want %d", m.cursor, d.RoundCount()-1)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should produce a quit command")
	}
}

func TestBrowseModelView(t *testing.T) {
	d := browseFixture(t)
	m := newBrowseModel(d)

	view := m.View()
	if !strings.Contains(view, "K_4 decomposition") {
		t.Errorf("view missing title:\n%s", view)
	}
	if !strings.Contains(view, "round 1 of 2") {
		t.Errorf("view missing round counter:\n%s", view)
	}
}
