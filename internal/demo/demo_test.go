package demo

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"codemorph/internal/tui/codeview"
)

func codeviewChanged(source uint64, index int) codeview.IndexChangedMsg {
	return codeview.IndexChangedMsg{Source: source, Index: index}
}

func newTestModel() model {
	return newModel(Sections(), nil, log.New(io.Discard), true)
}

func TestSectionsMirrorShowcase(t *testing.T) {
	ss := Sections()
	if len(ss) != 8 {
		t.Fatalf("expected 8 sections, got %d", len(ss))
	}
	customs := 0
	for _, s := range ss {
		if len(s.Items) == 0 {
			t.Fatalf("section %q has no snippets", s.Title)
		}
		if s.Custom {
			customs++
		}
	}
	if customs != 1 {
		t.Fatalf("expected one custom-controls section")
	}
}

func TestTabsCycle(t *testing.T) {
	m := newTestModel()
	v, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = v.(model)
	if m.active != len(m.views)-1 {
		t.Fatalf("expected wrap to last tab, got %d", m.active)
	}
	v, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = v.(model)
	if m.active != 0 {
		t.Fatalf("expected first tab, got %d", m.active)
	}
}

func TestCustomSectionAppliesRequests(t *testing.T) {
	m := newTestModel()
	i := m.custom()
	m.active = i
	id := m.views[i].ID()

	v, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = v.(model)
	if m.views[i].Index() != 0 {
		t.Fatalf("controlled view must wait for the host")
	}
	v, _ = m.Update(codeviewChanged(id, 1))
	m = v.(model)
	if m.step != 1 || m.views[i].Index() != 1 {
		t.Fatalf("expected step 1 applied, got step=%d index=%d", m.step, m.views[i].Index())
	}
	if !strings.Contains(m.View(), "Step 2 of 4") {
		t.Fatalf("expected step bar in view")
	}

	other := m.views[0].ID()
	v, _ = m.Update(codeviewChanged(other, 3))
	m = v.(model)
	if m.step != 1 {
		t.Fatalf("requests from other sections must be ignored")
	}
}
