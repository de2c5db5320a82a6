package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxcorpus/promptrec/internal/session"
)

func newTestModel(prompts ...string) (Model, *session.Controller) {
	sink := NewSink()
	ctrl := session.New("arctic", prompts, &stubDevice{}, &stubStore{}, sink)
	return New(ctrl, sink, "/tmp/session"), ctrl
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRecordKeyTogglesRecording(t *testing.T) {
	m, ctrl := newTestModel("one", "two")

	next, _ := m.Update(key("r"))
	m = next.(Model)
	if ctrl.State() != session.StateRecording {
		t.Fatalf("state = %s, want recording", ctrl.State())
	}

	next, _ = m.Update(key("r"))
	m = next.(Model)
	if ctrl.State() != session.StateIdle {
		t.Fatalf("state = %s, want idle", ctrl.State())
	}
	if ctrl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", ctrl.Cursor())
	}
	if m.errText != "" {
		t.Fatalf("unexpected error text: %q", m.errText)
	}
}

func TestEscapeCancelsRecording(t *testing.T) {
	m, ctrl := newTestModel("one")

	next, _ := m.Update(key("r"))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_ = next.(Model)

	if ctrl.State() != session.StateIdle {
		t.Fatalf("state = %s, want idle", ctrl.State())
	}
	if ctrl.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0 after cancel", ctrl.Cursor())
	}
}

func TestNextKeySkipsPrompt(t *testing.T) {
	m, ctrl := newTestModel("one", "two")

	next, _ := m.Update(key("n"))
	_ = next.(Model)
	if ctrl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", ctrl.Cursor())
	}
}

func TestPlayWithoutTakeShowsStatus(t *testing.T) {
	m, ctrl := newTestModel("one")

	next, _ := m.Update(key(" "))
	m = next.(Model)
	if ctrl.State() != session.StateIdle {
		t.Fatalf("play started without a take")
	}
	if !strings.Contains(m.statusText, "No take") {
		t.Fatalf("status = %q", m.statusText)
	}
}

func TestSelectionKeysMoveReviewCursor(t *testing.T) {
	m, _ := newTestModel("one", "two", "three")

	next, _ := m.Update(key("j"))
	m = next.(Model)
	next, _ = m.Update(key("j"))
	m = next.(Model)
	if m.selected != 2 {
		t.Fatalf("selected = %d, want 2", m.selected)
	}
	next, _ = m.Update(key("k"))
	m = next.(Model)
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}
}

func TestViewShowsRecordingIndicator(t *testing.T) {
	m, _ := newTestModel("one")
	m.width = 80
	m.height = 24

	next, _ := m.Update(key("r"))
	m = next.(Model)
	if !strings.Contains(m.View(), "REC") {
		t.Fatalf("view does not show the recording indicator")
	}
}

func TestStateMsgUpdatesStatus(t *testing.T) {
	m, _ := newTestModel("one")

	next, _ := m.Update(StateMsg{State: session.StateIdle, Reason: session.ReasonRecordingSaved})
	m = next.(Model)
	if !strings.Contains(m.statusText, "saved") {
		t.Fatalf("status = %q", m.statusText)
	}
}

func TestViewTruncatesPromptsOnRuneBoundaries(t *testing.T) {
	m, _ := newTestModel(strings.Repeat("あいうえお", 8))
	m.width = 24
	m.height = 24

	view := m.View()
	if !utf8.ValidString(view) {
		t.Fatalf("view contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(view, "…") {
		t.Fatalf("long prompt was not truncated")
	}
}

func TestSessionCompleteStatus(t *testing.T) {
	m, _ := newTestModel("one")

	next, _ := m.Update(StateMsg{State: session.StateIdle, Reason: session.ReasonSessionComplete})
	m = next.(Model)
	if m.statusText != "Session complete, all prompts done. Press q to quit" {
		t.Fatalf("status = %q", m.statusText)
	}
}

func TestErrMsgShowsInView(t *testing.T) {
	m, _ := newTestModel("one")
	m.width = 80
	m.height = 24

	next, _ := m.Update(SessionErrMsg{Code: session.ErrorCodeStore, Detail: "disk full"})
	m = next.(Model)
	if !strings.Contains(m.View(), "disk full") {
		t.Fatalf("error not rendered")
	}
}

type stubDevice struct{}

func (stubDevice) StartCapture(context.Context) error { return nil }
func (stubDevice) StopCapture() ([]byte, error)       { return []byte{0, 0}, nil }
func (stubDevice) StartPlayback(context.Context, string) (<-chan error, error) {
	done := make(chan error, 1)
	return done, nil
}
func (stubDevice) StopPlayback() error { return nil }

type stubStore struct{}

func (stubStore) Save(string, string, []byte) error { return nil }
func (stubStore) Delete(string) error               { return errors.New("take not found") }
func (stubStore) Path(filename string) string       { return "/tmp/session/" + filename }
