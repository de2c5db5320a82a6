package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxcorpus/promptrec/internal/session"
)

// Model is the root bubbletea model for a recording session. It maps user
// intents onto session.Controller operations and re-renders on controller
// events arriving through the Sink.
type Model struct {
	ctrl *session.Controller
	sink *Sink

	saveDir string

	// Review selection within the queue. Follows the cursor until the
	// user moves it explicitly.
	selected   int
	userMoved  bool
	width      int
	height     int
	statusText string
	errText    string
	quitting   bool
}

// New creates the session TUI over an initialized controller.
func New(ctrl *session.Controller, sink *Sink, saveDir string) Model {
	selected := ctrl.Cursor()
	if selected >= len(ctrl.Queue()) && len(ctrl.Queue()) > 0 {
		selected = len(ctrl.Queue()) - 1
	}
	return Model{
		ctrl:       ctrl,
		sink:       sink,
		saveDir:    saveDir,
		selected:   selected,
		statusText: "Press r to start recording",
	}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
}

// listen waits for the next controller event.
func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.sink.ch
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		m.errText = ""
		m.statusText = statusFor(msg)
		if !m.userMoved {
			m.followCursor()
		}
		return m, m.listen()

	case QueueMsg:
		if !m.userMoved {
			m.followCursor()
		}
		return m, m.listen()

	case SessionErrMsg:
		m.errText = fmt.Sprintf("%s: %s", msg.Code, msg.Detail)
		return m, m.listen()
	}
	return m, nil
}

func (m *Model) followCursor() {
	queue := m.ctrl.Queue()
	cursor := m.ctrl.Cursor()
	if cursor < len(queue) {
		m.selected = cursor
	} else if len(queue) > 0 {
		m.selected = len(queue) - 1
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.ctrl.State() == session.StateRecording {
			_ = m.ctrl.CancelRecording()
		}
		_ = m.ctrl.StopPlayback()
		m.quitting = true
		return m, tea.Quit

	case "r":
		var err error
		if m.ctrl.State() == session.StateRecording {
			err = m.ctrl.FinishRecording()
		} else {
			m.userMoved = false
			err = m.ctrl.StartRecording(context.Background())
		}
		return m.withErr(err), nil

	case "esc":
		if m.ctrl.State() == session.StateRecording {
			return m.withErr(m.ctrl.CancelRecording()), nil
		}
		m.errText = ""
		return m, nil

	case " ", "p":
		if m.ctrl.State() == session.StatePlaying {
			return m.withErr(m.ctrl.StopPlayback()), nil
		}
		entry, ok := m.ctrl.Entry(m.selected)
		if !ok || !entry.Recorded() {
			m.statusText = "No take recorded for this prompt"
			return m, nil
		}
		return m.withErr(m.ctrl.Play(context.Background(), entry.Filename)), nil

	case "d":
		entry, ok := m.ctrl.Entry(m.selected)
		if !ok || !entry.Recorded() {
			m.statusText = "No take to delete for this prompt"
			return m, nil
		}
		return m.withErr(m.ctrl.DeleteFile(entry.Filename)), nil

	case "n", "enter":
		m.userMoved = false
		return m.withErr(m.ctrl.Advance()), nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.userMoved = true
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.ctrl.Queue())-1 {
			m.selected++
			m.userMoved = true
		}
		return m, nil
	}
	return m, nil
}

func (m Model) withErr(err error) Model {
	if err != nil {
		m.errText = err.Error()
	}
	return m
}

func statusFor(msg StateMsg) string {
	switch msg.Reason {
	case session.ReasonRecordingStarted:
		return "Recording... press r to finish, esc to discard"
	case session.ReasonRecordingSaved:
		return "Take saved"
	case session.ReasonRecordingCancelled:
		return "Recording discarded"
	case session.ReasonSaveFailed:
		return "Save failed, take not committed"
	case session.ReasonPlaybackStarted:
		return "Playing... press space to stop"
	case session.ReasonPlaybackFinished, session.ReasonPlaybackStopped:
		return "Playback stopped"
	case session.ReasonTakeDeleted:
		return "Take deleted"
	case session.ReasonSessionComplete:
		return "Session complete, all prompts done. Press q to quit"
	default:
		return ""
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	queue := m.ctrl.Queue()
	cursor := m.ctrl.Cursor()
	state := m.ctrl.State()

	recorded := 0
	for _, e := range queue {
		if e.Recorded() {
			recorded++
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("promptrec"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %s  %d/%d recorded", m.saveDir, recorded, len(queue))))
	b.WriteString("\n\n")

	b.WriteString(m.renderIndicator(state))
	b.WriteString("\n\n")

	// Current prompt (or selected entry during review).
	if entry, ok := m.ctrl.Entry(m.selected); ok {
		width := m.width - 4
		if width < 20 {
			width = 60
		}
		b.WriteString(promptStyle.Width(width).Render(entry.Text))
		b.WriteString("\n\n")
	} else if m.ctrl.Done() {
		b.WriteString(playingStyle.Render("All prompts recorded or skipped."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderQueue(queue, cursor))
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(errorStyle.Render("error: " + m.errText))
		b.WriteString("\n")
	} else if m.statusText != "" {
		b.WriteString(statusStyle.Render(m.statusText))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("r rec/finish · esc cancel · space play · d delete · n next · j/k review · q quit"))
	return b.String()
}

func (m Model) renderIndicator(state session.State) string {
	switch state {
	case session.StateRecording:
		return recordingDotStyle.Render("● REC")
	case session.StatePlaying:
		return playingStyle.Render("▶ PLAYING")
	default:
		if m.ctrl.Done() {
			return playingStyle.Render("✓ DONE")
		}
		return idleDotStyle.Render("○ idle")
	}
}

func (m Model) renderQueue(queue []session.Entry, cursor int) string {
	visible := m.height - 12
	if visible < 3 {
		visible = 8
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(queue) {
		end = len(queue)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		entry := queue[i]

		mark := pendingMarkStyle.Render("·")
		if entry.Recorded() {
			mark = recordedMarkStyle.Render("●")
		}

		pointer := "  "
		if i == cursor {
			pointer = cursorRowStyle.Render("> ")
		}

		text := entry.Text
		if maxLen := m.width - 10; maxLen > 10 {
			// Truncate on runes so a multibyte prompt never renders a
			// torn character.
			if r := []rune(text); len(r) > maxLen {
				text = string(r[:maxLen-1]) + "…"
			}
		}

		line := fmt.Sprintf("%s%s %3d  %s", pointer, mark, entry.Index, text)
		switch {
		case i == m.selected:
			line = selectedRowStyle.Render(line)
		case entry.Recorded():
			line = dimRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
