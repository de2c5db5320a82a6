package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxcorpus/promptrec/internal/session"
)

// StateMsg is a controller state change bridged into the TUI.
type StateMsg struct {
	State  session.State
	Reason session.Reason
}

// QueueMsg signals that queue entries changed (take saved or deleted).
type QueueMsg struct{}

// SessionErrMsg carries a collaborator error for the status line.
type SessionErrMsg struct {
	Code   session.ErrorCode
	Detail string
}

// Sink adapts session.EventSink onto a channel the bubbletea program
// drains. Events are dropped rather than blocking the controller when the
// UI falls behind.
type Sink struct {
	ch chan tea.Msg
}

func NewSink() *Sink {
	return &Sink{ch: make(chan tea.Msg, 64)}
}

func (s *Sink) StateChanged(state session.State, reason session.Reason) {
	s.send(StateMsg{State: state, Reason: reason})
}

func (s *Sink) QueueChanged() {
	s.send(QueueMsg{})
}

func (s *Sink) SessionError(code session.ErrorCode, detail string) {
	s.send(SessionErrMsg{Code: code, Detail: detail})
}

func (s *Sink) send(msg tea.Msg) {
	select {
	case s.ch <- msg:
	default:
	}
}
