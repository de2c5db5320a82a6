package session

import (
	"context"
	"errors"
)

// State models the session-wide recording/playback lifecycle. At most one
// of Recording/Playing holds at any instant.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePlaying   State = "playing"
)

// Reason gives a structured cause for a state change event.
type Reason string

const (
	ReasonRecordingStarted   Reason = "recording_started"
	ReasonRecordingSaved     Reason = "recording_saved"
	ReasonRecordingCancelled Reason = "recording_cancelled"
	ReasonSaveFailed         Reason = "save_failed"
	ReasonPlaybackStarted    Reason = "playback_started"
	ReasonPlaybackFinished   Reason = "playback_finished"
	ReasonPlaybackStopped    Reason = "playback_stopped"
	ReasonTakeDeleted        Reason = "take_deleted"
	ReasonAdvanced           Reason = "advanced"
	ReasonSessionComplete    Reason = "session_complete"
)

// ErrorCode identifies the collaborator an error came from.
type ErrorCode string

const (
	ErrorCodeCapture  ErrorCode = "capture"
	ErrorCodePlayback ErrorCode = "playback"
	ErrorCodeStore    ErrorCode = "store"
)

var (
	// ErrInvalidState is returned when an operation is called outside
	// the state it is valid in. The call is rejected without touching
	// session state.
	ErrInvalidState = errors.New("operation not valid in current state")
	// ErrInvalidArgument is returned for an absent or empty filename.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Entry is one prompt in the session queue plus its recording status.
// Filename stays empty until a take exists for the entry.
type Entry struct {
	Index    int
	Text     string
	Filename string
}

// Recorded reports whether a take exists for the entry.
func (e Entry) Recorded() bool { return e.Filename != "" }

// Take is a previously recorded (filename, prompt) pair used to restore
// session state on startup.
type Take struct {
	Filename string
	Prompt   string
}

// Recorder is the audio device surface the controller drives.
type Recorder interface {
	StartCapture(ctx context.Context) error
	StopCapture() ([]byte, error)
	StartPlayback(ctx context.Context, path string) (<-chan error, error)
	StopPlayback() error
}

// Store persists takes and resolves their on-disk paths.
type Store interface {
	Save(filename, promptText string, pcm []byte) error
	Delete(filename string) error
	Path(filename string) string
}

// EventSink receives controller state changes for the presentation layer.
type EventSink interface {
	StateChanged(state State, reason Reason)
	QueueChanged()
	SessionError(code ErrorCode, detail string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) StateChanged(State, Reason)     {}
func (NopSink) QueueChanged()                  {}
func (NopSink) SessionError(ErrorCode, string) {}
