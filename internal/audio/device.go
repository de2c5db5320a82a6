package audio

import "context"

// Config describes how audio is captured and played back.
type Config struct {
	CaptureCommand  string // ffmpeg binary for capture
	PlaybackCommand string // player binary; empty = auto-detect
	InputFormat     string // ffmpeg input format (pulse, alsa, avfoundation...)
	InputDevice     string // capture device name
	SampleRate      int
	Channels        int
}

// Device is the capture/playback surface the session controller drives.
// At most one capture and one playback stream exist at a time; the
// controller enforces that they never overlap.
type Device interface {
	// StartCapture opens the microphone stream and begins buffering PCM.
	StartCapture(ctx context.Context) error
	// StopCapture closes the stream and returns the buffered s16le PCM.
	StopCapture() ([]byte, error)
	// StartPlayback plays an audio file. The returned channel receives
	// the player's exit status once, signaling end of stream.
	StartPlayback(ctx context.Context, path string) (<-chan error, error)
	// StopPlayback terminates an in-flight playback.
	StopPlayback() error
	// SampleRate reports the capture sample rate.
	SampleRate() int
}
