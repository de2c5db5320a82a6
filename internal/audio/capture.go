package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// FFmpegDevice captures microphone PCM by running ffmpeg and buffers its
// stdout until the capture is stopped. Playback runs through the first
// available command-line player (see playback.go).
type FFmpegDevice struct {
	cfg Config

	mu       sync.Mutex
	capture  *captureProc
	playback *playbackProc
}

var _ Device = (*FFmpegDevice)(nil)

// NewFFmpegDevice builds a device from cfg, filling in defaults.
func NewFFmpegDevice(cfg Config) *FFmpegDevice {
	if cfg.CaptureCommand == "" {
		cfg.CaptureCommand = "ffmpeg"
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &FFmpegDevice{cfg: cfg}
}

func (d *FFmpegDevice) SampleRate() int { return d.cfg.SampleRate }

func (d *FFmpegDevice) StartCapture(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.capture != nil {
		return errors.New("capture already in progress")
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", d.cfg.InputFormat,
		"-i", d.cfg.InputDevice,
		"-ac", strconv.Itoa(d.cfg.Channels),
		"-ar", strconv.Itoa(d.cfg.SampleRate),
		"-f", "s16le",
		"-",
	}
	slog.Debug("starting capture", "command", d.cfg.CaptureCommand, "args", args)

	cmd := exec.CommandContext(ctx, d.cfg.CaptureCommand, args...)
	proc := &captureProc{cmd: cmd, waitErr: make(chan error, 1)}
	cmd.Stderr = &proc.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("capture stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", d.cfg.CaptureCommand, err)
	}

	proc.copyDone = make(chan struct{})
	go func() {
		defer close(proc.copyDone)
		chunk := make([]byte, 8192)
		for {
			n, err := stdout.Read(chunk)
			if n > 0 {
				proc.bufMu.Lock()
				proc.buf.Write(chunk[:n])
				proc.bufMu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	go func() {
		proc.waitErr <- cmd.Wait()
		close(proc.waitErr)
	}()

	// Fail fast if ffmpeg dies immediately (bad device, missing binary
	// permissions, ...) instead of surfacing it at stop time.
	select {
	case err := <-proc.waitErr:
		<-proc.copyDone
		detail := bytes.TrimSpace(proc.stderr.Bytes())
		if err != nil {
			return fmt.Errorf("%s exited before capture started: %w: %s", d.cfg.CaptureCommand, err, detail)
		}
		return fmt.Errorf("%s exited before capture started: %s", d.cfg.CaptureCommand, detail)
	case <-time.After(250 * time.Millisecond):
	}

	d.capture = proc
	return nil
}

func (d *FFmpegDevice) StopCapture() ([]byte, error) {
	d.mu.Lock()
	proc := d.capture
	d.capture = nil
	d.mu.Unlock()
	if proc == nil {
		return nil, errors.New("no capture in progress")
	}
	return proc.stop()
}

type captureProc struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer

	bufMu sync.Mutex
	buf   bytes.Buffer

	copyDone chan struct{}
	waitErr  chan error
}

func (p *captureProc) stop() ([]byte, error) {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Signal(os.Interrupt)
	}

	var waitErr error
	select {
	case err := <-p.waitErr:
		waitErr = err
	case <-time.After(1200 * time.Millisecond):
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		waitErr = <-p.waitErr
	}
	<-p.copyDone

	p.bufMu.Lock()
	pcm := append([]byte(nil), p.buf.Bytes()...)
	p.bufMu.Unlock()

	// ffmpeg exits non-zero on SIGINT; that is the normal stop path.
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return pcm, fmt.Errorf("capture process: %w", waitErr)
	}
	slog.Debug("capture stopped", "bytes", len(pcm))
	return pcm, nil
}
