package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o700); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestCaptureStartStopReturnsBufferedPCM(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "capture.sh", "#!/usr/bin/env bash\nprintf 'hello'\nsleep 2\n")
	device := NewFFmpegDevice(Config{CaptureCommand: script})

	if err := device.StartCapture(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	pcm, err := device.StopCapture()
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !strings.Contains(string(pcm), "hello") {
		t.Fatalf("unexpected capture bytes: %q", string(pcm))
	}
}

func TestCaptureEarlyExitFailsStart(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "fail.sh", "#!/usr/bin/env bash\necho 'boom' 1>&2\nexit 1\n")
	device := NewFFmpegDevice(Config{CaptureCommand: script})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := device.StartCapture(ctx)
	if err == nil {
		_, _ = device.StopCapture()
		t.Fatalf("expected early exit error")
	}
	if !strings.Contains(err.Error(), "exited before capture started") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCaptureRejectsConcurrentStart(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "capture.sh", "#!/usr/bin/env bash\nsleep 2\n")
	device := NewFFmpegDevice(Config{CaptureCommand: script})

	if err := device.StartCapture(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer device.StopCapture()

	if err := device.StartCapture(context.Background()); err == nil {
		t.Fatalf("expected second start to be rejected")
	}
}

func TestStopCaptureWithoutStart(t *testing.T) {
	t.Parallel()

	device := NewFFmpegDevice(Config{})
	if _, err := device.StopCapture(); err == nil {
		t.Fatalf("expected error stopping idle capture")
	}
}

func TestDefaultsApplied(t *testing.T) {
	t.Parallel()

	device := NewFFmpegDevice(Config{})
	if device.SampleRate() != 16000 {
		t.Fatalf("default sample rate = %d", device.SampleRate())
	}
	if device.cfg.CaptureCommand != "ffmpeg" || device.cfg.InputFormat != "pulse" {
		t.Fatalf("defaults not applied: %+v", device.cfg)
	}
}

func TestStartPlaybackMissingFile(t *testing.T) {
	t.Parallel()

	device := NewFFmpegDevice(Config{})
	_, err := device.StartPlayback(context.Background(), filepath.Join(t.TempDir(), "absent.wav"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestPlaybackRunsToCompletion(t *testing.T) {
	t.Parallel()

	player := writeScript(t, "player.sh", "#!/usr/bin/env bash\nexit 0\n")
	file := writeScript(t, "take.wav", "RIFF")
	device := NewFFmpegDevice(Config{PlaybackCommand: player})

	done, err := device.StartPlayback(context.Background(), file)
	if err != nil {
		t.Fatalf("start playback failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("playback error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("playback never signaled end of stream")
	}
}

func TestStopPlaybackKillsPlayer(t *testing.T) {
	t.Parallel()

	player := writeScript(t, "player.sh", "#!/usr/bin/env bash\nsleep 5\n")
	file := writeScript(t, "take.wav", "RIFF")
	device := NewFFmpegDevice(Config{PlaybackCommand: player})

	done, err := device.StartPlayback(context.Background(), file)
	if err != nil {
		t.Fatalf("start playback failed: %v", err)
	}
	if err := device.StopPlayback(); err != nil {
		t.Fatalf("stop playback failed: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("player still running after stop")
	}

	// Stopping with nothing playing is a no-op.
	if err := device.StopPlayback(); err != nil {
		t.Fatalf("idle stop failed: %v", err)
	}
}
