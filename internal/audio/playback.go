package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// preferredPlayers is the lookup order when no playback command is
// configured.
var preferredPlayers = []string{"ffplay", "mpv", "vlc", "aplay"}

func (d *FFmpegDevice) StartPlayback(ctx context.Context, path string) (<-chan error, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	player := d.cfg.PlaybackCommand
	if player == "" {
		found, err := findAudioPlayer()
		if err != nil {
			return nil, err
		}
		player = found
	}

	var cmd *exec.Cmd
	switch player {
	case "ffplay":
		cmd = exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path)
	case "mpv":
		cmd = exec.CommandContext(ctx, "mpv", "--no-video", "--really-quiet", path)
	case "vlc":
		cmd = exec.CommandContext(ctx, "vlc", "--play-and-exit", "--intf", "dummy", path)
	case "aplay":
		cmd = exec.CommandContext(ctx, "aplay", "-q", path)
	default:
		cmd = exec.CommandContext(ctx, player, path)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playback != nil {
		return nil, errors.New("playback already in progress")
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", player, err)
	}
	slog.Debug("playback started", "player", player, "file", path)

	proc := &playbackProc{cmd: cmd, done: make(chan error, 1)}
	d.playback = proc
	go func() {
		err := cmd.Wait()
		d.mu.Lock()
		if d.playback == proc {
			d.playback = nil
		}
		d.mu.Unlock()
		proc.done <- err
	}()
	return proc.done, nil
}

func (d *FFmpegDevice) StopPlayback() error {
	d.mu.Lock()
	proc := d.playback
	d.playback = nil
	d.mu.Unlock()
	if proc == nil {
		return nil
	}
	if proc.cmd.Process != nil {
		if err := proc.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("stop playback: %w", err)
		}
	}
	return nil
}

type playbackProc struct {
	cmd  *exec.Cmd
	done chan error
}

func findAudioPlayer() (string, error) {
	for _, player := range preferredPlayers {
		if _, err := exec.LookPath(player); err == nil {
			return player, nil
		}
	}
	return "", fmt.Errorf("no audio player found (tried: %s)", strings.Join(preferredPlayers, ", "))
}
