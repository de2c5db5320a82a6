package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Controller owns the prompt queue, the cursor, and the recording state
// machine. It is the only owner of the audio device: capture and playback
// never overlap, and every exit path from Recording/Playing releases the
// device stream.
type Controller struct {
	device Recorder
	store  Store
	events EventSink
	corpus string

	mu      sync.Mutex
	queue   []Entry
	cursor  int
	state   State
	playGen int
}

// New builds a controller over a freshly selected prompt queue. corpus
// names the prompt file and prefixes take filenames.
func New(corpus string, prompts []string, device Recorder, store Store, events EventSink) *Controller {
	if events == nil {
		events = NopSink{}
	}
	queue := make([]Entry, len(prompts))
	for i, text := range prompts {
		queue[i] = Entry{Index: i, Text: text}
	}
	return &Controller{
		device: device,
		store:  store,
		events: events,
		corpus: corpus,
		queue:  queue,
		state:  StateIdle,
	}
}

// Restore attaches previously recorded takes to matching queue entries and
// moves the cursor past them, resuming a prior session. Call it before the
// first operation; takes whose prompt no longer appears in the queue are
// ignored.
func (c *Controller) Restore(takes []Take) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, take := range takes {
		for i := range c.queue {
			if c.queue[i].Text == take.Prompt && !c.queue[i].Recorded() {
				c.queue[i].Filename = take.Filename
				break
			}
		}
	}
	c.cursor = len(c.queue)
	for i := range c.queue {
		if !c.queue[i].Recorded() {
			c.cursor = i
			break
		}
	}
}

// StartRecording begins capturing a take for the entry at the cursor.
// Valid only in Idle with the session not yet complete.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("start recording in state %s: %w", c.state, ErrInvalidState)
	}
	if c.cursor >= len(c.queue) {
		c.mu.Unlock()
		return fmt.Errorf("start recording after session complete: %w", ErrInvalidState)
	}
	if err := c.device.StartCapture(ctx); err != nil {
		c.mu.Unlock()
		c.events.SessionError(ErrorCodeCapture, err.Error())
		return fmt.Errorf("start capture: %w", err)
	}
	c.state = StateRecording
	index := c.cursor
	c.mu.Unlock()

	slog.Debug("recording started", "entry", index)
	c.events.StateChanged(StateRecording, ReasonRecordingStarted)
	return nil
}

// FinishRecording stops capture, persists the take, and advances the
// cursor. On a store failure the session returns to Idle with the entry's
// filename unset and no metadata committed.
func (c *Controller) FinishRecording() error {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return fmt.Errorf("finish recording in state %s: %w", c.state, ErrInvalidState)
	}

	pcm, err := c.device.StopCapture()
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.events.SessionError(ErrorCodeCapture, err.Error())
		c.events.StateChanged(StateIdle, ReasonSaveFailed)
		return fmt.Errorf("stop capture: %w", err)
	}

	entry := &c.queue[c.cursor]
	filename := entry.Filename
	if filename == "" {
		filename = c.filenameFor(entry.Index)
	}
	if err := c.store.Save(filename, entry.Text, pcm); err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.events.SessionError(ErrorCodeStore, err.Error())
		c.events.StateChanged(StateIdle, ReasonSaveFailed)
		return fmt.Errorf("save take: %w", err)
	}
	entry.Filename = filename
	c.cursor++
	done := c.cursor == len(c.queue)
	c.state = StateIdle
	c.mu.Unlock()

	slog.Debug("take saved", "file", filename, "bytes", len(pcm))
	c.events.QueueChanged()
	c.events.StateChanged(StateIdle, ReasonRecordingSaved)
	if done {
		c.events.StateChanged(StateIdle, ReasonSessionComplete)
	}
	return nil
}

// CancelRecording stops capture and discards the audio. The cursor does
// not advance.
func (c *Controller) CancelRecording() error {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return fmt.Errorf("cancel recording in state %s: %w", c.state, ErrInvalidState)
	}
	_, err := c.device.StopCapture()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		// The audio was being discarded anyway; report but don't fail.
		c.events.SessionError(ErrorCodeCapture, err.Error())
	}
	c.events.StateChanged(StateIdle, ReasonRecordingCancelled)
	return nil
}

// Play starts playback of a recorded take. Valid in Idle; while already
// Playing it restarts with the new source.
func (c *Controller) Play(ctx context.Context, filename string) error {
	c.mu.Lock()
	if filename == "" {
		c.mu.Unlock()
		return fmt.Errorf("play with empty filename: %w", ErrInvalidArgument)
	}
	if c.state == StateRecording {
		c.mu.Unlock()
		return fmt.Errorf("play in state %s: %w", StateRecording, ErrInvalidState)
	}
	wasPlaying := c.state == StatePlaying
	if wasPlaying {
		c.playGen++
		_ = c.device.StopPlayback()
		c.state = StateIdle
	}

	done, err := c.device.StartPlayback(ctx, c.store.Path(filename))
	if err != nil {
		c.mu.Unlock()
		c.events.SessionError(ErrorCodePlayback, err.Error())
		if wasPlaying {
			c.events.StateChanged(StateIdle, ReasonPlaybackStopped)
		}
		return fmt.Errorf("start playback: %w", err)
	}
	c.state = StatePlaying
	c.playGen++
	gen := c.playGen
	c.mu.Unlock()

	go c.watchPlayback(gen, done)
	c.events.StateChanged(StatePlaying, ReasonPlaybackStarted)
	return nil
}

// watchPlayback drives the Playing -> Idle transition when the player
// signals end of stream. The generation guard keeps a superseded playback
// from clobbering its replacement's state.
func (c *Controller) watchPlayback(gen int, done <-chan error) {
	err := <-done

	c.mu.Lock()
	if c.playGen != gen || c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		c.events.SessionError(ErrorCodePlayback, err.Error())
	}
	c.events.StateChanged(StateIdle, ReasonPlaybackFinished)
}

// StopPlayback explicitly ends playback. Calling it in Idle is a no-op;
// calling it while Recording is rejected.
func (c *Controller) StopPlayback() error {
	c.mu.Lock()
	if c.state == StateRecording {
		c.mu.Unlock()
		return fmt.Errorf("stop playback in state %s: %w", StateRecording, ErrInvalidState)
	}
	if c.state != StatePlaying {
		c.mu.Unlock()
		return nil
	}
	c.playGen++
	err := c.device.StopPlayback()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		c.events.SessionError(ErrorCodePlayback, err.Error())
	}
	c.events.StateChanged(StateIdle, ReasonPlaybackStopped)
	return nil
}

// DeleteFile removes a take and reverts its queue entry to not-yet-
// recorded. Valid only in Idle.
func (c *Controller) DeleteFile(filename string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("delete in state %s: %w", c.state, ErrInvalidState)
	}
	if filename == "" {
		c.mu.Unlock()
		return fmt.Errorf("delete with empty filename: %w", ErrInvalidArgument)
	}
	if err := c.store.Delete(filename); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("delete take: %w", err)
	}
	for i := range c.queue {
		if c.queue[i].Filename == filename {
			c.queue[i].Filename = ""
		}
	}
	c.mu.Unlock()

	c.events.QueueChanged()
	c.events.StateChanged(StateIdle, ReasonTakeDeleted)
	return nil
}

// Advance skips the current entry without recording. At the last entry it
// moves the cursor to the session-complete sentinel; further calls are
// no-ops.
func (c *Controller) Advance() error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("advance in state %s: %w", c.state, ErrInvalidState)
	}
	if c.cursor >= len(c.queue) {
		c.mu.Unlock()
		return nil
	}
	c.cursor++
	done := c.cursor == len(c.queue)
	c.mu.Unlock()

	c.events.StateChanged(StateIdle, ReasonAdvanced)
	if done {
		c.events.StateChanged(StateIdle, ReasonSessionComplete)
	}
	return nil
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cursor returns the current queue position, len(queue) once complete.
func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Current returns the entry at the cursor, or false once the session is
// complete.
func (c *Controller) Current() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor >= len(c.queue) {
		return Entry{}, false
	}
	return c.queue[c.cursor], true
}

// Entry returns the queue entry at index.
func (c *Controller) Entry(index int) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.queue) {
		return Entry{}, false
	}
	return c.queue[index], true
}

// Queue returns a snapshot of the session queue.
func (c *Controller) Queue() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.queue))
	copy(out, c.queue)
	return out
}

// Done reports whether every entry has been recorded or skipped.
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor >= len(c.queue)
}

// Corpus returns the corpus name takes are filed under.
func (c *Controller) Corpus() string { return c.corpus }

func (c *Controller) filenameFor(index int) string {
	return fmt.Sprintf("%s_%03d.wav", c.corpus, index)
}
