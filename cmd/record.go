package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voxcorpus/promptrec/internal/audio"
	"github.com/voxcorpus/promptrec/internal/prompt"
	"github.com/voxcorpus/promptrec/internal/session"
	"github.com/voxcorpus/promptrec/internal/store"
	"github.com/voxcorpus/promptrec/internal/ui"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Run an interactive dictation session",
	Long: `Select prompts from the corpus and open the recording screen.
Each finished take is written as a .wav file with a row in recorder.tsv.
Takes listed in an existing recorder.tsv are picked up, so an interrupted
session resumes where it left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePromptsFile(); err != nil {
			return err
		}

		prompts, err := prompt.Load(cfg.Prompts.File, prompt.Options{
			Count:      cfg.Prompts.Count,
			LenSoftMax: cfg.Prompts.LenSoftMax,
			Ordered:    cfg.Prompts.Ordered,
			Seed:       cfg.Prompts.Seed,
		})
		if err != nil {
			return fmt.Errorf("failed to load prompts: %w", err)
		}
		corpus := prompt.CorpusName(cfg.Prompts.File)
		slog.Info("Prompts selected", "corpus", corpus, "count", len(prompts))

		st, err := store.New(cfg.Output.Directory, cfg.Audio.SampleRate, cfg.Audio.Channels)
		if err != nil {
			return fmt.Errorf("failed to open take store: %w", err)
		}

		device := newDevice()

		sink := ui.NewSink()
		ctrl := session.New(corpus, prompts, device, st, sink)

		rows, err := st.LoadAll()
		if err != nil {
			return fmt.Errorf("failed to read existing takes: %w", err)
		}
		if len(rows) > 0 {
			takes := make([]session.Take, len(rows))
			for i, r := range rows {
				takes[i] = session.Take{Filename: r.Filename, Prompt: r.Prompt}
			}
			ctrl.Restore(takes)
			slog.Info("Resumed prior session", "existing_takes", len(rows), "cursor", ctrl.Cursor())
		}

		if err := session.WriteManifest(st.Dir(), session.Manifest{
			Corpus:     corpus,
			Count:      len(prompts),
			LenSoftMax: cfg.Prompts.LenSoftMax,
			Ordered:    cfg.Prompts.Ordered,
			Seed:       cfg.Prompts.Seed,
			StartedAt:  time.Now(),
		}); err != nil {
			return err
		}

		program := tea.NewProgram(ui.New(ctrl, sink, st.Dir()), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("session UI failed: %w", err)
		}

		queue := ctrl.Queue()
		recorded := 0
		for _, e := range queue {
			if e.Recorded() {
				recorded++
			}
		}
		fmt.Printf("Session saved to %s (%d/%d prompts recorded)\n", st.Dir(), recorded, len(queue))
		return nil
	},
}

// newDevice builds the configured capture/playback device.
func newDevice() audio.Device {
	return audio.NewFFmpegDevice(audio.Config{
		CaptureCommand:  cfg.Audio.CaptureCommand,
		PlaybackCommand: cfg.Audio.PlaybackCommand,
		InputFormat:     cfg.Audio.InputFormat,
		InputDevice:     cfg.Audio.InputDevice,
		SampleRate:      cfg.Audio.SampleRate,
		Channels:        cfg.Audio.Channels,
	})
}

func requirePromptsFile() error {
	if cfg.Prompts.File == "" {
		return fmt.Errorf("no prompts file configured, use --prompts-file or prompts.file in the config")
	}
	info, err := os.Stat(cfg.Prompts.File)
	if err != nil {
		return fmt.Errorf("prompts file %q: %w", cfg.Prompts.File, err)
	}
	if info.IsDir() {
		return fmt.Errorf("prompts file %q is a directory", cfg.Prompts.File)
	}
	return nil
}
