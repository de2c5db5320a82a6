package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxcorpus/promptrec/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play [filename]",
	Short: "Play one recorded take",
	Long: `Play a take from the session directory by its filename as listed
by 'promptrec takes'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cfg.Output.Directory, cfg.Audio.SampleRate, cfg.Audio.Channels)
		if err != nil {
			return fmt.Errorf("failed to open take store: %w", err)
		}

		device := newDevice()

		path := st.Path(args[0])
		fmt.Printf("Playing: %s\n", path)
		done, err := device.StartPlayback(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		if err := <-done; err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		fmt.Println("Playback completed")
		return nil
	},
}
