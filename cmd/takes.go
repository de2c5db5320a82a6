package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxcorpus/promptrec/internal/session"
	"github.com/voxcorpus/promptrec/internal/store"
)

var takesCmd = &cobra.Command{
	Use:   "takes",
	Short: "List recorded takes in the session directory",
	Long: `Read recorder.tsv from the save directory and print one line per
recorded take, flagging rows whose audio artifact is missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cfg.Output.Directory, cfg.Audio.SampleRate, cfg.Audio.Channels)
		if err != nil {
			return fmt.Errorf("failed to open take store: %w", err)
		}

		if manifest, err := session.ReadManifest(st.Dir()); err == nil && manifest != nil {
			fmt.Printf("Session: corpus %s, %d prompts, started %s\n",
				manifest.Corpus, manifest.Count, manifest.StartedAt.Format("2006-01-02 15:04"))
		}

		rows, err := st.LoadAll()
		if err != nil {
			return fmt.Errorf("failed to read takes: %w", err)
		}
		if len(rows) == 0 {
			fmt.Printf("No takes recorded in %s\n", st.Dir())
			return nil
		}

		for _, row := range rows {
			size := "MISSING"
			if info, err := os.Stat(st.Path(row.Filename)); err == nil {
				size = fmt.Sprintf("%6.1f KiB", float64(info.Size())/1024)
			}
			fmt.Printf("%-28s %10s  %s\n", row.Filename, size, row.Prompt)
		}
		fmt.Printf("\n%d takes in %s\n", len(rows), st.Dir())
		return nil
	},
}
