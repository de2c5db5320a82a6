package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxcorpus/promptrec/internal/prompt"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Preview the prompt selection for the current settings",
	Long: `Load the corpus and print the prompts a recording session would
use, in session order. With a fixed --seed the same selection is shown
every time.`,
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

		fmt.Printf("Corpus: %s (%d prompts selected)\n\n", prompt.CorpusName(cfg.Prompts.File), len(prompts))
		for i, p := range prompts {
			fmt.Printf("%3d  %s\n", i, p)
		}
		return nil
	},
}
