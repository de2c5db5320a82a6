package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/voxcorpus/promptrec/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	cfgFile      string
	verboseLevel int
)

var rootCmd = &cobra.Command{
	Use:   "promptrec",
	Short: "Speech-corpus recording tool for dictated prompts",
	Long: `PromptRec selects a randomized set of prompts from a text corpus,
displays them one at a time to be dictated, and saves each dictation as a
.wav file with a matching metadata row in recorder.tsv.

The resulting session directory is suitable as training data for speech
recognition and synthesis models.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle through applyFlagOverrides.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Configure slog based on verbose level
		setupLogging(verboseLevel)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides()
		return nil
	}
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/promptrec.yaml)")
	rootCmd.PersistentFlags().IntVarP(&verboseLevel, "verbose", "v", 0, "verbose level: 0=info, 1=debug, 2=max tracing")

	// Session parameters, overriding the config file.
	rootCmd.PersistentFlags().StringP("prompts-file", "p", "", "file containing prompts to choose from")
	rootCmd.PersistentFlags().StringP("save-dir", "d", "", "where to save .wav and recorder.tsv files")
	rootCmd.PersistentFlags().IntP("count", "c", 0, "number of prompts to select and display")
	rootCmd.PersistentFlags().IntP("len-soft-max", "l", 0, "soft maximum prompt length in characters")
	rootCmd.PersistentFlags().Bool("ordered", false, "keep corpus order instead of shuffling")
	rootCmd.PersistentFlags().Int64("seed", 0, "shuffle seed for a reproducible selection (0 = random)")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(takesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(configCmd)
}

// applyFlagOverrides copies explicitly set session flags over the loaded
// config. Persistent flags share their backing values across commands, so
// the root set sees Changed regardless of which command parsed them.
func applyFlagOverrides() {
	flags := rootCmd.PersistentFlags()
	if flags.Changed("prompts-file") {
		cfg.Prompts.File, _ = flags.GetString("prompts-file")
	}
	if flags.Changed("save-dir") {
		cfg.Output.Directory, _ = flags.GetString("save-dir")
	}
	if flags.Changed("count") {
		cfg.Prompts.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("len-soft-max") {
		cfg.Prompts.LenSoftMax, _ = flags.GetInt("len-soft-max")
	}
	if flags.Changed("ordered") {
		cfg.Prompts.Ordered, _ = flags.GetBool("ordered")
	}
	if flags.Changed("seed") {
		cfg.Prompts.Seed, _ = flags.GetInt64("seed")
	}
}

// setupLogging configures slog based on the verbose level
func setupLogging(level int) {
	var slogLevel slog.Level
	switch level {
	case 0:
		slogLevel = slog.LevelInfo
	default:
		slogLevel = slog.LevelDebug
	}

	// Configure text handler for clean terminal output
	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Surface ffmpeg's own logging at maximum tracing
	if level >= 2 {
		os.Setenv("FFMPEG_LOGLEVEL", "debug")
	}
}
