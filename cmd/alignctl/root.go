package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"readalong-editor/internal/logger"
	"readalong-editor/internal/readalong"
	"readalong-editor/models"
	"readalong-editor/services"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "alignctl",
	Short: "Inspect and adjust read-along word alignments",
	Long: `alignctl works on read-along documents without opening the editor.
Documents may be local files, http(s) URLs or data: URIs; linked alignment
bodies are followed the same way the editor follows them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.LevelDebug)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log fetches and skipped words")

	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(shiftCmd)
	rootCmd.AddCommand(srtCmd)
}

// loadConfig reads the editor settings, falling back to the defaults.
func loadConfig() *models.Config {
	cfg, err := models.LoadConfig()
	if err != nil {
		logger.Warn("settings not loaded, using defaults: %v", err)
		cfg = models.DefaultConfig()
	}
	if !verbose {
		logger.SetLevel(cfg.Level())
	}
	return cfg
}

// load reads ref with the editor's loader. A document whose alignment body
// could not be reached is an error here, unlike in the editor.
func load(ctx context.Context, cfg *models.Config, ref string) (*services.Loaded, error) {
	loaded, err := services.NewDefaultLoader(cfg).LoadDocument(ctx, ref)
	if errors.Is(err, readalong.ErrNoReadAlong) {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	if err != nil {
		return nil, err
	}
	if loaded.LinkErr != nil {
		return nil, fmt.Errorf("alignment body of %s: %w", ref, loaded.LinkErr)
	}
	return loaded, nil
}
