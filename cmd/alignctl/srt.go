package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"readalong-editor/internal/readalong"
	"readalong-editor/internal/subtitle"
)

var (
	srtFormat      string
	srtOutput      string
	srtMaxWords    int
	srtMaxDuration time.Duration
	srtMaxGap      time.Duration
)

var srtCmd = &cobra.Command{
	Use:   "srt <file>",
	Short: "Convert word timings into subtitles",
	Long: `Group the timed words into cues and write them as SRT or WebVTT. A cue
ends at a sentence end, at a pause longer than --max-gap, or when it would
exceed --max-words or --max-duration. Untimed words are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := subtitle.ParseFormat(srtFormat)
		if err != nil {
			return err
		}
		loaded, err := load(cmd.Context(), loadConfig(), args[0])
		if err != nil {
			return err
		}

		subs := subtitle.FromWords(timedWords(loaded.Words), subtitle.GroupOptions{
			MaxWords:    srtMaxWords,
			MaxDuration: srtMaxDuration,
			MaxGap:      srtMaxGap,
		})

		if srtOutput == "" || srtOutput == "-" {
			return subtitle.Write(cmd.OutOrStdout(), subs, format)
		}
		f, err := os.Create(srtOutput)
		if err != nil {
			return err
		}
		if err := subtitle.Write(f, subs, format); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func timedWords(words []readalong.Word) []subtitle.Word {
	out := make([]subtitle.Word, 0, len(words))
	for _, w := range words {
		if w.Timed {
			out = append(out, subtitle.Word{Start: w.Start, End: w.End(), Text: w.Text})
		}
	}
	return out
}

func init() {
	def := subtitle.DefaultGroupOptions()
	srtCmd.Flags().StringVarP(&srtFormat, "format", "f", "srt", "Output format: srt or vtt")
	srtCmd.Flags().StringVarP(&srtOutput, "output", "o", "", "Output file (defaults to stdout)")
	srtCmd.Flags().IntVar(&srtMaxWords, "max-words", def.MaxWords, "Most words per cue")
	srtCmd.Flags().DurationVar(&srtMaxDuration, "max-duration", def.MaxDuration, "Longest cue")
	srtCmd.Flags().DurationVar(&srtMaxGap, "max-gap", def.MaxGap, "Pause that starts a new cue")
}
