package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"readalong-editor/internal/readalong"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate the word timings of a read-along document",
	Long: `Report words the editor would skip or that disagree with their neighbours:
missing or non-numeric timing, negative start, zero or negative duration,
overlap with the previous word and, when the audio loads, words ending
after the audio. Exits non-zero when anything is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := load(cmd.Context(), loadConfig(), args[0])
		if err != nil {
			return err
		}

		var duration float64
		if loaded.Track != nil {
			duration = loaded.Track.Duration()
		} else if loaded.AudioErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "audio not checked: %v\n", loaded.AudioErr)
		}

		problems := checkTimings(loaded.Words, duration)
		out := cmd.OutOrStdout()
		for _, p := range problems {
			fmt.Fprintln(out, p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("%d problem(s) in %d words", len(problems), len(loaded.Words))
		}
		fmt.Fprintf(out, "%d words, timings ok\n", len(loaded.Words))
		return nil
	},
}

// Problem is one finding of checkTimings.
type Problem struct {
	ID      string
	Message string
}

func (p Problem) String() string { return p.ID + ": " + p.Message }

// checkTimings lists timing problems in document order. duration is the
// audio length in seconds; zero skips the end-of-audio check.
func checkTimings(words []readalong.Word, duration float64) []Problem {
	var problems []Problem
	var prev *readalong.Word
	for i := range words {
		w := &words[i]
		switch {
		case !w.Timed:
			problems = append(problems, Problem{w.ID, "no numeric time and dur"})
			continue
		case w.Start < 0:
			problems = append(problems, Problem{w.ID, fmt.Sprintf("starts before zero (%.3f)", w.Start)})
		case w.Dur <= 0:
			problems = append(problems, Problem{w.ID, fmt.Sprintf("duration %.3f is not positive", w.Dur)})
		}
		if prev != nil && w.Start < prev.End() {
			problems = append(problems, Problem{w.ID, fmt.Sprintf("starts at %.3f, before %s ends at %.3f", w.Start, prev.ID, prev.End())})
		}
		if duration > 0 && w.End() > duration {
			problems = append(problems, Problem{w.ID, fmt.Sprintf("ends at %.3f, after the audio (%.3f)", w.End(), duration)})
		}
		prev = w
	}
	return problems
}
