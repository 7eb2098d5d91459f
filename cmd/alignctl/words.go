package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"readalong-editor/internal/readalong"
)

var wordsCmd = &cobra.Command{
	Use:   "words <file>",
	Short: "List the words of a read-along document",
	Long: `List every w element carrying an id, in document order, with its start,
end and duration in seconds. Words without numeric timing show "-".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := load(cmd.Context(), loadConfig(), args[0])
		if err != nil {
			return err
		}
		return printWords(cmd.OutOrStdout(), loaded.Words)
	},
}

func printWords(w io.Writer, words []readalong.Word) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tEND\tDUR\tTEXT")
	for _, word := range words {
		if !word.Timed {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", word.ID, word.Text)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%s\n", word.ID, word.Start, word.End(), word.Dur, word.Text)
	}
	return tw.Flush()
}
