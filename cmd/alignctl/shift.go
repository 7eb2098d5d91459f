package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"readalong-editor/services"
)

var (
	shiftBy        float64
	shiftOutputDir string
	shiftStdout    bool
)

var shiftCmd = &cobra.Command{
	Use:   "shift <file> --by <seconds>",
	Short: "Move every word timing by a fixed offset",
	Long: `Move every word by --by seconds (negative moves earlier) and save the
document the way the editor saves it. Words pushed before zero are pinned
to zero with their duration kept. Every word needs a timing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		loaded, err := load(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}

		doc := loaded.Document
		out, err := doc.Export(doc.Timings().Shift(shiftBy))
		if err != nil {
			return err
		}
		if shiftStdout {
			_, err := cmd.OutOrStdout().Write(out.Data)
			return err
		}

		dir := cfg.OutputDirectory
		if cmd.Flags().Changed("output-dir") {
			dir = shiftOutputDir
		}
		path, err := services.NewExporter(dir).Write(doc, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "shifted %d words by %+.3fs, wrote %s\n", len(loaded.Words), shiftBy, path)
		return nil
	},
}

func init() {
	shiftCmd.Flags().Float64Var(&shiftBy, "by", 0, "Offset in seconds")
	shiftCmd.Flags().StringVarP(&shiftOutputDir, "output-dir", "o", "", "Directory to write to (defaults to the configured one, else next to the source)")
	shiftCmd.Flags().BoolVar(&shiftStdout, "stdout", false, "Print the result instead of saving it")
	shiftCmd.MarkFlagRequired("by")
}
