package main

import (
	"fmt"
	"log/slog"

	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/pipeline"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var input, output string
	var yes bool

	cmd := &cobra.Command{
		Use:   "convert [input-file]",
		Short: "Convert a file without the interactive picker",
		Long: `Convert an Excel (.xlsx, .xls), CSV or tab-separated text file into a
Category,Value CSV.

Without --output the output filename is asked for on the terminal; a blank
answer keeps the default <input>_formatted.csv. --yes accepts the default and
skips the final "Press Enter to exit" pause.

Example: vizprep convert sales.xlsx --output chart`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" && len(args) == 1 {
				input = args[0]
			}

			cfg := loadConfig(cmd)
			logger, closeLog := newLogger(cmd, cfg.Logging)
			defer closeLog()

			out := cmd.OutOrStdout()
			src := pipeline.NewPromptSource(cmd.InOrStdin(), out, input, output, yes)

			result, err := pipeline.New(logger, cfg.Output).Run(src)
			if err != nil {
				logger.Error("Conversion failed", slog.String("error", err.Error()))
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", errors.Message(err))
			} else {
				if result.EntriesInvalid > 0 {
					fmt.Fprintf(out, "Warning: %d invalid entries skipped during final formatting.\n", result.EntriesInvalid)
				}
				fmt.Fprintf(out, "Successfully created formatted CSV file: %s\n", result.OutputFile)
			}

			if src.Prompted() {
				src.Acknowledge()
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (.xlsx, .xls, .csv, .txt)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output filename (default: <input>_formatted.csv)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept the default output name and do not pause before exiting")

	return cmd
}
