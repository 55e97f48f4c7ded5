package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/internal/matchfile"
	"github.com/okian/trueskill/pkg/metrics"
)

func newBatchCommand(c *cli) *cobra.Command {
	var (
		path      string
		noSummary bool
	)
	cmd := &cobra.Command{
		Use:   "batch -f matches.yaml",
		Short: "Evaluate every match in a match file",
		Long: `Batch evaluates the matches of a match file concurrently and prints one
line per match in file order, followed by a metrics summary. Use "-f -" to
read from stdin. The exit code is 1 when any match fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				f   *matchfile.File
				err error
			)
			if path == "-" {
				f, err = matchfile.Decode(cmd.InOrStdin())
			} else {
				f, err = matchfile.Load(path)
			}
			if err != nil {
				return err
			}

			results, runErr := c.svc.EvaluateAll(cmd.Context(), f.Matches)
			out := cmd.OutOrStdout()
			if err := writeResults(out, results); err != nil {
				return err
			}
			if !noSummary {
				if err := writeSummary(out); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return &EvaluationFailedError{Failed: failed, Total: len(results)}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "match file path, or - for stdin")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "omit the metrics summary")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func writeResults(w io.Writer, results []model.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		var err error
		if r.Err != nil {
			_, err = fmt.Fprintf(tw, "%s\t%s\terror: %v\n", r.Name, r.Mode, r.Err)
		} else {
			_, err = fmt.Fprintf(tw, "%s\t%s\t%.6f\n", r.Name, r.Mode, r.Quality)
		}
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeSummary(w io.Writer) error {
	snap, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "# metrics"); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(snap)) {
		if _, err := fmt.Fprintf(w, "%s %g\n", name, snap[name]); err != nil {
			return err
		}
	}
	return nil
}
