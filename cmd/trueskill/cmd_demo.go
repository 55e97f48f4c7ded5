package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/trueskill/internal/domain/quality"
	"github.com/okian/trueskill/internal/domain/rating"
)

func newDemoCommand() *cobra.Command {
	var groups int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the free-for-all pair order and the quality of two default players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, quality.Pairs(groups)); err != nil {
				return err
			}
			a := []rating.Rating{rating.New(rating.DefaultMu, 5)}
			b := []rating.Rating{rating.New(rating.DefaultMu, 5)}
			q, err := quality.Quality1vs1(a, b, nil, rating.DefaultBeta)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "beta=%v, %v\n", rating.DefaultBeta, q)
			return err
		},
	}
	cmd.Flags().IntVar(&groups, "groups", 10, "number of groups whose pairs are listed")
	return cmd
}
