package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/internal/generator"
	"github.com/okian/trueskill/internal/matchfile"
)

type generateOptions struct {
	groups   int
	teamSize int
	matches  int
	seed     int64
	mode     string
	beta     float64
	output   string
}

func newGenerateCommand(c *cli) *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a match file of random line-ups",
		Long: `Generate writes a match file with reproducible random ratings: mu is drawn
uniformly from [20, 30) and sigma from a fixed pool. The same seed always
produces the same file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := model.ParseMode(opts.mode)
			if err != nil {
				return err
			}
			ms, err := generator.New(opts.seed).Matches(opts.matches, opts.groups, opts.teamSize, mode)
			if err != nil {
				return err
			}
			beta := opts.beta
			if !cmd.Flags().Changed("beta") {
				beta = c.cfg.Beta
			}
			f := &matchfile.File{Beta: beta, Matches: ms}
			if opts.output == "" || opts.output == "-" {
				return matchfile.Encode(cmd.OutOrStdout(), f)
			}
			return matchfile.Save(opts.output, f)
		},
	}

	cmd.Flags().IntVar(&opts.groups, "groups", 20, "teams per match")
	cmd.Flags().IntVar(&opts.teamSize, "team-size", 1, "players per team")
	cmd.Flags().IntVar(&opts.matches, "matches", 1, "number of matches")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&opts.mode, "mode", "ffa", "evaluation mode: quality or ffa")
	cmd.Flags().Float64Var(&opts.beta, "beta", 0, "beta written to the file (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default stdout)")
	return cmd
}
