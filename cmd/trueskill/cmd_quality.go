package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/trueskill/internal/domain/model"
)

func newQualityCommand(c *cli) *cobra.Command {
	return newEvaluateCommand(c, model.ModeQuality, &cobra.Command{
		Use:   "quality --team SPEC --team SPEC [--team SPEC...]",
		Short: "Joint match quality of two or more teams",
		Example: `  trueskill quality --team 25:5 --team 25:5
  trueskill quality --team red=25:5,30:4:0.5 --team blue=28:6 --beta 4`,
	})
}

func newFreeForAllCommand(c *cli) *cobra.Command {
	return newEvaluateCommand(c, model.ModeFreeForAll, &cobra.Command{
		Use:     "ffa --team SPEC --team SPEC [--team SPEC...]",
		Aliases: []string{"free-for-all"},
		Short:   "Mean pairwise match quality over every pair of teams",
		Example: `  trueskill ffa --team 25:5 --team 27:4 --team 22:6`,
	})
}

func newEvaluateCommand(c *cli, mode model.Mode, cmd *cobra.Command) *cobra.Command {
	var (
		teams []string
		beta  float64
	)
	cmd.Args = cobra.NoArgs
	cmd.Long = cmd.Short + `.

Each --team is a comma-separated list of players written mu[:sigma[:weight]],
optionally prefixed with "name=". An empty mu or a missing sigma uses the
configured default, so ":5" is a default-mu player with sigma 5.`
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		parsed, err := parseTeams(teams, defaults{mu: c.cfg.DefaultMu, sigma: c.cfg.DefaultSigma})
		if err != nil {
			return err
		}
		q, err := c.svc.Evaluate(cmd.Context(), model.Match{Name: cmd.Name(), Mode: mode, Beta: beta, Teams: parsed})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", q)
		return err
	}
	cmd.Flags().StringArrayVarP(&teams, "team", "t", nil, "team line-up (repeatable)")
	cmd.Flags().Float64Var(&beta, "beta", 0, "performance scale (default from config)")
	return cmd
}
