package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finpocket/internal/core"
	"finpocket/internal/services"
)

func newGoalsCommand(run *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List savings goals with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				goals, err := svc.Goals(ctx)
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd)
				fmt.Fprintln(tw, "GOAL\tSAVED\tTARGET\tREMAINING\tPROGRESS")
				for _, g := range goals {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\n",
						g.Title, run.money(g.CurrentAmount), run.money(g.TargetAmount),
						run.money(g.Progress.Remaining), g.Progress.Rounded())
				}
				return tw.Flush()
			})
		},
	}
}

// categories and tips come from the static catalog, so they need no ledger.

func newCategoriesCommand(run *runner) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the category catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []core.Kind{core.Income, core.Expense}
			if kind != "" {
				k, err := core.ParseKind(kind)
				if err != nil {
					return err
				}
				kinds = []core.Kind{k}
			}
			tw := newTabWriter(cmd)
			fmt.Fprintln(tw, "KIND\tKEY\tNAME\tLABEL")
			for _, k := range kinds {
				for _, c := range core.Categories(k) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k, c.Key, c.Name, c.Label)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "income or expense (default: both)")
	return cmd
}

func newTipsCommand(run *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Show saving tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range core.Tips() {
				fmt.Fprintf(out, "* %s\n  %s\n", t.Title, t.Description)
			}
			return nil
		},
	}
}
