package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/seed"
	"finpocket/internal/services"
)

func newTabWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
}

func newSummaryCommand(run *runner) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and balance for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ledger.ParsePeriod(period)
			if err != nil {
				return err
			}
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				t, err := svc.Summary(ctx, p)
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd)
				fmt.Fprintf(tw, "Period\t%s\n", p)
				fmt.Fprintf(tw, "Income\t%s\n", run.money(t.Income))
				fmt.Fprintf(tw, "Expense\t%s\n", run.money(t.Expense))
				fmt.Fprintf(tw, "Balance\t%s\n", run.money(t.Balance))
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", "all", "week, month, 3m, 6m or all")
	return cmd
}

func newBreakdownCommand(run *runner) *cobra.Command {
	var period, kind string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show per-category totals and shares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ledger.ParsePeriod(period)
			if err != nil {
				return err
			}
			k, err := core.ParseKind(kind)
			if err != nil {
				return err
			}
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				shares, err := svc.Breakdown(ctx, k, p)
				if err != nil {
					return err
				}
				if len(shares) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s transactions in period %s\n", k, p)
					return nil
				}
				return writeShares(cmd, run, shares)
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", "all", "week, month, 3m, 6m or all")
	cmd.Flags().StringVar(&kind, "kind", string(core.Expense), "income or expense")
	return cmd
}

func writeShares(cmd *cobra.Command, run *runner, shares []ledger.CategoryShare) error {
	tw := newTabWriter(cmd)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tCOUNT\tSHARE")
	for _, s := range shares {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d%%\n", s.Category.Name, run.money(s.Amount), s.Count, s.Percentage)
	}
	return tw.Flush()
}

func newTransactionsCommand(run *runner) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List transactions, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ledger.ParsePeriod(period)
			if err != nil {
				return err
			}
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				txs, err := svc.Transactions(ctx, p)
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd)
				fmt.Fprintln(tw, "DATE\tKIND\tCATEGORY\tAMOUNT\tNOTE")
				for _, t := range txs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						t.OccurredAt.Format("2006-01-02"), t.Kind,
						core.CategoryOf(t.Kind, t.Category).Name, run.money(t.Amount), t.Note)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", "all", "week, month, 3m, 6m or all")
	return cmd
}

func newExportCommand(run *runner) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger as CSV, or as a seed directory readable with --data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				txs, err := svc.Transactions(ctx, ledger.PeriodAll)
				if err != nil {
					return err
				}
				if dir == "" {
					return seed.WriteTransactionsCSV(cmd.OutOrStdout(), txs)
				}

				views, err := svc.Goals(ctx)
				if err != nil {
					return err
				}
				goals := make([]core.Goal, 0, len(views))
				for _, g := range views {
					goals = append(goals, g.Goal)
				}

				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating %s: %w", dir, err)
				}
				if err := writeFile(filepath.Join(dir, seed.TransactionsFile), func(w io.Writer) error {
					return seed.WriteTransactionsCSV(w, txs)
				}); err != nil {
					return err
				}
				if err := writeFile(filepath.Join(dir, seed.GoalsFileName), func(w io.Writer) error {
					return seed.WriteGoalsYAML(w, goals)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions and %d goals to %s\n", len(txs), len(goals), dir)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write transactions.csv and goals.yaml into this directory instead of CSV to stdout")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
