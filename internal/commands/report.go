package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finpocket/internal/services"
)

func newReportCommand(run *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly reports and trends",
	}
	cmd.AddCommand(newMonthlyReportCommand(run), newTrendCommand(run))
	return cmd
}

func newMonthlyReportCommand(run *runner) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Totals and category breakdowns for one calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				rep, err := svc.MonthlyReport(ctx, year, time.Month(month))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %d: %d transactions\n", rep.Month, rep.Year, rep.Count)

				tw := newTabWriter(cmd)
				fmt.Fprintf(tw, "Income\t%s\n", run.money(rep.Totals.Income))
				fmt.Fprintf(tw, "Expense\t%s\n", run.money(rep.Totals.Expense))
				fmt.Fprintf(tw, "Balance\t%s\n", run.money(rep.Totals.Balance))
				if err := tw.Flush(); err != nil {
					return err
				}

				if len(rep.Expenses) > 0 {
					fmt.Fprintln(out, "\nExpenses")
					if err := writeShares(cmd, run, rep.Expenses); err != nil {
						return err
					}
				}
				if len(rep.Incomes) > 0 {
					fmt.Fprintln(out, "\nIncome")
					if err := writeShares(cmd, run, rep.Incomes); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default: current)")
	return cmd
}

func newTrendCommand(run *runner) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Income and expense per month, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.with(cmd, func(ctx context.Context, svc *services.LedgerService) error {
				trend, err := svc.Trend(ctx, months)
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd)
				fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\tBALANCE")
				for _, m := range trend {
					fmt.Fprintf(tw, "%d-%02d\t%s\t%s\t%s\n", m.Year, int(m.Month),
						run.money(m.Income), run.money(m.Expense), run.money(m.Balance))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, fmt.Sprintf("number of months, 1-%d", services.MaxTrendMonths))
	return cmd
}
