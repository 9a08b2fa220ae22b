// Package commands implements finpocketctl, a read-mostly view of a ledger
// seeded from files or the built-in sample data.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"finpocket/internal/backend"
	"finpocket/internal/core"
	"finpocket/internal/log"
	"finpocket/internal/services"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	dataDir string
	backend string
	dsn     string
	symbol  string
}

// opener builds the ledger a command runs against.
type opener func(ctx context.Context, opts rootOptions, logger *log.Logger) (*backend.BackendResult, error)

func openBackend(ctx context.Context, opts rootOptions, logger *log.Logger) (*backend.BackendResult, error) {
	cfg := backend.Config{
		Type:      backend.BackendType(opts.backend),
		SQLiteDSN: opts.dsn,
		SeedDir:   opts.dataDir,
	}
	return backend.NewFactory(logger).CreateBackend(ctx, cfg)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openBackend)
}

func newRootCommand(open opener) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "finpocketctl",
		Short:   "Inspect a personal finance ledger from the terminal",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data", "", "seed directory with transactions.csv and goals.yaml (default: sample data)")
	flags.StringVar(&opts.backend, "backend", string(backend.MemoryBackend), "ledger backend: memory or sqlite")
	flags.StringVar(&opts.dsn, "dsn", "", "SQLite database path for the sqlite backend")
	flags.StringVar(&opts.symbol, "symbol", core.DefaultCurrencySymbol, "currency symbol for amounts")

	run := &runner{opts: opts, open: open}
	rootCmd.AddCommand(
		newSummaryCommand(run),
		newBreakdownCommand(run),
		newTransactionsCommand(run),
		newExportCommand(run),
		newGoalsCommand(run),
		newCategoriesCommand(run),
		newTipsCommand(run),
		newReportCommand(run),
	)

	return rootCmd
}

// runner opens the ledger for one command and closes it afterwards.
type runner struct {
	opts *rootOptions
	open opener
}

func (r *runner) with(cmd *cobra.Command, fn func(ctx context.Context, svc *services.LedgerService) error) error {
	opts := *r.opts
	if opts.backend == string(backend.SQLiteBackend) && opts.dsn == "" {
		return fmt.Errorf("--dsn is required with --backend=sqlite")
	}

	logger := log.New(log.Config{
		Level:     slog.LevelWarn,
		Component: log.ComponentCLI,
		Output:    cmd.ErrOrStderr(),
	})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := r.open(ctx, opts, logger)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Failed to close ledger", log.FieldError, err)
		}
	}()

	return fn(ctx, res.Service)
}

func (r *runner) money(m core.Money) string {
	return core.FormatMoney(m, r.opts.symbol)
}
