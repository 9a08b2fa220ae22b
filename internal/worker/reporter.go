package worker

import (
	"context"
	"time"

	"finpocket/internal/core"
	"finpocket/internal/log"
)

// Reporter logs a projection snapshot on a fixed interval.
type Reporter struct {
	projection *Projection
	interval   time.Duration
	symbol     string
	logger     *log.Logger
}

func NewReporter(p *Projection, interval time.Duration, symbol string, logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.Discard()
	}
	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}
	return &Reporter{
		projection: p,
		interval:   interval,
		symbol:     symbol,
		logger:     logger.WithComponent(log.ComponentWorker),
	}
}

// Run reports until ctx is done, then reports once more.
func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Report(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			r.Report(ctx)
		}
	}
}

// Report logs the current snapshot.
func (r *Reporter) Report(ctx context.Context) {
	s := r.projection.Snapshot()
	r.logger.InfoContext(ctx, "Ledger snapshot",
		log.FieldOperation, log.OpSnapshot,
		"events", s.Events,
		"transactions", s.Transactions,
		"income", core.FormatMoney(s.Totals.Income, r.symbol),
		"expense", core.FormatMoney(s.Totals.Expense, r.symbol),
		"balance", core.FormatMoney(s.Totals.Balance, r.symbol),
		"goals", len(s.Goals))

	for _, share := range s.Expenses {
		r.logger.DebugContext(ctx, "Expense category share",
			log.FieldCategory, share.Category.Key,
			log.FieldAmount, core.FormatMoney(share.Amount, r.symbol),
			"percentage", share.Percentage)
	}
	for _, g := range s.Goals {
		r.logger.DebugContext(ctx, "Goal progress",
			log.FieldGoalID, g.Goal.ID,
			"title", g.Goal.Title,
			"percentage", g.Progress.OneDecimal())
	}
}
