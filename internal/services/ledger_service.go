package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finpocket/internal/amqp"
	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/log"
	"finpocket/internal/seed"
	"finpocket/internal/store"
)

// EventPublisher receives an event after every successful mutation.
// *amqp.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, ev *amqp.LedgerEvent) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GoalView is a goal together with its derived progress.
type GoalView struct {
	core.Goal
	Progress ledger.Progress
}

// LedgerService orchestrates ledger operations across the store and the
// event feed. Publishing is best effort: a mutation that was stored is
// never reported as failed because its event could not be sent.
type LedgerService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Logger
	events    *log.StructuredLogger
	now       func() time.Time
	loc       *time.Location
}

type Option func(*LedgerService)

// WithPublisher enables event publishing. A nil publisher disables it.
func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithLocation sets the zone calendar periods and months are cut in.
func WithLocation(loc *time.Location) Option {
	return func(s *LedgerService) { s.loc = loc }
}

func NewLedgerService(st store.Store, opts ...Option) *LedgerService {
	s := &LedgerService{store: st, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

func (s *LedgerService) clock() time.Time {
	return s.now().In(s.loc)
}

// TransactionInput is a transaction as typed by a user.
type TransactionInput struct {
	Kind       string `json:"kind"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	OccurredAt string `json:"occurred_at"`
	Note       string `json:"note"`
}

// Draft parses the input. Format problems surface as validation errors on
// the offending field; the catalog and limits are checked by the ledger.
func (in TransactionInput) Draft() (core.TransactionDraft, error) {
	kind, err := core.ParseKind(in.Kind)
	if err != nil {
		return core.TransactionDraft{}, err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.TransactionDraft{}, core.Invalid("amount", err)
	}
	d := core.TransactionDraft{
		Kind:     kind,
		Category: core.CategoryKey(strings.TrimSpace(in.Category)),
		Amount:   amount,
		Note:     in.Note,
	}
	if strings.TrimSpace(in.OccurredAt) != "" {
		if d.OccurredAt, err = seed.ParseTimestamp(in.OccurredAt); err != nil {
			return core.TransactionDraft{}, core.Invalid("occurred_at", err)
		}
	}
	return d, nil
}

// GoalInput is a new savings goal as typed by a user.
type GoalInput struct {
	Title  string `json:"title"`
	Target string `json:"target"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

func (in GoalInput) Draft() (core.GoalDraft, error) {
	target, err := core.ParseAmount(in.Target)
	if err != nil {
		return core.GoalDraft{}, core.Invalid("target_amount", err)
	}
	return core.GoalDraft{Title: in.Title, TargetAmount: target, Icon: in.Icon, Color: in.Color}, nil
}

// AddTransaction records a transaction and publishes transaction.created.
func (s *LedgerService) AddTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	tx, err := s.store.AddTransaction(ctx, d)
	if err != nil {
		return core.Transaction{}, s.mutationError(ctx, "add transaction", err)
	}
	s.events.LogTransactionCreated(ctx, tx.ID, string(tx.Kind), string(tx.Category), tx.Amount.Cents)
	s.publish(ctx, amqp.NewTransactionCreated(tx))
	return tx, nil
}

// RemoveTransaction deletes id if present. Only an actual removal publishes.
func (s *LedgerService) RemoveTransaction(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.RemoveTransaction(ctx, id)
	if err != nil {
		return false, s.mutationError(ctx, "remove transaction", err)
	}
	s.events.LogTransactionRemoved(ctx, id, removed)
	if removed {
		s.publish(ctx, amqp.NewTransactionRemoved(id))
	}
	return removed, nil
}

func (s *LedgerService) AddGoal(ctx context.Context, d core.GoalDraft) (GoalView, error) {
	g, err := s.store.AddGoal(ctx, d)
	if err != nil {
		return GoalView{}, s.mutationError(ctx, "add goal", err)
	}
	s.events.LogGoalCreated(ctx, g.ID, g.TargetAmount.Cents)
	s.publish(ctx, amqp.NewGoalCreated(g))
	return view(g), nil
}

// Contribute adds amount to a goal. Unknown goals yield core.ErrNotFound.
func (s *LedgerService) Contribute(ctx context.Context, goalID string, amount core.Money) (GoalView, error) {
	g, err := s.store.Contribute(ctx, goalID, amount)
	if err != nil {
		return GoalView{}, s.mutationError(ctx, "contribute", err)
	}
	s.events.LogContribution(ctx, g.ID, amount.Cents, g.CurrentAmount.Cents)
	s.publish(ctx, amqp.NewGoalContributed(g, amount))
	return view(g), nil
}

// mutationError logs infrastructure failures. Validation and not-found
// errors are expected outcomes and pass through unlogged.
func (s *LedgerService) mutationError(ctx context.Context, op string, err error) error {
	if core.IsValidation(err) || errors.Is(err, core.ErrNotFound) {
		return err
	}
	s.events.LogError(ctx, "Ledger mutation failed", err, log.ComponentStorage, op, log.ErrorTypeDatabase)
	return fmt.Errorf("%s: %w", op, err)
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "Event publisher not configured, skipping event", log.FieldEventType, ev.Type)
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.events.LogError(ctx, "Failed to publish ledger event", err, log.ComponentAMQP, log.OpPublish, log.ErrorTypeNetwork)
	}
}

// Transactions returns the ledger within period, most recent first.
func (s *LedgerService) Transactions(ctx context.Context, period ledger.Period) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return ledger.FilterPeriod(txs, period, s.clock()), nil
}

func (s *LedgerService) Summary(ctx context.Context, period ledger.Period) (ledger.Totals, error) {
	txs, err := s.Transactions(ctx, period)
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.ComputeTotals(txs), nil
}

func (s *LedgerService) Breakdown(ctx context.Context, kind core.Kind, period ledger.Period) ([]ledger.CategoryShare, error) {
	if !kind.Valid() {
		return nil, core.Invalid("kind", core.ErrInvalidKind)
	}
	txs, err := s.Transactions(ctx, period)
	if err != nil {
		return nil, err
	}
	return ledger.CategoryBreakdown(txs, kind), nil
}

func (s *LedgerService) StatDetail(ctx context.Context, kind core.Kind, limit int) (ledger.StatDetail, error) {
	if !kind.Valid() {
		return ledger.StatDetail{}, core.Invalid("kind", core.ErrInvalidKind)
	}
	txs, err := s.Transactions(ctx, ledger.PeriodAll)
	if err != nil {
		return ledger.StatDetail{}, err
	}
	return ledger.ComputeStatDetail(txs, kind, limit), nil
}

func (s *LedgerService) Goals(ctx context.Context) ([]GoalView, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, view(g))
	}
	return out, nil
}

func (s *LedgerService) Goal(ctx context.Context, id string) (GoalView, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return GoalView{}, err
	}
	return view(g), nil
}

func view(g core.Goal) GoalView {
	return GoalView{Goal: g, Progress: ledger.GoalProgress(g)}
}

// MonthlyReport covers one calendar month. A zero year or month means the
// current one.
func (s *LedgerService) MonthlyReport(ctx context.Context, year int, month time.Month) (ledger.MonthlyReport, error) {
	now := s.clock()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	if month < time.January || month > time.December {
		return ledger.MonthlyReport{}, core.Invalid("month", fmt.Errorf("month %d out of range", month))
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return ledger.MonthlyReport{}, fmt.Errorf("list transactions: %w", err)
	}
	return ledger.BuildMonthlyReport(txs, year, month, s.loc), nil
}

// MaxTrendMonths bounds Trend requests.
const MaxTrendMonths = 24

func (s *LedgerService) Trend(ctx context.Context, months int) ([]ledger.MonthTotals, error) {
	if months < 1 || months > MaxTrendMonths {
		return nil, core.Invalid("months", fmt.Errorf("months must be between 1 and %d", MaxTrendMonths))
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return ledger.Trend(txs, s.clock(), months), nil
}

func (s *LedgerService) Categories(kind core.Kind) []core.Category {
	return core.Categories(kind)
}

func (s *LedgerService) Tips() []core.Tip {
	return core.Tips()
}

// Ping checks the store when it supports health checks.
func (s *LedgerService) Ping(ctx context.Context) error {
	if p, ok := s.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes the store and, when it is closable, the publisher.
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}
