package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finpocket/internal/amqp"
	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/log"
	"finpocket/internal/seed"
	"finpocket/internal/store/memory"
)

var testNow = time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC)

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, ev *amqp.LedgerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func (f *fakePublisher) types() []amqp.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]amqp.EventType, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

func newService(t *testing.T, pub EventPublisher) *LedgerService {
	t.Helper()
	n := 0
	st := memory.New(seed.SampleTransactions(), seed.SampleGoals(),
		memory.WithClock(func() time.Time { return testNow }),
		memory.WithIDs(func() string { n++; return fmt.Sprintf("new-%d", n) }))
	opts := []Option{WithClock(func() time.Time { return testNow }), WithLocation(time.UTC)}
	if pub != nil {
		opts = append(opts, WithPublisher(pub))
	}
	return NewLedgerService(st, opts...)
}

func TestTransactionInputDraft(t *testing.T) {
	d, err := TransactionInput{Kind: " Expense ", Category: "food", Amount: "฿1,234.50", OccurredAt: "2024-08-09", Note: "Dinner"}.Draft()
	require.NoError(t, err)
	assert.Equal(t, core.Expense, d.Kind)
	assert.Equal(t, int64(123450), d.Amount.Cents)
	assert.Equal(t, time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC), d.OccurredAt)

	d, err = TransactionInput{Kind: "income", Category: "salary", Amount: "10"}.Draft()
	require.NoError(t, err)
	assert.True(t, d.OccurredAt.IsZero(), "blank timestamp means now")

	tests := []struct {
		name  string
		in    TransactionInput
		field string
	}{
		{"bad kind", TransactionInput{Kind: "gift", Amount: "1"}, "kind"},
		{"bad amount", TransactionInput{Kind: "income", Amount: "abc"}, "amount"},
		{"negative amount", TransactionInput{Kind: "income", Amount: "-5"}, "amount"},
		{"bad timestamp", TransactionInput{Kind: "income", Amount: "5", OccurredAt: "yesterday"}, "occurred_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Draft()
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGoalInputDraft(t *testing.T) {
	d, err := GoalInput{Title: "Bike", Target: "9,000"}.Draft()
	require.NoError(t, err)
	assert.Equal(t, int64(900000), d.TargetAmount.Cents)

	_, err = GoalInput{Title: "Bike", Target: ""}.Draft()
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "target_amount", ve.Field)
}

func TestAddTransactionPublishes(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newService(t, pub)

	tx, err := svc.AddTransaction(ctx, core.TransactionDraft{Kind: core.Expense, Category: "food", Amount: core.Money{Cents: 5000}})
	require.NoError(t, err)
	assert.Equal(t, "new-1", tx.ID)
	assert.Equal(t, []amqp.EventType{amqp.EventTransactionCreated}, pub.types())
	assert.Equal(t, "new-1", pub.events[0].Transaction.ID)

	// Rejected drafts neither store nor publish.
	_, err = svc.AddTransaction(ctx, core.TransactionDraft{Kind: core.Expense, Category: "X", Amount: core.Money{Cents: -500}})
	assert.True(t, core.IsValidation(err))
	assert.Len(t, pub.types(), 1)

	txs, err := svc.Transactions(ctx, ledger.PeriodAll)
	require.NoError(t, err)
	assert.Len(t, txs, 5)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, &fakePublisher{err: errors.New("connection refused")})

	_, err := svc.AddTransaction(ctx, core.TransactionDraft{Kind: core.Income, Category: "bonus", Amount: core.Money{Cents: 100}})
	require.NoError(t, err)

	totals, err := svc.Summary(ctx, ledger.PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, int64(2500100), totals.Income.Cents)
}

func TestServiceWithoutPublisher(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.AddGoal(context.Background(), core.GoalDraft{Title: "Phone", TargetAmount: core.Money{Cents: 100}})
	require.NoError(t, err)
}

func TestRemoveTransactionPublishesOnlyOnRemoval(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newService(t, pub)

	removed, err := svc.RemoveTransaction(ctx, "sample-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveTransaction(ctx, "sample-1")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, []amqp.EventType{amqp.EventTransactionRemoved}, pub.types())
}

func TestGoalsFlow(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newService(t, pub)

	created, err := svc.AddGoal(ctx, core.GoalDraft{Title: "  House  ", TargetAmount: core.Money{Cents: 8000000}})
	require.NoError(t, err)
	assert.Equal(t, "House", created.Title)
	assert.True(t, created.Progress.Percentage.IsZero())

	// 32,000 of 80,000 plus 5,000 is 46.25%, shown as 46.
	gv, err := svc.Contribute(ctx, "goal-2", core.Money{Cents: 500000})
	require.NoError(t, err)
	assert.Equal(t, int64(3700000), gv.CurrentAmount.Cents)
	assert.Equal(t, "46.25", gv.Progress.Percentage.String())
	assert.Equal(t, int64(46), gv.Progress.Rounded())
	assert.Equal(t, int64(4300000), gv.Progress.Remaining.Cents)

	_, err = svc.Contribute(ctx, "nope", core.Money{Cents: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Goal(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	goals, err := svc.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 4)
	assert.Equal(t, int64(75), goals[0].Progress.Rounded())

	assert.Equal(t, []amqp.EventType{amqp.EventGoalCreated, amqp.EventGoalContributed}, pub.types())
	assert.Equal(t, int64(500000), pub.events[1].ContributionCents)
}

func TestMutationsLogDomainEvents(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	st := memory.New(nil, nil, memory.WithIDs(func() string { return "g-log" }))
	svc := NewLedgerService(st, WithLogger(log.New(log.Config{Output: &buf})))

	_, err := svc.AddGoal(ctx, core.GoalDraft{Title: "Bike", TargetAmount: core.Money{Cents: 1500000}})
	require.NoError(t, err)
	_, err = svc.Contribute(ctx, "g-log", core.Money{Cents: 1000})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="Goal created"`)
	assert.Contains(t, out, "goal_id=g-log")
	assert.Contains(t, out, "target_cents=1500000")
	assert.Contains(t, out, "operation=create")
	assert.Contains(t, out, `msg="Goal contribution recorded"`)
}

func TestReadViews(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	totals, err := svc.Summary(ctx, ledger.PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, int64(2500000), totals.Income.Cents)
	assert.Equal(t, int64(287000), totals.Expense.Cents)
	assert.Equal(t, int64(2213000), totals.Balance.Cents)

	// The week of Sat 2024-08-10 starts Monday 08-05.
	week, err := svc.Summary(ctx, ledger.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, int64(0), week.Income.Cents)
	assert.Equal(t, int64(287000), week.Expense.Cents)

	shares, err := svc.Breakdown(ctx, core.Expense, ledger.PeriodMonth)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.Equal(t, core.CategoryKey("food"), shares[0].Category.Key)
	assert.Equal(t, int64(16), shares[0].Percentage)

	_, err = svc.Breakdown(ctx, core.Kind("gift"), ledger.PeriodAll)
	assert.True(t, core.IsValidation(err))

	sd, err := svc.StatDetail(ctx, core.Expense, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, sd.Count)
	require.Len(t, sd.Recent, 2)
	assert.Equal(t, "sample-1", sd.Recent[0].ID)

	report, err := svc.MonthlyReport(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, time.August, report.Month)
	assert.Equal(t, 4, report.Count)

	_, err = svc.MonthlyReport(ctx, 2024, 13)
	assert.True(t, core.IsValidation(err))

	trend, err := svc.Trend(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)
	assert.Equal(t, time.June, trend[0].Month)
	assert.Equal(t, int64(2213000), trend[2].Balance.Cents)

	_, err = svc.Trend(ctx, 0)
	assert.True(t, core.IsValidation(err))

	assert.Len(t, svc.Categories(core.Income), 5)
	assert.Len(t, svc.Tips(), 3)
	assert.NoError(t, svc.Ping(ctx))
}

func TestClose(t *testing.T) {
	pub := &fakePublisher{}
	svc := newService(t, pub)
	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}
