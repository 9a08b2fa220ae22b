package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finpocket/internal/core"
	"finpocket/internal/seed"
	"finpocket/internal/store"
)

var _ store.Store = (*Repository)(nil)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	n := 0
	r, err := Open(filepath.Join(t.TempDir(), "data", "finpocket.db"),
		WithClock(func() time.Time { return time.Date(2024, 8, 10, 9, 30, 0, 0, time.UTC) }),
		WithIDs(func() string { n++; return fmt.Sprintf("db-%d", n) }))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRepositorySeedAndList(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	seeded, err := r.Seed(ctx, seed.Data{Transactions: seed.SampleTransactions(), Goals: seed.SampleGoals()})
	require.NoError(t, err)
	assert.True(t, seeded)

	list, err := r.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, seed.SampleTransactions(), list, "order and fields survive a round trip")

	// A second seed is skipped.
	seeded, err = r.Seed(ctx, seed.Data{Transactions: seed.SampleTransactions()})
	require.NoError(t, err)
	assert.False(t, seeded)

	goals, err := r.ListGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.SampleGoals(), goals)
}

func TestRepositoryTransactions(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	tx, err := r.AddTransaction(ctx, core.TransactionDraft{
		Kind: core.Expense, Category: "food", Amount: core.Money{Cents: 4550}, Note: " Noodles ",
	})
	require.NoError(t, err)
	assert.Equal(t, "db-1", tx.ID)
	assert.Equal(t, "Noodles", tx.Note)

	_, err = r.AddTransaction(ctx, core.TransactionDraft{Kind: core.Income, Category: "salary", Amount: core.Money{Cents: 100}})
	require.NoError(t, err)

	list, err := r.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "db-2", list[0].ID, "most recent first")
	assert.True(t, list[1].OccurredAt.Equal(tx.OccurredAt))

	_, err = r.AddTransaction(ctx, core.TransactionDraft{Kind: core.Expense, Category: "salary", Amount: core.Money{Cents: 1}})
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	removed, err := r.RemoveTransaction(ctx, "db-1")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = r.RemoveTransaction(ctx, "db-1")
	require.NoError(t, err)
	assert.False(t, removed)

	list, err = r.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepositoryGoals(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	g, err := r.AddGoal(ctx, core.GoalDraft{Title: "Camera", TargetAmount: core.Money{Cents: 2000000}})
	require.NoError(t, err)
	assert.Equal(t, "star", g.Icon)
	assert.Equal(t, "#3498db", g.Color)

	g2, err := r.AddGoal(ctx, core.GoalDraft{Title: "Lens", TargetAmount: core.Money{Cents: 500000}})
	require.NoError(t, err)
	assert.Equal(t, "trophy", g2.Icon)

	updated, err := r.Contribute(ctx, g.ID, core.Money{Cents: 250000})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), updated.CurrentAmount.Cents)

	got, err := r.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = r.Contribute(ctx, "missing", core.Money{Cents: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = r.GetGoal(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = r.Contribute(ctx, g.ID, core.Money{Cents: 0})
	assert.True(t, core.IsValidation(err))

	goals, err := r.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, g.ID, goals[0].ID)
}

func TestRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	r, err := Open(path)
	require.NoError(t, err)
	_, err = r.AddTransaction(ctx, core.TransactionDraft{Kind: core.Income, Category: "bonus", Amount: core.Money{Cents: 777}})
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = Open(path)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Ping(ctx))

	list, err := r.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(777), list[0].Amount.Cents)
}

func TestRepositoryPrivateInMemory(t *testing.T) {
	ctx := context.Background()
	r, err := Open(":memory:")
	require.NoError(t, err)
	defer r.Close()

	tx, err := r.AddTransaction(ctx, core.TransactionDraft{Kind: core.Expense, Category: "food", Amount: core.Money{Cents: 4500}})
	require.NoError(t, err)

	list, err := r.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)
}

func TestRepositoryContributionOverMaxAmount(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	g, err := r.AddGoal(ctx, core.GoalDraft{Title: "Island", TargetAmount: core.MaxAmount})
	require.NoError(t, err)
	_, err = r.Contribute(ctx, g.ID, core.MaxAmount)
	require.NoError(t, err)

	_, err = r.Contribute(ctx, g.ID, core.Money{Cents: 1})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.True(t, core.IsValidation(err))

	got, err := r.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, core.MaxAmount, got.CurrentAmount)
}
