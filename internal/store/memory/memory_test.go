package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"finpocket/internal/core"
	"finpocket/internal/seed"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC) }
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestMemoryStoreAddAndList(t *testing.T) {
	ctx := context.Background()
	s := New(seed.SampleTransactions(), nil, WithClock(fixedClock()), WithIDs(sequentialIDs()))

	tx, err := s.AddTransaction(ctx, core.TransactionDraft{Kind: core.Expense, Category: "bills", Amount: core.Money{Cents: 99900}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.ID != "id-1" || !tx.OccurredAt.Equal(fixedClock()()) {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	list, err := s.ListTransactions(ctx)
	if err != nil || len(list) != 5 || list[0].ID != "id-1" {
		t.Fatalf("expected new transaction first, got %d items (err=%v)", len(list), err)
	}

	// The returned slice is a copy.
	list[0].Note = "mutated"
	again, _ := s.ListTransactions(ctx)
	if again[0].Note == "mutated" {
		t.Fatalf("ListTransactions must return a copy")
	}
}

func TestMemoryStoreRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	_, err := s.AddTransaction(ctx, core.TransactionDraft{Kind: core.Expense, Category: "X", Amount: core.Money{Cents: -500}})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	list, _ := s.ListTransactions(ctx)
	if len(list) != 0 {
		t.Fatalf("state changed after rejected add: %v", list)
	}
}

func TestMemoryStoreRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(seed.SampleTransactions(), nil)

	removed, err := s.RemoveTransaction(ctx, "sample-3")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = s.RemoveTransaction(ctx, "sample-3")
	if err != nil || removed {
		t.Fatalf("second removal should be a no-op, got removed=%v err=%v", removed, err)
	}
	list, _ := s.ListTransactions(ctx)
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}
}

func TestMemoryStoreGoals(t *testing.T) {
	ctx := context.Background()
	s := New(nil, seed.SampleGoals(), WithIDs(sequentialIDs()))

	g, err := s.AddGoal(ctx, core.GoalDraft{Title: "Laptop", TargetAmount: core.Money{Cents: 4500000}})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	// Three seeded goals, so the fourth palette entry applies.
	if g.ID != "id-1" || g.Icon != "rocket" || g.Color != "#f39c12" || !g.CurrentAmount.IsZero() {
		t.Fatalf("unexpected goal %+v", g)
	}

	updated, err := s.Contribute(ctx, "goal-2", core.Money{Cents: 500000})
	if err != nil || updated.CurrentAmount.Cents != 3700000 {
		t.Fatalf("unexpected contribution result %+v (err=%v)", updated, err)
	}
	got, err := s.GetGoal(ctx, "goal-2")
	if err != nil || got != updated {
		t.Fatalf("GetGoal mismatch %+v (err=%v)", got, err)
	}

	goals, _ := s.ListGoals(ctx)
	if len(goals) != 4 || goals[3].ID != "id-1" {
		t.Fatalf("goals must keep insertion order: %+v", goals)
	}
}

func TestMemoryStoreContributeErrors(t *testing.T) {
	ctx := context.Background()
	s := New(nil, seed.SampleGoals())

	if _, err := s.Contribute(ctx, "missing", core.Money{Cents: 100}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetGoal(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Contribute(ctx, "goal-1", core.Money{}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	g, _ := s.GetGoal(ctx, "goal-1")
	if g.CurrentAmount.Cents != 7500000 {
		t.Fatalf("rejected contribution changed the goal: %+v", g)
	}
}

func TestMemoryStoreConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddTransaction(ctx, core.TransactionDraft{Kind: core.Income, Category: "sales", Amount: core.Money{Cents: 100}})
		}()
	}
	wg.Wait()

	list, _ := s.ListTransactions(ctx)
	if len(list) != 50 {
		t.Fatalf("expected 50 transactions, got %d", len(list))
	}
	seen := map[string]bool{}
	for _, tx := range list {
		if seen[tx.ID] {
			t.Fatalf("duplicate id %s", tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()

	// No files -> sample data
	s, warnings, err := NewFromFiles(dir)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("unexpected result: warnings=%v err=%v", warnings, err)
	}
	goals, _ := s.ListGoals(context.Background())
	if len(goals) != 3 {
		t.Fatalf("expected sample goals, got %d", len(goals))
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite(seed.TransactionsFile, seed.Header+"\n,expense,food,12.50,2024-08-01,\n,expense,nope,1,2024-08-01,\n")
	mustWrite(seed.GoalsFileName, "goals:\n  - title: Bike\n    target: \"9,000\"\n")

	s, warnings, err = NewFromFiles(dir, WithIDs(sequentialIDs()))
	if err != nil {
		t.Fatalf("NewFromFiles: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	list, _ := s.ListTransactions(context.Background())
	if len(list) != 1 || list[0].ID != "id-1" || list[0].Amount.Cents != 1250 {
		t.Fatalf("unexpected seeded transactions %+v", list)
	}

	// The next goal continues the palette after the seeded one.
	g, err := s.AddGoal(context.Background(), core.GoalDraft{Title: "Boat", TargetAmount: core.Money{Cents: 1}})
	if err != nil || g.Icon != "trophy" {
		t.Fatalf("unexpected goal %+v (err=%v)", g, err)
	}

	mustWrite(seed.GoalsFileName, "goals: {")
	if _, _, err := NewFromFiles(dir); err == nil {
		t.Fatalf("expected error for malformed goals file")
	}
}
