package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"finpocket/internal/core"
)

const (
	TransactionsFile = "transactions.csv"
	GoalsFileName    = "goals.yaml"
)

// Data is the starting state of a session.
type Data struct {
	Transactions []core.Transaction // most recent first
	Goals        []core.Goal
}

// LoadDir reads TransactionsFile and GoalsFileName from dir. A missing file
// falls back to the matching sample data. Skipped CSV rows are returned as
// warnings.
func LoadDir(dir string, newID func() string) (Data, []string, error) {
	var (
		data     Data
		warnings []string
	)

	f, err := os.Open(filepath.Join(dir, TransactionsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data.Transactions = SampleTransactions()
	case err != nil:
		return Data{}, nil, fmt.Errorf("open transactions: %w", err)
	default:
		txs, rowErrs := ParseTransactionsCSV(f, newID)
		f.Close()
		data.Transactions = txs
		warnings = append(warnings, rowErrs...)
	}
	SortRecentFirst(data.Transactions)

	g, err := os.Open(filepath.Join(dir, GoalsFileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data.Goals = SampleGoals()
	case err != nil:
		return Data{}, nil, fmt.Errorf("open goals: %w", err)
	default:
		goals, err := ParseGoalsYAML(g, newID)
		g.Close()
		if err != nil {
			return Data{}, nil, err
		}
		data.Goals = goals
	}

	return data, warnings, nil
}

// SortRecentFirst orders txs by OccurredAt, newest first. Ties keep their
// relative order.
func SortRecentFirst(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt.After(txs[j].OccurredAt)
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SampleTransactions is the demo ledger shown on first launch.
func SampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "sample-1", Kind: core.Expense, Category: "food", Amount: core.Money{Cents: 45000}, OccurredAt: day(2024, time.August, 8), Note: "Lunch"},
		{ID: "sample-3", Kind: core.Expense, Category: "transport", Amount: core.Money{Cents: 12000}, OccurredAt: day(2024, time.August, 7), Note: "Taxi"},
		{ID: "sample-4", Kind: core.Expense, Category: "shopping", Amount: core.Money{Cents: 230000}, OccurredAt: day(2024, time.August, 5), Note: "Clothes"},
		{ID: "sample-2", Kind: core.Income, Category: "salary", Amount: core.Money{Cents: 2500000}, OccurredAt: day(2024, time.August, 1), Note: "Monthly salary"},
	}
}

// SampleGoals is the demo set of savings goals.
func SampleGoals() []core.Goal {
	return []core.Goal{
		{ID: "goal-1", Title: "Emergency fund", CurrentAmount: core.Money{Cents: 7500000}, TargetAmount: core.Money{Cents: 10000000}, Icon: "shield-checkmark", Color: "#3498db"},
		{ID: "goal-2", Title: "Japan trip", CurrentAmount: core.Money{Cents: 3200000}, TargetAmount: core.Money{Cents: 8000000}, Icon: "airplane", Color: "#e74c3c"},
		{ID: "goal-3", Title: "New car", CurrentAmount: core.Money{Cents: 15000000}, TargetAmount: core.Money{Cents: 50000000}, Icon: "car-sport", Color: "#2ecc71"},
	}
}
