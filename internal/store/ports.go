package store

import (
	"context"

	"finpocket/internal/core"
)

// Ports for the ledger state. Implementations validate through the ledger
// package and apply each mutation atomically.
type (
	TransactionWriter interface {
		AddTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error)
		// RemoveTransaction reports whether id existed. Unknown ids are not
		// an error.
		RemoveTransaction(ctx context.Context, id string) (bool, error)
	}

	// TransactionLister returns the ledger most recent first.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	GoalWriter interface {
		AddGoal(ctx context.Context, d core.GoalDraft) (core.Goal, error)
		// Contribute returns core.ErrNotFound for an unknown goal.
		Contribute(ctx context.Context, goalID string, amount core.Money) (core.Goal, error)
	}

	GoalReader interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
	}

	Store interface {
		TransactionWriter
		TransactionLister
		GoalWriter
		GoalReader
		Close() error
	}
)
