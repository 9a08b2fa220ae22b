package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/seed"
)

// Store keeps the session ledger in process memory. It is the default
// backend; nothing survives a restart.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	goals        []core.Goal
	goalsCreated int

	newID func() string
	now   func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the UUID generator, for tests.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New returns a store holding txs (most recent first) and goals. Both
// slices are copied.
func New(txs []core.Transaction, goals []core.Goal, opts ...Option) *Store {
	s := &Store{
		transactions: append([]core.Transaction(nil), txs...),
		goals:        append([]core.Goal(nil), goals...),
		goalsCreated: len(goals),
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromFiles seeds the store from base (see seed.LoadDir). Skipped rows
// are returned as warnings for the caller to log.
func NewFromFiles(base string, opts ...Option) (*Store, []string, error) {
	s := New(nil, nil, opts...)
	data, warnings, err := seed.LoadDir(base, s.newID)
	if err != nil {
		return nil, nil, fmt.Errorf("seed memory store: %w", err)
	}
	s.transactions = data.Transactions
	s.goals = data.Goals
	s.goalsCreated = len(data.Goals)
	return s, warnings, nil
}

func (s *Store) AddTransaction(_ context.Context, d core.TransactionDraft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, tx, err := ledger.AddTransaction(s.transactions, d, s.newID(), s.now())
	if err != nil {
		return core.Transaction{}, err
	}
	s.transactions = next
	return tx, nil
}

func (s *Store) RemoveTransaction(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := ledger.RemoveTransaction(s.transactions, id)
	if removed {
		s.transactions = next
	}
	return removed, nil
}

// ListTransactions returns a copy of the ledger, most recent first.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) AddGoal(_ context.Context, d core.GoalDraft) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := ledger.NewGoal(d, s.newID(), s.goalsCreated)
	if err != nil {
		return core.Goal{}, err
	}
	s.goals = append(s.goals, g)
	s.goalsCreated++
	return g, nil
}

func (s *Store) Contribute(_ context.Context, goalID string, amount core.Money) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfGoal(goalID)
	if i < 0 {
		return core.Goal{}, core.ErrNotFound
	}
	g, err := ledger.ApplyContribution(s.goals[i], amount)
	if err != nil {
		return core.Goal{}, err
	}
	s.goals[i] = g
	return g, nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfGoal(id); i >= 0 {
		return s.goals[i], nil
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *Store) indexOfGoal(id string) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
