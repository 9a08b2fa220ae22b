// Package worker rebuilds the ledger from the AMQP event feed and reports
// periodic snapshots of it.
package worker

import (
	"context"
	"fmt"
	"sync"

	"finpocket/internal/amqp"
	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/log"
)

// Projection is the ledger as seen through events. Redelivered events are
// recognised by id and applied once.
type Projection struct {
	mu           sync.Mutex
	transactions []core.Transaction
	goals        []core.Goal
	goalIndex    map[string]int
	seen         map[string]struct{}
	applied      int
	logger       *log.Logger
}

func NewProjection(logger *log.Logger) *Projection {
	if logger == nil {
		logger = log.Discard()
	}
	return &Projection{
		goalIndex: make(map[string]int),
		seen:      make(map[string]struct{}),
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent applies ev. It has the amqp.Handler signature.
func (p *Projection) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("apply event %s: %w", ev.ID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.seen[ev.ID]; dup && ev.ID != "" {
		p.logger.DebugContext(ctx, "Skipping duplicate event", log.FieldEventID, ev.ID)
		return nil
	}

	switch ev.Type {
	case amqp.EventTransactionCreated:
		tx := ev.Transaction.ToTransaction()
		if !p.hasTransaction(tx.ID) {
			p.transactions = append([]core.Transaction{tx}, p.transactions...)
		}
	case amqp.EventTransactionRemoved:
		p.transactions, _ = ledger.RemoveTransaction(p.transactions, ev.TransactionID)
	case amqp.EventGoalCreated, amqp.EventGoalContributed:
		// Goal events carry the whole goal after the change.
		g := ev.Goal.ToGoal()
		if i, ok := p.goalIndex[g.ID]; ok {
			p.goals[i] = g
		} else {
			p.goalIndex[g.ID] = len(p.goals)
			p.goals = append(p.goals, g)
		}
	}

	if ev.ID != "" {
		p.seen[ev.ID] = struct{}{}
	}
	p.applied++
	p.logger.DebugContext(ctx, "Applied ledger event",
		log.FieldEventID, ev.ID,
		log.FieldEventType, ev.Type)
	return nil
}

func (p *Projection) hasTransaction(id string) bool {
	for _, tx := range p.transactions {
		if tx.ID == id {
			return true
		}
	}
	return false
}

// Snapshot summarises the projection at a point in time.
type Snapshot struct {
	Events       int
	Transactions int
	Totals       ledger.Totals
	Expenses     []ledger.CategoryShare
	Incomes      []ledger.CategoryShare
	Goals        []GoalStatus
}

type GoalStatus struct {
	Goal     core.Goal
	Progress ledger.Progress
}

func (p *Projection) Snapshot() Snapshot {
	p.mu.Lock()
	txs := append([]core.Transaction(nil), p.transactions...)
	goals := append([]core.Goal(nil), p.goals...)
	applied := p.applied
	p.mu.Unlock()

	s := Snapshot{
		Events:       applied,
		Transactions: len(txs),
		Totals:       ledger.ComputeTotals(txs),
		Expenses:     ledger.CategoryBreakdown(txs, core.Expense),
		Incomes:      ledger.CategoryBreakdown(txs, core.Income),
		Goals:        make([]GoalStatus, 0, len(goals)),
	}
	for _, g := range goals {
		s.Goals = append(s.Goals, GoalStatus{Goal: g, Progress: ledger.GoalProgress(g)})
	}
	return s
}
