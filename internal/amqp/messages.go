package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finpocket/internal/core"
)

// EventType names a ledger change on the wire.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionRemoved EventType = "transaction.removed"
	EventGoalCreated        EventType = "goal.created"
	EventGoalContributed    EventType = "goal.contributed"
)

// TransactionPayload is the wire form of core.Transaction.
type TransactionPayload struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
	Note        string    `json:"note,omitempty"`
}

// GoalPayload is the wire form of core.Goal after the change.
type GoalPayload struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CurrentCents int64  `json:"current_cents"`
	TargetCents  int64  `json:"target_cents"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
}

// LedgerEvent is one state change published after a successful mutation.
// Exactly one of Transaction, TransactionID or Goal is set, by Type.
type LedgerEvent struct {
	ID                string              `json:"id"`
	Type              EventType           `json:"type"`
	Timestamp         time.Time           `json:"timestamp"`
	Transaction       *TransactionPayload `json:"transaction,omitempty"`
	TransactionID     string              `json:"transaction_id,omitempty"`
	Goal              *GoalPayload        `json:"goal,omitempty"`
	ContributionCents int64               `json:"contribution_cents,omitempty"`
}

func newEvent(t EventType) *LedgerEvent {
	return &LedgerEvent{ID: uuid.NewString(), Type: t, Timestamp: time.Now().UTC()}
}

func NewTransactionCreated(tx core.Transaction) *LedgerEvent {
	ev := newEvent(EventTransactionCreated)
	ev.Transaction = &TransactionPayload{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Category:    string(tx.Category),
		AmountCents: tx.Amount.Cents,
		OccurredAt:  tx.OccurredAt.UTC(),
		Note:        tx.Note,
	}
	return ev
}

func NewTransactionRemoved(id string) *LedgerEvent {
	ev := newEvent(EventTransactionRemoved)
	ev.TransactionID = id
	return ev
}

func NewGoalCreated(g core.Goal) *LedgerEvent {
	ev := newEvent(EventGoalCreated)
	ev.Goal = goalPayload(g)
	return ev
}

// NewGoalContributed carries the goal after the contribution was applied.
func NewGoalContributed(g core.Goal, amount core.Money) *LedgerEvent {
	ev := newEvent(EventGoalContributed)
	ev.Goal = goalPayload(g)
	ev.ContributionCents = amount.Cents
	return ev
}

func goalPayload(g core.Goal) *GoalPayload {
	return &GoalPayload{
		ID:           g.ID,
		Title:        g.Title,
		CurrentCents: g.CurrentAmount.Cents,
		TargetCents:  g.TargetAmount.Cents,
		Icon:         g.Icon,
		Color:        g.Color,
	}
}

func (p *TransactionPayload) ToTransaction() core.Transaction {
	return core.Transaction{
		ID:         p.ID,
		Kind:       core.Kind(p.Kind),
		Category:   core.CategoryKey(p.Category),
		Amount:     core.Money{Cents: p.AmountCents},
		OccurredAt: p.OccurredAt,
		Note:       p.Note,
	}
}

func (p *GoalPayload) ToGoal() core.Goal {
	return core.Goal{
		ID:            p.ID,
		Title:         p.Title,
		CurrentAmount: core.Money{Cents: p.CurrentCents},
		TargetAmount:  core.Money{Cents: p.TargetCents},
		Icon:          p.Icon,
		Color:         p.Color,
	}
}

// Validate checks that the payload required by Type is present.
func (e *LedgerEvent) Validate() error {
	switch e.Type {
	case EventTransactionCreated:
		if e.Transaction == nil || e.Transaction.ID == "" {
			return fmt.Errorf("%s event without transaction", e.Type)
		}
	case EventTransactionRemoved:
		if e.TransactionID == "" {
			return fmt.Errorf("%s event without transaction_id", e.Type)
		}
	case EventGoalCreated, EventGoalContributed:
		if e.Goal == nil || e.Goal.ID == "" {
			return fmt.Errorf("%s event without goal", e.Type)
		}
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and validates an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
