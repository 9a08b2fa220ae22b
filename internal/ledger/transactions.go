package ledger

import (
	"strings"
	"time"

	"finpocket/internal/core"
)

// NewTransaction validates d and stamps it with id. A zero OccurredAt in
// the draft becomes now.
func NewTransaction(d core.TransactionDraft, id string, now time.Time) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	at := d.OccurredAt
	if at.IsZero() {
		at = now
	}
	return core.Transaction{
		ID:         id,
		Kind:       d.Kind,
		Category:   d.Category,
		Amount:     d.Amount,
		OccurredAt: at,
		Note:       strings.TrimSpace(d.Note),
	}, nil
}

// AddTransaction returns a new list with the transaction built from d at
// the front. On a validation error list is returned as is.
func AddTransaction(list []core.Transaction, d core.TransactionDraft, id string, now time.Time) ([]core.Transaction, core.Transaction, error) {
	tx, err := NewTransaction(d, id, now)
	if err != nil {
		return list, core.Transaction{}, err
	}
	out := make([]core.Transaction, 0, len(list)+1)
	out = append(out, tx)
	out = append(out, list...)
	return out, tx, nil
}

// RemoveTransaction returns a new list without the transaction id. The
// boolean reports whether anything was removed; an unknown id is a no-op.
func RemoveTransaction(list []core.Transaction, id string) ([]core.Transaction, bool) {
	out := make([]core.Transaction, 0, len(list))
	removed := false
	for _, tx := range list {
		if tx.ID == id {
			removed = true
			continue
		}
		out = append(out, tx)
	}
	return out, removed
}
