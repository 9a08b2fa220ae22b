// Package ledger aggregates transactions and savings goals.
//
// Every function is pure: inputs are never modified, and operations that
// "mutate" a collection return a freshly allocated one. Stores own the
// current state and swap it for the returned value.
package ledger

import (
	"github.com/shopspring/decimal"

	"finpocket/internal/core"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// CategoryShare is one row of a category breakdown. Percentage is the
// share of the kind's total, rounded half-up to a whole number.
type CategoryShare struct {
	Category   core.Category
	Amount     core.Money
	Count      int
	Percentage int64
}

// ComputeTotals sums income and expense amounts. Balance may be negative.
func ComputeTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// CategoryBreakdown groups the transactions of kind by category key.
// Groups appear in the order their category is first seen in txs.
func CategoryBreakdown(txs []core.Transaction, kind core.Kind) []CategoryShare {
	var (
		order []core.CategoryKey
		byKey = make(map[core.CategoryKey]*CategoryShare)
		total int64
	)
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		share, ok := byKey[tx.Category]
		if !ok {
			share = &CategoryShare{Category: core.CategoryOf(kind, tx.Category)}
			byKey[tx.Category] = share
			order = append(order, tx.Category)
		}
		share.Amount = share.Amount.Add(tx.Amount)
		share.Count++
		total += tx.Amount.Cents
	}

	out := make([]CategoryShare, 0, len(order))
	for _, key := range order {
		share := *byKey[key]
		share.Percentage = percentOf(share.Amount.Cents, total)
		out = append(out, share)
	}
	return out
}

// percentOf returns round_half_up(100 * part / total), or 0 when total is 0.
func percentOf(part, total int64) int64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart()
}
