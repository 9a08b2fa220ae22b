package ledger

import (
	"time"

	"finpocket/internal/core"
)

// StatDetail is the drill-down behind an income or expense total.
type StatDetail struct {
	Kind   core.Kind
	Total  core.Money
	Count  int
	Recent []core.Transaction
}

type MonthlyReport struct {
	Year     int
	Month    time.Month
	Totals   Totals
	Count    int
	Expenses []CategoryShare
	Incomes  []CategoryShare
}

type MonthTotals struct {
	Year  int
	Month time.Month
	Totals
}

// DefaultStatLimit is how many recent transactions a stat detail lists.
const DefaultStatLimit = 3

// ComputeStatDetail totals the transactions of kind and keeps the first
// limit of them. txs is expected most-recent-first.
func ComputeStatDetail(txs []core.Transaction, kind core.Kind, limit int) StatDetail {
	if limit <= 0 {
		limit = DefaultStatLimit
	}
	sd := StatDetail{Kind: kind, Recent: []core.Transaction{}}
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		sd.Total = sd.Total.Add(tx.Amount)
		sd.Count++
		if len(sd.Recent) < limit {
			sd.Recent = append(sd.Recent, tx)
		}
	}
	return sd
}

// inMonth keeps transactions whose timestamp falls in year/month of loc.
func inMonth(txs []core.Transaction, year int, month time.Month, loc *time.Location) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		y, m, _ := tx.OccurredAt.In(loc).Date()
		if y == year && m == month {
			out = append(out, tx)
		}
	}
	return out
}

func BuildMonthlyReport(txs []core.Transaction, year int, month time.Month, loc *time.Location) MonthlyReport {
	if loc == nil {
		loc = time.UTC
	}
	sel := inMonth(txs, year, month, loc)
	return MonthlyReport{
		Year:     year,
		Month:    month,
		Totals:   ComputeTotals(sel),
		Count:    len(sel),
		Expenses: CategoryBreakdown(sel, core.Expense),
		Incomes:  CategoryBreakdown(sel, core.Income),
	}
}

// Trend returns per-month totals for the months calendar months ending with
// now's month, oldest first. Months without transactions report zeros.
func Trend(txs []core.Transaction, now time.Time, months int) []MonthTotals {
	if months <= 0 {
		return nil
	}
	loc := now.Location()
	y, m, _ := now.Date()
	out := make([]MonthTotals, 0, months)
	for i := months - 1; i >= 0; i-- {
		first := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, loc)
		sel := inMonth(txs, first.Year(), first.Month(), loc)
		out = append(out, MonthTotals{
			Year:   first.Year(),
			Month:  first.Month(),
			Totals: ComputeTotals(sel),
		})
	}
	return out
}
