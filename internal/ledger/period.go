package ledger

import (
	"fmt"
	"strings"
	"time"

	"finpocket/internal/core"
)

// Period selects a window of transactions ending now.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3m"
	PeriodSixMonths   Period = "6m"
	PeriodAll         Period = "all"
)

func Periods() []Period {
	return []Period{PeriodWeek, PeriodMonth, PeriodThreeMonths, PeriodSixMonths, PeriodAll}
}

// ParsePeriod accepts the period names above; empty means all.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PeriodAll, nil
	}
	for _, known := range Periods() {
		if p == known {
			return p, nil
		}
	}
	return "", core.Invalid("period", fmt.Errorf("unknown period %q", s))
}

// Start returns the inclusive lower bound of the period in now's location.
// The zero time means unbounded.
//
// week starts on Monday; month is the calendar month; 3m and 6m also span
// the previous two and five calendar months.
func (p Period) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case PeriodThreeMonths:
		return time.Date(y, m-2, 1, 0, 0, 0, 0, loc)
	case PeriodSixMonths:
		return time.Date(y, m-5, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// FilterPeriod keeps the transactions that occurred between the start of p
// and now, preserving order.
func FilterPeriod(txs []core.Transaction, p Period, now time.Time) []core.Transaction {
	start := p.Start(now)
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !start.IsZero() && tx.OccurredAt.Before(start) {
			continue
		}
		if p != PeriodAll && tx.OccurredAt.After(now) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
