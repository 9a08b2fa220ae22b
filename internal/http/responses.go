package http

import (
	"time"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/services"
)

// JSON views. Every amount is sent twice: exact cents for machines and a
// display string in the configured currency for people.

type categoryJSON struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type transactionJSON struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Category    categoryJSON `json:"category"`
	AmountCents int64        `json:"amount_cents"`
	Amount      string       `json:"amount"`
	OccurredAt  time.Time    `json:"occurred_at"`
	Note        string       `json:"note,omitempty"`
}

type totalsJSON struct {
	IncomeCents  int64  `json:"income_cents"`
	Income       string `json:"income"`
	ExpenseCents int64  `json:"expense_cents"`
	Expense      string `json:"expense"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
}

type shareJSON struct {
	Category    categoryJSON `json:"category"`
	AmountCents int64        `json:"amount_cents"`
	Amount      string       `json:"amount"`
	Count       int          `json:"count"`
	Percentage  int64        `json:"percentage"`
}

type summaryJSON struct {
	Period string `json:"period"`
	totalsJSON
}

type breakdownJSON struct {
	Kind   string      `json:"kind"`
	Period string      `json:"period"`
	Shares []shareJSON `json:"shares"`
}

type statDetailJSON struct {
	Kind       string            `json:"kind"`
	TotalCents int64             `json:"total_cents"`
	Total      string            `json:"total"`
	Count      int               `json:"count"`
	Recent     []transactionJSON `json:"recent"`
}

type goalJSON struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	CurrentCents       int64  `json:"current_amount_cents"`
	CurrentAmount      string `json:"current_amount"`
	TargetCents        int64  `json:"target_amount_cents"`
	TargetAmount       string `json:"target_amount"`
	RemainingCents     int64  `json:"remaining_cents"`
	Remaining          string `json:"remaining"`
	Percentage         int64  `json:"percentage"`
	PercentageExact    string `json:"percentage_exact"`
	PercentageOneDigit string `json:"percentage_one_decimal"`
	Reached            bool   `json:"reached"`
	Icon               string `json:"icon"`
	Color              string `json:"color"`
}

type monthlyReportJSON struct {
	Year     int         `json:"year"`
	Month    int         `json:"month"`
	Count    int         `json:"count"`
	Totals   totalsJSON  `json:"totals"`
	Expenses []shareJSON `json:"expenses"`
	Incomes  []shareJSON `json:"incomes"`
}

type monthTotalsJSON struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	totalsJSON
}

type tipJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// renderer turns domain values into their JSON views.
type renderer struct {
	symbol string
}

func (rn renderer) money(m core.Money) string {
	return core.FormatMoney(m, rn.symbol)
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{Key: string(c.Key), Kind: string(c.Kind), Name: c.Name, Label: c.Label, Icon: c.Icon, Color: c.Color}
}

func (rn renderer) transaction(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Category:    toCategoryJSON(core.CategoryOf(t.Kind, t.Category)),
		AmountCents: t.Amount.Cents,
		Amount:      rn.money(t.Amount),
		OccurredAt:  t.OccurredAt,
		Note:        t.Note,
	}
}

func (rn renderer) transactions(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, rn.transaction(t))
	}
	return out
}

func (rn renderer) totals(t ledger.Totals) totalsJSON {
	return totalsJSON{
		IncomeCents:  t.Income.Cents,
		Income:       rn.money(t.Income),
		ExpenseCents: t.Expense.Cents,
		Expense:      rn.money(t.Expense),
		BalanceCents: t.Balance.Cents,
		Balance:      rn.money(t.Balance),
	}
}

func (rn renderer) shares(shares []ledger.CategoryShare) []shareJSON {
	out := make([]shareJSON, 0, len(shares))
	for _, s := range shares {
		out = append(out, shareJSON{
			Category:    toCategoryJSON(s.Category),
			AmountCents: s.Amount.Cents,
			Amount:      rn.money(s.Amount),
			Count:       s.Count,
			Percentage:  s.Percentage,
		})
	}
	return out
}

func (rn renderer) statDetail(d ledger.StatDetail) statDetailJSON {
	return statDetailJSON{
		Kind:       string(d.Kind),
		TotalCents: d.Total.Cents,
		Total:      rn.money(d.Total),
		Count:      d.Count,
		Recent:     rn.transactions(d.Recent),
	}
}

func (rn renderer) goal(g services.GoalView) goalJSON {
	return goalJSON{
		ID:                 g.ID,
		Title:              g.Title,
		CurrentCents:       g.CurrentAmount.Cents,
		CurrentAmount:      rn.money(g.CurrentAmount),
		TargetCents:        g.TargetAmount.Cents,
		TargetAmount:       rn.money(g.TargetAmount),
		RemainingCents:     g.Progress.Remaining.Cents,
		Remaining:          rn.money(g.Progress.Remaining),
		Percentage:         g.Progress.Rounded(),
		PercentageExact:    g.Progress.Percentage.String(),
		PercentageOneDigit: g.Progress.OneDecimal(),
		Reached:            g.Progress.Reached(),
		Icon:               g.Icon,
		Color:              g.Color,
	}
}

func (rn renderer) goals(goals []services.GoalView) []goalJSON {
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, rn.goal(g))
	}
	return out
}

func (rn renderer) monthlyReport(r ledger.MonthlyReport) monthlyReportJSON {
	return monthlyReportJSON{
		Year:     r.Year,
		Month:    int(r.Month),
		Count:    r.Count,
		Totals:   rn.totals(r.Totals),
		Expenses: rn.shares(r.Expenses),
		Incomes:  rn.shares(r.Incomes),
	}
}

func (rn renderer) trend(months []ledger.MonthTotals) []monthTotalsJSON {
	out := make([]monthTotalsJSON, 0, len(months))
	for _, m := range months {
		out = append(out, monthTotalsJSON{Year: m.Year, Month: int(m.Month), totalsJSON: rn.totals(m.Totals)})
	}
	return out
}

func categoriesJSON(cats []core.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryJSON(c))
	}
	return out
}

func tipsJSON(tips []core.Tip) []tipJSON {
	out := make([]tipJSON, 0, len(tips))
	for _, t := range tips {
		out = append(out, tipJSON{ID: t.ID, Title: t.Title, Description: t.Description, Icon: t.Icon, Color: t.Color})
	}
	return out
}
