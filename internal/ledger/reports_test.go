package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finpocket/internal/core"
)

func at(id string, kind core.Kind, cat core.CategoryKey, amount int64, when time.Time) core.Transaction {
	t := tx(id, kind, cat, amount)
	t.OccurredAt = when
	return t
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"week", "MONTH", " 3m ", "6m", "all"} {
		_, err := ParsePeriod(s)
		assert.NoError(t, err, s)
	}
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)

	_, err = ParsePeriod("year")
	assert.True(t, core.IsValidation(err))
}

func TestPeriodStart(t *testing.T) {
	// Thursday 2024-08-08
	now := time.Date(2024, 8, 8, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		p    Period
		want time.Time
	}{
		{PeriodWeek, time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)},
		{PeriodMonth, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodThreeMonths, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodSixMonths, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodAll, time.Time{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.p.Start(now), string(tc.p))
	}

	// Sunday belongs to the week that started on the previous Monday.
	sunday := time.Date(2024, 8, 11, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC), PeriodWeek.Start(sunday))

	// Month arithmetic crosses the year boundary.
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), PeriodSixMonths.Start(jan))
}

func TestFilterPeriod(t *testing.T) {
	now := time.Date(2024, 8, 8, 12, 0, 0, 0, time.UTC)
	list := []core.Transaction{
		at("future", core.Expense, "food", 1, now.Add(time.Hour)),
		at("today", core.Expense, "food", 1, now.Add(-time.Hour)),
		at("monday", core.Expense, "transport", 1, time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)),
		at("aug1", core.Income, "salary", 1, time.Date(2024, 8, 1, 8, 0, 0, 0, time.UTC)),
		at("june", core.Expense, "bills", 1, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)),
		at("jan", core.Expense, "bills", 1, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
	}

	ids := func(txs []core.Transaction) []string {
		out := make([]string, 0, len(txs))
		for _, t := range txs {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []string{"today", "monday"}, ids(FilterPeriod(list, PeriodWeek, now)))
	assert.Equal(t, []string{"today", "monday", "aug1"}, ids(FilterPeriod(list, PeriodMonth, now)))
	assert.Equal(t, []string{"today", "monday", "aug1", "june"}, ids(FilterPeriod(list, PeriodThreeMonths, now)))
	assert.Equal(t, []string{"today", "monday", "aug1", "june"}, ids(FilterPeriod(list, PeriodSixMonths, now)))
	assert.Len(t, FilterPeriod(list, PeriodAll, now), len(list))
}

func TestComputeStatDetail(t *testing.T) {
	list := []core.Transaction{
		tx("1", core.Expense, "food", 450),
		tx("2", core.Income, "salary", 25000),
		tx("3", core.Expense, "transport", 120),
		tx("4", core.Expense, "shopping", 2300),
		tx("5", core.Expense, "bills", 900),
	}

	sd := ComputeStatDetail(list, core.Expense, 0)

	assert.Equal(t, core.Expense, sd.Kind)
	assert.Equal(t, baht(3770), sd.Total)
	assert.Equal(t, 4, sd.Count)
	require.Len(t, sd.Recent, DefaultStatLimit)
	assert.Equal(t, "1", sd.Recent[0].ID)
	assert.Equal(t, "4", sd.Recent[2].ID)

	income := ComputeStatDetail(list, core.Income, 10)
	assert.Equal(t, 1, income.Count)
	assert.Len(t, income.Recent, 1)

	empty := ComputeStatDetail(nil, core.Income, 3)
	assert.NotNil(t, empty.Recent)
	assert.Zero(t, empty.Count)
}

func TestBuildMonthlyReport(t *testing.T) {
	list := []core.Transaction{
		at("1", core.Expense, "food", 450, time.Date(2024, 8, 8, 12, 0, 0, 0, time.UTC)),
		at("2", core.Income, "salary", 25000, time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)),
		at("3", core.Expense, "transport", 120, time.Date(2024, 8, 7, 18, 0, 0, 0, time.UTC)),
		at("4", core.Expense, "shopping", 2300, time.Date(2024, 7, 5, 14, 0, 0, 0, time.UTC)),
	}

	r := BuildMonthlyReport(list, 2024, time.August, nil)

	assert.Equal(t, 3, r.Count)
	assert.Equal(t, baht(25000), r.Totals.Income)
	assert.Equal(t, baht(570), r.Totals.Expense)
	require.Len(t, r.Expenses, 2)
	assert.Equal(t, int64(79), r.Expenses[0].Percentage)
	assert.Equal(t, int64(21), r.Expenses[1].Percentage)
	require.Len(t, r.Incomes, 1)
	assert.Equal(t, int64(100), r.Incomes[0].Percentage)
}

func TestBuildMonthlyReport_UsesLocation(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*3600)
	// 2024-07-31 20:00 UTC is already August 1st in Bangkok.
	list := []core.Transaction{at("1", core.Expense, "food", 100, time.Date(2024, 7, 31, 20, 0, 0, 0, time.UTC))}

	assert.Equal(t, 1, BuildMonthlyReport(list, 2024, time.August, bangkok).Count)
	assert.Equal(t, 0, BuildMonthlyReport(list, 2024, time.August, time.UTC).Count)
}

func TestTrend(t *testing.T) {
	now := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	list := []core.Transaction{
		at("1", core.Income, "salary", 25000, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		at("2", core.Expense, "food", 450, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)),
		at("3", core.Expense, "bills", 1200, time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC)),
		at("4", core.Expense, "bills", 999, time.Date(2023, 6, 28, 0, 0, 0, 0, time.UTC)),
	}

	got := Trend(list, now, 3)

	require.Len(t, got, 3)
	assert.Equal(t, 2023, got[0].Year)
	assert.Equal(t, time.December, got[0].Month)
	assert.Equal(t, baht(1200), got[0].Expense)
	assert.Equal(t, time.January, got[1].Month)
	assert.Equal(t, Totals{}, got[1].Totals)
	assert.Equal(t, time.February, got[2].Month)
	assert.Equal(t, baht(24550), got[2].Balance)

	assert.Nil(t, Trend(list, now, 0))
}
