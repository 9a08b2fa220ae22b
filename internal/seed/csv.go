// Package seed loads starting data for a session: transactions from CSV and
// savings goals from YAML, with built-in sample data as the fallback.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
)

// Header is the CSV header for transactions.csv.
const Header = "id,kind,category,amount,occurred_at,note"

const dateFormat = "2006-01-02"

// ParseTransactionsCSV reads transactions from r. Rows that fail to parse or
// validate are skipped and reported as messages; the rest are returned in
// file order. Rows without an id get one from newID. A row repeating an
// earlier id is skipped.
func ParseTransactionsCSV(r io.Reader, newID func() string) ([]core.Transaction, []string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []string{fmt.Sprintf("Failed to read CSV: %v", err)}
	}
	if len(records) < 2 {
		return []core.Transaction{}, nil
	}

	headers := parseHeaders(records[0])
	var (
		out  []core.Transaction
		errs []string
		seen = make(map[string]struct{}, len(records)-1)
	)
	for i, record := range records[1:] {
		rowNum := i + 2
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(record) {
				row[h] = strings.TrimSpace(record[j])
			}
		}

		t, err := mapToTransaction(row, newID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if _, dup := seen[t.ID]; dup {
			errs = append(errs, fmt.Sprintf("Row %d: duplicate id %q", rowNum, t.ID))
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, errs
}

func parseHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return headers
}

func mapToTransaction(row map[string]string, newID func() string) (core.Transaction, error) {
	kind, err := core.ParseKind(row["kind"])
	if err != nil {
		return core.Transaction{}, err
	}

	amountStr := row["amount"]
	if amountStr == "" {
		return core.Transaction{}, fmt.Errorf("missing amount")
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %s", amountStr)
	}

	dateStr := row["occurred_at"]
	if dateStr == "" {
		return core.Transaction{}, fmt.Errorf("missing occurred_at")
	}
	when, err := ParseTimestamp(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid occurred_at: %s", dateStr)
	}

	id := row["id"]
	if id == "" {
		id = newID()
	}

	return ledger.NewTransaction(core.TransactionDraft{
		Kind:       kind,
		Category:   core.CategoryKey(row["category"]),
		Amount:     amount,
		OccurredAt: when,
		Note:       row["note"],
	}, id, when)
}

// ParseTimestamp accepts a plain date (midnight UTC) or an RFC 3339
// timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// WriteTransactionsCSV writes txs to w, header included. Amounts use a plain
// decimal point without thousands separators.
func WriteTransactionsCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txs {
		rec := []string{
			t.ID,
			t.Kind.String(),
			string(t.Category),
			t.Amount.Decimal().StringFixed(2),
			t.OccurredAt.UTC().Format(time.RFC3339),
			t.Note,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatAmount is the inverse of core.ParseAmount for whole and fractional
// amounts, used in YAML output.
func formatAmount(m core.Money) string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10)
	}
	return m.Decimal().StringFixed(2)
}
