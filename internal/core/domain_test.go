package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"income", Income, true},
		{" Expense ", Expense, true},
		{"INCOME", Income, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidKind) {
			t.Fatalf("%q expected ErrInvalidKind, got %v", tc.in, err)
		}
	}
}

func TestTransactionDraftValidate(t *testing.T) {
	good := TransactionDraft{Kind: Expense, Category: "food", Amount: Money{Cents: 45000}, Note: "lunch"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		draft TransactionDraft
		field string
		want  error
	}{
		{"bad kind", TransactionDraft{Kind: "gift", Category: "food", Amount: Money{Cents: 1}}, "kind", ErrInvalidKind},
		{"empty category", TransactionDraft{Kind: Expense, Category: " ", Amount: Money{Cents: 1}}, "category", ErrEmptyCategory},
		{"category of other kind", TransactionDraft{Kind: Expense, Category: "salary", Amount: Money{Cents: 1}}, "category", ErrUnknownCategory},
		{"zero amount", TransactionDraft{Kind: Income, Category: "salary"}, "amount", ErrInvalidAmount},
		{"long note", TransactionDraft{Kind: Income, Category: "salary", Amount: Money{Cents: 1}, Note: strings.Repeat("ก", MaxNoteLength+1)}, "note", ErrNoteTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected validation error on %q, got %v", tc.field, err)
			}
		})
	}
}

func TestNoteLimitCountsCharacters(t *testing.T) {
	d := TransactionDraft{Kind: Expense, Category: "food", Amount: Money{Cents: 1}, Note: strings.Repeat("ก", MaxNoteLength)}
	if err := d.Validate(); err != nil {
		t.Fatalf("multi-byte note of %d characters should pass, got %v", MaxNoteLength, err)
	}
}

func TestMoneyValidate(t *testing.T) {
	cases := []struct {
		cents int64
		ok    bool
	}{
		{1, true},
		{MaxAmount.Cents, true},
		{0, false},
		{-1, false},
		{MaxAmount.Cents + 1, false},
		{math.MaxInt64, false},
	}
	for _, tc := range cases {
		err := Money{Cents: tc.cents}.Validate()
		if tc.ok != (err == nil) {
			t.Fatalf("%d: expected ok=%v, got %v", tc.cents, tc.ok, err)
		}
	}
}

func TestGoalDraftValidate(t *testing.T) {
	if err := (GoalDraft{Title: "Japan trip", TargetAmount: Money{Cents: 8000000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []struct {
		draft GoalDraft
		want  error
	}{
		{GoalDraft{Title: "  ", TargetAmount: Money{Cents: 1}}, ErrEmptyTitle},
		{GoalDraft{Title: strings.Repeat("x", MaxTitleLength+1), TargetAmount: Money{Cents: 1}}, ErrTitleTooLong},
		{GoalDraft{Title: "car"}, ErrInvalidAmount},
		{GoalDraft{Title: "car", TargetAmount: Money{Cents: MaxAmount.Cents + 1}}, ErrInvalidAmount},
	}
	for i, tc := range bads {
		err := tc.draft.Validate()
		if !errors.Is(err, tc.want) || !IsValidation(err) {
			t.Fatalf("case %d expected validation error %v, got %v", i, tc.want, err)
		}
	}
}

func TestCatalog(t *testing.T) {
	if got := len(Categories(Income)); got != 5 {
		t.Fatalf("expected 5 income categories, got %d", got)
	}
	if got := len(Categories(Expense)); got != 8 {
		t.Fatalf("expected 8 expense categories, got %d", got)
	}
	if Categories("other") != nil {
		t.Fatalf("expected nil for unknown kind")
	}

	c, ok := LookupCategory(Expense, "food")
	if !ok || c.Color != "#FF6B6B" || c.Icon != "restaurant" {
		t.Fatalf("unexpected food category %+v", c)
	}
	if _, ok := LookupCategory(Income, "food"); ok {
		t.Fatalf("food must not be an income category")
	}

	// Both kinds have an "other" bucket with the same label but distinct keys.
	in, _ := LookupCategory(Income, "other_income")
	ex, _ := LookupCategory(Expense, "other_expense")
	if in.Label != ex.Label || in.Key == ex.Key {
		t.Fatalf("expected shared label and distinct keys, got %+v / %+v", in, ex)
	}

	cats := Categories(Expense)
	cats[0].Label = "mutated"
	if c, _ := LookupCategory(Expense, "food"); c.Label == "mutated" {
		t.Fatalf("Categories must return a copy")
	}

	if got := CategoryOf(Expense, "legacy"); got.Label != "legacy" {
		t.Fatalf("expected fallback label, got %+v", got)
	}
}

func TestTips(t *testing.T) {
	if len(Tips()) != 3 {
		t.Fatalf("expected 3 tips, got %d", len(Tips()))
	}
}
