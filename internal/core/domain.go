package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// MaxNoteLength and MaxTitleLength bound free-text fields, in characters.
const (
	MaxNoteLength  = 200
	MaxTitleLength = 100
)

type (
	// Kind tells income and expense transactions apart.
	Kind string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID         string
		Kind       Kind
		Category   CategoryKey
		Amount     Money
		OccurredAt time.Time
		Note       string
	}

	// TransactionDraft is the user input for a new transaction, before an
	// id and a timestamp are assigned.
	TransactionDraft struct {
		Kind       Kind
		Category   CategoryKey
		Amount     Money
		OccurredAt time.Time // zero means "now"
		Note       string
	}

	Goal struct {
		ID            string
		Title         string
		CurrentAmount Money
		TargetAmount  Money
		Icon          string
		Color         string
	}

	GoalDraft struct {
		Title        string
		TargetAmount Money
		Icon         string
		Color        string
	}
)

var (
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNoteTooLong     = errors.New("note too long")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long")
	ErrNotFound        = errors.New("not found")
)

// ValidationError reports which input field was rejected. It wraps one of
// the sentinel errors above so callers can match with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError for field.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", Invalid("kind", ErrInvalidKind)
	}
	return k, nil
}

// Validate requires 0 < m <= MaxAmount.
func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmount.Cents {
		return ErrInvalidAmount
	}
	return nil
}

func (d TransactionDraft) Validate() error {
	if !d.Kind.Valid() {
		return Invalid("kind", ErrInvalidKind)
	}
	if strings.TrimSpace(string(d.Category)) == "" {
		return Invalid("category", ErrEmptyCategory)
	}
	if _, ok := LookupCategory(d.Kind, d.Category); !ok {
		return Invalid("category", ErrUnknownCategory)
	}
	if err := d.Amount.Validate(); err != nil {
		return Invalid("amount", err)
	}
	if utf8.RuneCountInString(d.Note) > MaxNoteLength {
		return Invalid("note", ErrNoteTooLong)
	}
	return nil
}

func (d GoalDraft) Validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Invalid("title", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Invalid("title", ErrTitleTooLong)
	}
	if err := d.TargetAmount.Validate(); err != nil {
		return Invalid("target_amount", err)
	}
	return nil
}
