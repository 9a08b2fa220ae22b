// Package sqlite is a Store backed by modernc.org/sqlite. By default it runs
// on a process-wide in-memory database, so like the memory backend it keeps
// nothing across restarts unless pointed at a file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finpocket/internal/core"
	"finpocket/internal/ledger"
	"finpocket/internal/seed"
)

// DefaultDSN is a named shared-cache in-memory database.
const DefaultDSN = "file:finpocket?mode=memory&cache=shared"

const timeLayout = time.RFC3339Nano

type Repository struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDs(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// Open connects to dsn and applies migrations. A plain file path gets its
// parent directory created.
func Open(dsn string, opts ...Option) (*Repository, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers and keeps an in-memory database
	// alive for the life of the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	r := &Repository{db: db, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Seed loads data into an empty database. It returns false without writing
// when any transaction or goal already exists.
func (r *Repository) Seed(ctx context.Context, data seed.Data) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM transactions) + (SELECT COUNT(*) FROM goals)`).Scan(&existing); err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	// Oldest first, so the newest transaction gets the highest seq.
	for i := len(data.Transactions) - 1; i >= 0; i-- {
		if err := insertTransaction(ctx, tx, data.Transactions[i]); err != nil {
			return false, err
		}
	}
	for _, g := range data.Goals {
		if err := insertGoal(ctx, tx, g); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}

	slog.InfoContext(ctx, "Seeded SQLite store",
		"transactions", len(data.Transactions),
		"goals", len(data.Goals))
	return true, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, t core.Transaction) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO transactions (id, kind, category, amount_cents, occurred_at, note) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), string(t.Category), t.Amount.Cents, t.OccurredAt.UTC().Format(timeLayout), t.Note)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", t.ID, err)
	}
	return nil
}

func insertGoal(ctx context.Context, db execer, g core.Goal) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO goals (id, title, current_cents, target_cents, icon, color) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.CurrentAmount.Cents, g.TargetAmount.Cents, g.Icon, g.Color)
	if err != nil {
		return fmt.Errorf("insert goal %s: %w", g.ID, err)
	}
	return nil
}

func (r *Repository) AddTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	t, err := ledger.NewTransaction(d, r.newID(), r.now())
	if err != nil {
		return core.Transaction{}, err
	}
	if err := insertTransaction(ctx, r.db, t); err != nil {
		return core.Transaction{}, err
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"kind", t.Kind,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)
	return t, nil
}

func (r *Repository) RemoveTransaction(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, category, amount_cents, occurred_at, note FROM transactions ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t        core.Transaction
			kind     string
			category string
			at       string
		)
		if err := rows.Scan(&t.ID, &kind, &category, &t.Amount.Cents, &at, &t.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		t.Category = core.CategoryKey(category)
		if t.OccurredAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", at, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) AddGoal(ctx context.Context, d core.GoalDraft) (core.Goal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin add goal: %w", err)
	}
	defer tx.Rollback()

	var created int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals`).Scan(&created); err != nil {
		return core.Goal{}, fmt.Errorf("count goals: %w", err)
	}
	g, err := ledger.NewGoal(d, r.newID(), created)
	if err != nil {
		return core.Goal{}, err
	}
	if err := insertGoal(ctx, tx, g); err != nil {
		return core.Goal{}, err
	}
	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit add goal: %w", err)
	}
	return g, nil
}

func (r *Repository) Contribute(ctx context.Context, goalID string, amount core.Money) (core.Goal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin contribute: %w", err)
	}
	defer tx.Rollback()

	g, err := scanGoal(tx.QueryRowContext(ctx, goalSelect+` WHERE id = ?`, goalID))
	if err != nil {
		return core.Goal{}, err
	}
	g, err = ledger.ApplyContribution(g, amount)
	if err != nil {
		return core.Goal{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE goals SET current_cents = ? WHERE id = ?`, g.CurrentAmount.Cents, g.ID); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit contribute: %w", err)
	}
	return g, nil
}

const goalSelect = `SELECT id, title, current_cents, target_cents, icon, color FROM goals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	err := row.Scan(&g.ID, &g.Title, &g.CurrentAmount.Cents, &g.TargetAmount.Cents, &g.Icon, &g.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	return g, nil
}

func (r *Repository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return scanGoal(r.db.QueryRowContext(ctx, goalSelect+` WHERE id = ?`, id))
}

func (r *Repository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, goalSelect+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []core.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
