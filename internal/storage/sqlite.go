package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
	"expenses/internal/log"

	_ "modernc.org/sqlite"
)

const metaNextID = "next_id"

// SQLiteRepository stores the ledger in a SQLite database. Rows keep their
// ledger position so the stored order survives a round trip.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	if _, err := migrateSchema(dbPath, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements Store. A fresh database yields an empty ledger.
func (r *SQLiteRepository) Load(ctx context.Context) (*core.Ledger, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, amount, category, currency, original_amount
		FROM expenses
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	l := &core.Ledger{Expenses: []core.Expense{}}
	for rows.Next() {
		var (
			e                      core.Expense
			date, amount, original string
		)
		if err := rows.Scan(&e.ID, &date, &e.Description, &amount, &e.Category, &e.Currency, &original); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseStoredDate(date); err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		if e.Amount, err = parseStoredMoney(amount); err != nil {
			return nil, fmt.Errorf("expense %d amount: %w", e.ID, err)
		}
		if e.OriginalAmount, err = parseStoredMoney(original); err != nil {
			return nil, fmt.Errorf("expense %d original amount: %w", e.ID, err)
		}
		l.Expenses = append(l.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT value FROM ledger_meta WHERE key = ?`, metaNextID).Scan(&l.NextID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read id counter: %w", err)
	}

	r.logger.DebugContext(ctx, "Ledger loaded from SQLite", log.FieldCount, len(l.Expenses))
	return l.Normalize(), nil
}

// Save implements Store. The table is rewritten inside one transaction, so
// readers never observe a half-written ledger.
func (r *SQLiteRepository) Save(ctx context.Context, l *core.Ledger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (position, id, date, description, amount, category, currency, original_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range l.Expenses {
		_, err := stmt.ExecContext(ctx, i+1, e.ID, e.Date.String(), e.Description,
			e.Amount.String(), e.Category, e.Currency, e.OriginalAmount.String())
		if err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, metaNextID, l.NextID)
	if err != nil {
		return fmt.Errorf("write id counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Ledger saved to SQLite", log.FieldCount, len(l.Expenses))
	return nil
}

func parseStoredMoney(s string) (core.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.NewMoney(d), nil
}
