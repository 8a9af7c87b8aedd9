// Package sqlite implements store.Store on an SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"propertyexpenses/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const expenseColumns = `id, property, date, year, month, amount, category, description,
	paid_by, payment_method, created_at, updated_at`

// timestamps are stored as RFC 3339 text so the original offset survives.
const timeLayout = time.RFC3339Nano

const memoryPath = ":memory:"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and migrates it.
// path may be ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests; it also
	// keeps an in-memory database on one connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (store.Expense, error) {
	var (
		e                          store.Expense
		property, category, desc   sql.NullString
		date, createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &property, &date, &e.Year, &e.Month, &e.Amount, &category, &desc,
		&e.PaidBy, &e.PaymentMethod, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return store.Expense{}, err
	}

	e.Property = stringPtr(property)
	e.Category = stringPtr(category)
	e.Description = stringPtr(desc)
	if e.Date, err = parseTime(date); err != nil {
		return store.Expense{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return store.Expense{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return store.Expense{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e store.Expense) (store.Expense, error) {
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	now := formatTime(s.now().UTC())
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, property, date, year, month, amount, category, description,
			paid_by, payment_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nullString(e.Property), formatTime(e.Date), e.Year, e.Month, e.Amount,
		nullString(e.Category), nullString(e.Description), e.PaidBy, e.PaymentMethod, now, now,
	)
	if err != nil {
		return store.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return s.GetExpense(ctx, id)
}

func (s *Store) GetExpense(ctx context.Context, id string) (store.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Expense{}, err
		}
		return store.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter store.ExpenseFilter) ([]store.Expense, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Property != nil {
		conds = append(conds, "property = ?")
		args = append(args, *filter.Property)
	}
	if filter.Year != nil {
		conds = append(conds, "year = ?")
		args = append(args, *filter.Year)
	}
	if filter.Month != nil {
		conds = append(conds, "month = ?")
		args = append(args, *filter.Month)
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]store.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) UpdateExpense(ctx context.Context, e store.Expense) (store.Expense, error) {
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET property = ?, date = ?, year = ?, month = ?, amount = ?, category = ?, description = ?,
			paid_by = ?, payment_method = ?, updated_at = ?
		WHERE id = ?`,
		nullString(e.Property), formatTime(e.Date), e.Year, e.Month, e.Amount, nullString(e.Category),
		nullString(e.Description), e.PaidBy, e.PaymentMethod, formatTime(s.now().UTC()), e.ID,
	)
	if err != nil {
		return store.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return store.Expense{}, fmt.Errorf("update expense: %w", err)
	} else if n == 0 {
		return store.Expense{}, store.ErrNotFound
	}
	return s.GetExpense(ctx, e.ID)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) TotalsByProperty(ctx context.Context) ([]store.PropertyTotal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT property, SUM(amount) FROM expenses GROUP BY property`)
	if err != nil {
		return nil, fmt.Errorf("total expenses by property: %w", err)
	}
	defer rows.Close()

	totals := make([]store.PropertyTotal, 0)
	for rows.Next() {
		var (
			property sql.NullString
			t        store.PropertyTotal
		)
		if err := rows.Scan(&property, &t.Total); err != nil {
			return nil, fmt.Errorf("scan property total: %w", err)
		}
		t.Property = stringPtr(property)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (s *Store) TopPayers(ctx context.Context, q store.TopPayersQuery) ([]store.PayerTotal, error) {
	query := `SELECT paid_by, SUM(amount) AS total_paid FROM expenses WHERE year = ?`
	args := []any{q.Year}
	if q.Months != nil {
		query += ` AND month BETWEEN ? AND ?`
		args = append(args, q.Months.Start, q.Months.End)
	}
	query += ` GROUP BY paid_by ORDER BY total_paid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top payers: %w", err)
	}
	defer rows.Close()

	totals := make([]store.PayerTotal, 0)
	for rows.Next() {
		var t store.PayerTotal
		if err := rows.Scan(&t.PaidBy, &t.TotalPaid); err != nil {
			return nil, fmt.Errorf("scan payer total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (s *Store) CreateProperty(ctx context.Context, p store.Property) (store.Property, error) {
	if err := p.Validate(); err != nil {
		return store.Property{}, err
	}

	id := uuid.NewString()
	now := formatTime(s.now().UTC())
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO properties (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			id, p.Name, now, now); err != nil {
			return err
		}
		for _, a := range p.Accounts {
			if err := insertAccount(ctx, tx, id, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return store.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return s.GetProperty(ctx, id)
}

func insertAccount(ctx context.Context, tx *sql.Tx, propertyID string, a store.Account) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO property_accounts (property_id, service, account_number) VALUES (?, ?, ?)`,
		propertyID, a.Service, a.AccountNumber)
	return err
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanProperty(row rowScanner) (store.Property, error) {
	var (
		p                    = store.Property{Accounts: []store.Account{}}
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Property{}, store.ErrNotFound
		}
		return store.Property{}, err
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return store.Property{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return store.Property{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]store.Property, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM properties ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	properties := make([]store.Property, 0)
	index := make(map[string]int)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan property: %w", err)
		}
		index[p.ID] = len(properties)
		properties = append(properties, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT property_id, service, account_number FROM property_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list property accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			propertyID string
			a          store.Account
		)
		if err := rows.Scan(&propertyID, &a.Service, &a.AccountNumber); err != nil {
			return nil, fmt.Errorf("scan property account: %w", err)
		}
		if i, ok := index[propertyID]; ok {
			properties[i].Accounts = append(properties[i].Accounts, a)
		}
	}
	return properties, rows.Err()
}

func (s *Store) GetProperty(ctx context.Context, id string) (store.Property, error) {
	p, err := scanProperty(s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM properties WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Property{}, err
		}
		return store.Property{}, fmt.Errorf("get property: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT service, account_number FROM property_accounts WHERE property_id = ? ORDER BY id`, id)
	if err != nil {
		return store.Property{}, fmt.Errorf("get property accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a store.Account
		if err := rows.Scan(&a.Service, &a.AccountNumber); err != nil {
			return store.Property{}, fmt.Errorf("scan property account: %w", err)
		}
		p.Accounts = append(p.Accounts, a)
	}
	return p, rows.Err()
}

func (s *Store) AddAccount(ctx context.Context, propertyID string, a store.Account) (store.Property, error) {
	if err := a.Validate(); err != nil {
		return store.Property{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE properties SET updated_at = ? WHERE id = ?`,
			formatTime(s.now().UTC()), propertyID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return store.ErrNotFound
		}
		return insertAccount(ctx, tx, propertyID, a)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Property{}, err
		}
		return store.Property{}, fmt.Errorf("add account: %w", err)
	}
	return s.GetProperty(ctx, propertyID)
}
