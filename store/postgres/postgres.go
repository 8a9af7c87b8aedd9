// Package postgres implements store.Store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"propertyexpenses/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id::text, property, date, date_offset, year, month, amount, category, description,
	paid_by, payment_method, created_at, updated_at`

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Options tune Open.
type Options struct {
	// Retries is the number of connection attempts before giving up.
	Retries int
	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration
	Logger        *slog.Logger
}

// Open connects to connString, retrying while the database comes up, and
// applies pending migrations.
func Open(ctx context.Context, connString string, opts Options) (*Store, error) {
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var (
		pool *pgxpool.Pool
		err  error
	)
	for i := 0; i < opts.Retries; i++ {
		pool, err = pgxpool.New(ctx, connString)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		opts.Logger.Warn("database connection attempt failed", "attempt", i+1, "error", err)
		if i == opts.Retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres after %d attempts: %w", opts.Retries, err)
	}
	opts.Logger.Info("connected to postgres")

	version, dirty, err := RunMigrations(connString)
	if err != nil {
		pool.Close()
		return nil, err
	}
	opts.Logger.Info("database migrations applied", "version", version, "dirty", dirty)

	return &Store{pool: pool}, nil
}

// New wraps an existing pool. The schema must already be migrated.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// parseID converts a textual id to a pgtype.UUID. Malformed ids cannot
// match any row.
func parseID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, store.ErrNotFound
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func scanExpense(row pgx.Row) (store.Expense, error) {
	var (
		e      store.Expense
		offset int
	)
	err := row.Scan(&e.ID, &e.Property, &e.Date, &offset, &e.Year, &e.Month, &e.Amount, &e.Category,
		&e.Description, &e.PaidBy, &e.PaymentMethod, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Expense{}, store.ErrNotFound
	}
	// timestamptz keeps only the instant
	e.Date = store.AtOffset(e.Date, offset)
	return e, err
}

func (s *Store) CreateExpense(ctx context.Context, e store.Expense) (store.Expense, error) {
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, property, date, date_offset, year, month, amount, category, description,
			paid_by, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+expenseColumns,
		pgtype.UUID{Bytes: uuid.New(), Valid: true}, e.Property, e.Date, store.DateOffset(e.Date), e.Year, e.Month,
		e.Amount, e.Category, e.Description, e.PaidBy, e.PaymentMethod,
	)
	created, err := scanExpense(row)
	if err != nil {
		return store.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return created, nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (store.Expense, error) {
	pgID, err := parseID(id)
	if err != nil {
		return store.Expense{}, err
	}

	e, err := scanExpense(s.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, pgID))
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
		args = append(args, *filter.Property)
		conds = append(conds, fmt.Sprintf("property = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		conds = append(conds, fmt.Sprintf("month = $%d", len(args)))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, args...)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e store.Expense) (store.Expense, error) {
	pgID, err := parseID(e.ID)
	if err != nil {
		return store.Expense{}, err
	}
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE expenses
		SET property = $2, date = $3, date_offset = $4, year = $5, month = $6, amount = $7,
			category = $8, description = $9, paid_by = $10, payment_method = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING `+expenseColumns,
		pgID, e.Property, e.Date, store.DateOffset(e.Date), e.Year, e.Month, e.Amount, e.Category,
		e.Description, e.PaidBy, e.PaymentMethod,
	)
	updated, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Expense{}, err
		}
		return store.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	pgID, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, pgID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) TotalsByProperty(ctx context.Context) ([]store.PropertyTotal, error) {
	rows, err := s.pool.Query(ctx, `SELECT property, SUM(amount) AS total FROM expenses GROUP BY property`)
	if err != nil {
		return nil, fmt.Errorf("total expenses by property: %w", err)
	}
	defer rows.Close()

	totals := make([]store.PropertyTotal, 0)
	for rows.Next() {
		var t store.PropertyTotal
		if err := rows.Scan(&t.Property, &t.Total); err != nil {
			return nil, fmt.Errorf("scan property total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (s *Store) TopPayers(ctx context.Context, q store.TopPayersQuery) ([]store.PayerTotal, error) {
	query := `SELECT paid_by, SUM(amount) AS total_paid FROM expenses WHERE year = $1`
	args := []any{q.Year}
	if q.Months != nil {
		query += ` AND month BETWEEN $2 AND $3`
		args = append(args, q.Months.Start, q.Months.End)
	}
	query += ` GROUP BY paid_by ORDER BY total_paid DESC`

	rows, err := s.pool.Query(ctx, query, args...)
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

	id := uuid.New()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO properties (id, name) VALUES ($1, $2)`,
			pgtype.UUID{Bytes: id, Valid: true}, p.Name); err != nil {
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
	return s.GetProperty(ctx, id.String())
}

func insertAccount(ctx context.Context, tx pgx.Tx, propertyID uuid.UUID, a store.Account) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO property_accounts (property_id, service, account_number) VALUES ($1, $2, $3)`,
		pgtype.UUID{Bytes: propertyID, Valid: true}, a.Service, a.AccountNumber)
	return err
}

func (s *Store) ListProperties(ctx context.Context) ([]store.Property, error) {
	rows, err := s.pool.Query(ctx, `SELECT id::text, name, created_at, updated_at FROM properties ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	properties := make([]store.Property, 0)
	index := make(map[string]int)
	for rows.Next() {
		p := store.Property{Accounts: []store.Account{}}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
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

	rows, err = s.pool.Query(ctx, `SELECT property_id::text, service, account_number FROM property_accounts ORDER BY id`)
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
	pgID, err := parseID(id)
	if err != nil {
		return store.Property{}, err
	}

	p := store.Property{Accounts: []store.Account{}}
	err = s.pool.QueryRow(ctx, `SELECT id::text, name, created_at, updated_at FROM properties WHERE id = $1`, pgID).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Property{}, store.ErrNotFound
	}
	if err != nil {
		return store.Property{}, fmt.Errorf("get property: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT service, account_number FROM property_accounts WHERE property_id = $1 ORDER BY id`, pgID)
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
	pgID, err := parseID(propertyID)
	if err != nil {
		return store.Property{}, err
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE properties SET updated_at = NOW() WHERE id = $1`, pgID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return insertAccount(ctx, tx, pgID.Bytes, a)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Property{}, err
		}
		return store.Property{}, fmt.Errorf("add account: %w", err)
	}
	return s.GetProperty(ctx, propertyID)
}
