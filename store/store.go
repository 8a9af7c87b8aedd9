// Package store defines the persistence contract for expenses and properties
// and the record types that flow through it. Backends live in subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	// Malformed identifiers resolve to nothing and also produce ErrNotFound.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidDate aborts an expense write whose date is missing or not a
	// valid calendar date.
	ErrInvalidDate = errors.New("invalid date provided")
)

// ValidationError reports a field that failed a write-time constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Expense is a single household/property expense.
type Expense struct {
	ID            string    `json:"id"`
	Property      *string   `json:"property"`
	Date          time.Time `json:"date"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Amount        float64   `json:"amount"`
	Category      *string   `json:"category"`
	Description   *string   `json:"description"`
	PaidBy        string    `json:"paidBy"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Account is a service account attached to a property.
type Account struct {
	Service       string `json:"service"`
	AccountNumber string `json:"accountNumber"`
}

// Property groups the service accounts of one real-estate unit.
type Property struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Accounts  []Account `json:"accounts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExpenseFilter narrows ListExpenses. Nil fields impose no constraint.
type ExpenseFilter struct {
	Property *string
	Year     *int
	Month    *int
}

// Matches reports whether e satisfies every set field of f.
func (f ExpenseFilter) Matches(e Expense) bool {
	if f.Property != nil && (e.Property == nil || *e.Property != *f.Property) {
		return false
	}
	if f.Year != nil && e.Year != *f.Year {
		return false
	}
	if f.Month != nil && e.Month != *f.Month {
		return false
	}
	return true
}

// MonthRange is an inclusive range of calendar months.
type MonthRange struct {
	Start int
	End   int
}

// Contains reports whether month lies inside the range.
func (r MonthRange) Contains(month int) bool {
	return month >= r.Start && month <= r.End
}

// TopPayersQuery selects the expenses summed by TopPayers.
type TopPayersQuery struct {
	Year   int
	Months *MonthRange
}

// Matches reports whether e falls inside the query window.
func (q TopPayersQuery) Matches(e Expense) bool {
	if e.Year != q.Year {
		return false
	}
	return q.Months == nil || q.Months.Contains(e.Month)
}

// PropertyTotal is one row of the totals-by-property report. Expenses with
// no property are reported under a nil Property.
type PropertyTotal struct {
	Property *string `json:"property"`
	Total    float64 `json:"total"`
}

// PayerTotal is one row of the top-payers report.
type PayerTotal struct {
	PaidBy    string  `json:"paidBy"`
	TotalPaid float64 `json:"totalPaid"`
}

// ExpenseStore persists expenses and computes the aggregate reports.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e Expense) (Expense, error)
	GetExpense(ctx context.Context, id string) (Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	// UpdateExpense replaces the stored fields of e.ID with e, re-deriving
	// year and month.
	UpdateExpense(ctx context.Context, e Expense) (Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	TotalsByProperty(ctx context.Context) ([]PropertyTotal, error)
	TopPayers(ctx context.Context, q TopPayersQuery) ([]PayerTotal, error)
}

// PropertyStore persists properties and their accounts.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p Property) (Property, error)
	ListProperties(ctx context.Context) ([]Property, error)
	GetProperty(ctx context.Context, id string) (Property, error)
	AddAccount(ctx context.Context, propertyID string, a Account) (Property, error)
}

// Store is the full persistence layer.
type Store interface {
	ExpenseStore
	PropertyStore
	Ping(ctx context.Context) error
	Close() error
}
