package store

import (
	"strings"
	"time"
)

// dateLayouts are the accepted textual forms of an expense date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDate parses a client supplied expense date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Derive returns the calendar year and month (1-12) of date, read in the
// date's own location.
func Derive(date time.Time) (year, month int, err error) {
	if date.IsZero() {
		return 0, 0, ErrInvalidDate
	}
	return date.Year(), int(date.Month()), nil
}

// DateOffset returns the UTC offset of t in seconds east of UTC. Backends
// whose date type drops the zone store it next to the instant.
func DateOffset(t time.Time) int {
	_, offset := t.Zone()
	return offset
}

// AtOffset returns the instant t read at a fixed offset of offset seconds.
func AtOffset(t time.Time, offset int) time.Time {
	if offset == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", offset))
}

// Derive overwrites Year and Month from Date. Backends call it right before
// every insert and update.
func (e *Expense) Derive() error {
	year, month, err := Derive(e.Date)
	if err != nil {
		return err
	}
	e.Year, e.Month = year, month
	return nil
}

// Validate checks the write-time constraints of an expense.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.PaidBy) == "" {
		return &ValidationError{Field: "paidBy", Message: "paidBy is required"}
	}
	if strings.TrimSpace(e.PaymentMethod) == "" {
		return &ValidationError{Field: "paymentMethod", Message: "paymentMethod is required"}
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the write-time constraints of an account.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Service) == "" {
		return &ValidationError{Field: "service", Message: "service is required"}
	}
	if strings.TrimSpace(a.AccountNumber) == "" {
		return &ValidationError{Field: "accountNumber", Message: "accountNumber is required"}
	}
	return nil
}

// Validate checks the write-time constraints of a property.
func (p Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	for _, a := range p.Accounts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PrepareExpense validates e and derives its year and month. It is the
// common pre-write step shared by all backends.
func PrepareExpense(e *Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return e.Derive()
}
