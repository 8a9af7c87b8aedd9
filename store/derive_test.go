package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		d, err := ParseDate("2024-08-11")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.August, 11, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("RFC3339 keeps its offset", func(t *testing.T) {
		d, err := ParseDate("2024-01-01T01:30:00+03:00")
		require.NoError(t, err)
		assert.Equal(t, 2024, d.Year())
		assert.Equal(t, time.January, d.Month())
	})

	t.Run("fractional seconds", func(t *testing.T) {
		_, err := ParseDate("2024-08-11T00:00:00.000Z")
		require.NoError(t, err)
	})

	for _, in := range []string{"", "   ", "not-a-date", "2024-13-01", "2024-02-30", "11/08/2024"} {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := ParseDate(in)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestDerive(t *testing.T) {
	t.Run("year and month of the date", func(t *testing.T) {
		year, month, err := Derive(time.Date(2024, time.August, 11, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 2024, year)
		assert.Equal(t, 8, month)
	})

	t.Run("no timezone conversion", func(t *testing.T) {
		loc := time.FixedZone("UTC-3", -3*60*60)
		year, month, err := Derive(time.Date(2023, time.December, 31, 23, 0, 0, 0, loc))
		require.NoError(t, err)
		assert.Equal(t, 2023, year)
		assert.Equal(t, 12, month)
	})

	t.Run("zero date is invalid", func(t *testing.T) {
		_, _, err := Derive(time.Time{})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestExpenseDeriveOverwritesCallerValues(t *testing.T) {
	e := Expense{Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Year: 1999, Month: 11}

	require.NoError(t, e.Derive())

	assert.Equal(t, 2024, e.Year)
	assert.Equal(t, 3, e.Month)
}

func TestPrepareExpense(t *testing.T) {
	valid := func() Expense {
		return Expense{
			Date:          time.Date(2024, time.August, 11, 0, 0, 0, 0, time.UTC),
			Amount:        500,
			PaidBy:        "Ema",
			PaymentMethod: "Efectivo",
		}
	}

	t.Run("valid expense is derived", func(t *testing.T) {
		e := valid()
		require.NoError(t, PrepareExpense(&e))
		assert.Equal(t, 2024, e.Year)
		assert.Equal(t, 8, e.Month)
	})

	t.Run("missing payer", func(t *testing.T) {
		e := valid()
		e.PaidBy = " "
		err := PrepareExpense(&e)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "paidBy", verr.Field)
	})

	t.Run("missing payment method", func(t *testing.T) {
		e := valid()
		e.PaymentMethod = ""
		err := PrepareExpense(&e)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "paymentMethod", verr.Field)
	})

	t.Run("missing date", func(t *testing.T) {
		e := valid()
		e.Date = time.Time{}
		assert.ErrorIs(t, PrepareExpense(&e), ErrInvalidDate)
		assert.Zero(t, e.Year)
	})
}

func TestPropertyValidate(t *testing.T) {
	assert.NoError(t, Property{Name: "depto"}.Validate())

	var verr *ValidationError
	require.True(t, errors.As(Property{Name: ""}.Validate(), &verr))
	assert.Equal(t, "name", verr.Field)

	err := Property{Name: "casa", Accounts: []Account{{Service: "Edesur"}}}.Validate()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "accountNumber", verr.Field)
}

func TestFilters(t *testing.T) {
	depto := "depto"
	casa := "casa"
	year := 2024
	month := 8

	e := Expense{Property: &depto, Year: 2024, Month: 8}

	assert.True(t, ExpenseFilter{}.Matches(e))
	assert.True(t, ExpenseFilter{Property: &depto, Year: &year, Month: &month}.Matches(e))
	assert.False(t, ExpenseFilter{Property: &casa}.Matches(e))
	assert.False(t, ExpenseFilter{Property: &depto}.Matches(Expense{Year: 2024}))

	q := TopPayersQuery{Year: 2024, Months: &MonthRange{Start: 3, End: 5}}
	assert.False(t, q.Matches(Expense{Year: 2024, Month: 2}))
	assert.True(t, q.Matches(Expense{Year: 2024, Month: 3}))
	assert.True(t, q.Matches(Expense{Year: 2024, Month: 5}))
	assert.False(t, q.Matches(Expense{Year: 2023, Month: 4}))
	assert.True(t, TopPayersQuery{Year: 2024}.Matches(Expense{Year: 2024, Month: 12}))
}

func TestAtOffsetRestoresCalendarDate(t *testing.T) {
	date := time.Date(2024, time.August, 31, 23, 30, 0, 0, time.FixedZone("UTC-3", -3*60*60))
	offset := DateOffset(date)
	require.Equal(t, -3*60*60, offset)

	// what a backend that only keeps the instant hands back
	restored := AtOffset(date.UTC(), offset)

	assert.True(t, restored.Equal(date))
	year, month, err := Derive(restored)
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 8, month)

	assert.Equal(t, time.UTC, AtOffset(date, 0).Location())
}
