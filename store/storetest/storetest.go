// Package storetest holds the behavioural suite every store backend must pass.
package storetest

import (
	"context"
	"errors"
	"time"

	"propertyexpenses/store"

	"github.com/stretchr/testify/suite"
)

// Suite runs against a fresh, empty store per test.
type Suite struct {
	suite.Suite

	// NewStore returns an empty store. It is called before every test.
	NewStore func() (store.Store, error)

	// MissingID is a well formed identifier that matches no record.
	MissingID string

	store store.Store
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	st, err := s.NewStore()
	s.Require().NoError(err, "failed to create store")
	s.store = st
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func (s *Suite) newExpense(property string, date time.Time, amount float64, paidBy string) store.Expense {
	e := store.Expense{
		Date:          date,
		Amount:        amount,
		Category:      strPtr("Compras"),
		PaidBy:        paidBy,
		PaymentMethod: "Efectivo",
	}
	if property != "" {
		e.Property = strPtr(property)
	}
	return e
}

func (s *Suite) mustCreate(e store.Expense) store.Expense {
	created, err := s.store.CreateExpense(s.ctx, e)
	s.Require().NoError(err)
	return created
}

func (s *Suite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func (s *Suite) TestCreateExpenseDerivesYearAndMonth() {
	e := s.newExpense("depto", day(2024, time.August, 11), 500, "Ema")
	e.Description = strPtr("Compras Carrefour")
	e.Year, e.Month = 1990, 1

	created := s.mustCreate(e)

	s.NotEmpty(created.ID)
	s.Equal(2024, created.Year)
	s.Equal(8, created.Month)

	fetched, err := s.store.GetExpense(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, fetched.ID)
	s.Equal(2024, fetched.Year)
	s.Equal(8, fetched.Month)
	s.True(fetched.Date.Equal(e.Date), "date %v != %v", fetched.Date, e.Date)
	s.InDelta(500, fetched.Amount, 0.0001)
	s.Require().NotNil(fetched.Property)
	s.Equal("depto", *fetched.Property)
	s.Require().NotNil(fetched.Description)
	s.Equal("Compras Carrefour", *fetched.Description)
	s.Equal("Ema", fetched.PaidBy)
	s.Equal("Efectivo", fetched.PaymentMethod)
}

func (s *Suite) TestCreateExpenseWithoutOptionalFields() {
	e := store.Expense{Date: day(2024, time.January, 2), Amount: 0, PaidBy: "Agus", PaymentMethod: "Tarjeta"}

	created := s.mustCreate(e)

	fetched, err := s.store.GetExpense(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Nil(fetched.Property)
	s.Nil(fetched.Category)
	s.Nil(fetched.Description)
	s.Zero(fetched.Amount)
}

func (s *Suite) TestCreateExpenseRejectsInvalidDate() {
	e := s.newExpense("depto", time.Time{}, 500, "Ema")

	_, err := s.store.CreateExpense(s.ctx, e)
	s.ErrorIs(err, store.ErrInvalidDate)

	all, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{})
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *Suite) TestCreateExpenseRejectsMissingPayer() {
	e := s.newExpense("depto", day(2024, time.August, 11), 500, "")

	_, err := s.store.CreateExpense(s.ctx, e)
	var verr *store.ValidationError
	s.True(errors.As(err, &verr))

	all, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{})
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *Suite) TestGetExpenseNotFound() {
	_, err := s.store.GetExpense(s.ctx, s.MissingID)
	s.ErrorIs(err, store.ErrNotFound)

	_, err = s.store.GetExpense(s.ctx, "not-an-id")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestListExpensesFilters() {
	a := s.mustCreate(s.newExpense("depto", day(2024, time.August, 11), 500, "Ema"))
	b := s.mustCreate(s.newExpense("depto", day(2024, time.July, 1), 200, "Agus"))
	c := s.mustCreate(s.newExpense("casa", day(2024, time.August, 20), 300, "Ema"))
	d := s.mustCreate(s.newExpense("depto", day(2023, time.August, 3), 100, "Ema"))

	ids := func(list []store.Expense) []string {
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, e.ID)
		}
		return out
	}

	all, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{})
	s.Require().NoError(err)
	s.ElementsMatch([]string{a.ID, b.ID, c.ID, d.ID}, ids(all))

	byProperty, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{Property: strPtr("depto")})
	s.Require().NoError(err)
	s.ElementsMatch([]string{a.ID, b.ID, d.ID}, ids(byProperty))

	byYearMonth, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{Year: intPtr(2024), Month: intPtr(8)})
	s.Require().NoError(err)
	s.ElementsMatch([]string{a.ID, c.ID}, ids(byYearMonth))

	combined, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{Property: strPtr("depto"), Year: intPtr(2024), Month: intPtr(8)})
	s.Require().NoError(err)
	s.ElementsMatch([]string{a.ID}, ids(combined))

	none, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{Property: strPtr("french")})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *Suite) TestUpdateExpenseRederivesDate() {
	created := s.mustCreate(s.newExpense("depto", day(2024, time.August, 11), 500, "Ema"))

	created.Date = day(2025, time.February, 3)
	created.Amount = 550
	created.Description = strPtr("Toledo")
	created.Year, created.Month = 2024, 8

	updated, err := s.store.UpdateExpense(s.ctx, created)
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal(2025, updated.Year)
	s.Equal(2, updated.Month)

	fetched, err := s.store.GetExpense(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(2025, fetched.Year)
	s.Equal(2, fetched.Month)
	s.InDelta(550, fetched.Amount, 0.0001)
	s.Require().NotNil(fetched.Description)
	s.Equal("Toledo", *fetched.Description)
}

func (s *Suite) TestOffsetDateKeepsMonthAcrossUpdates() {
	buenosAires := time.FixedZone("UTC-3", -3*60*60)
	date := time.Date(2024, time.August, 31, 23, 30, 0, 0, buenosAires)

	created := s.mustCreate(s.newExpense("depto", date, 500, "Ema"))
	s.Equal(8, created.Month)
	s.True(created.Date.Equal(date))
	s.Equal(time.August, created.Date.Month())
	s.Equal(-3*60*60, store.DateOffset(created.Date))

	fetched, err := s.store.GetExpense(s.ctx, created.ID)
	s.Require().NoError(err)
	fetched.Amount = 1

	updated, err := s.store.UpdateExpense(s.ctx, fetched)
	s.Require().NoError(err)
	s.Equal(2024, updated.Year)
	s.Equal(8, updated.Month)
	s.Equal(time.August, updated.Date.Month())

	listed, err := s.store.ListExpenses(s.ctx, store.ExpenseFilter{Year: intPtr(2024), Month: intPtr(8)})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(created.ID, listed[0].ID)
}

func (s *Suite) TestUpdateExpenseNotFound() {
	e := s.newExpense("depto", day(2024, time.August, 11), 500, "Ema")
	e.ID = s.MissingID

	_, err := s.store.UpdateExpense(s.ctx, e)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestUpdateExpenseInvalidDateKeepsRecord() {
	created := s.mustCreate(s.newExpense("depto", day(2024, time.August, 11), 500, "Ema"))

	broken := created
	broken.Date = time.Time{}
	_, err := s.store.UpdateExpense(s.ctx, broken)
	s.ErrorIs(err, store.ErrInvalidDate)

	fetched, err := s.store.GetExpense(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(2024, fetched.Year)
	s.Equal(8, fetched.Month)
}

func (s *Suite) TestDeleteExpense() {
	created := s.mustCreate(s.newExpense("depto", day(2024, time.August, 11), 500, "Ema"))

	s.Require().NoError(s.store.DeleteExpense(s.ctx, created.ID))

	_, err := s.store.GetExpense(s.ctx, created.ID)
	s.ErrorIs(err, store.ErrNotFound)

	s.ErrorIs(s.store.DeleteExpense(s.ctx, created.ID), store.ErrNotFound)
	s.ErrorIs(s.store.DeleteExpense(s.ctx, s.MissingID), store.ErrNotFound)
}

func (s *Suite) TestTotalsByProperty() {
	s.mustCreate(s.newExpense("depto", day(2024, time.August, 11), 500, "Ema"))
	s.mustCreate(s.newExpense("depto", day(2024, time.July, 1), 250.5, "Agus"))
	s.mustCreate(s.newExpense("casa", day(2024, time.August, 20), 300, "Ema"))
	s.mustCreate(s.newExpense("", day(2024, time.August, 21), 20, "Ema"))

	totals, err := s.store.TotalsByProperty(s.ctx)
	s.Require().NoError(err)
	s.Len(totals, 3)

	byProperty := make(map[string]float64)
	var sum float64
	for _, row := range totals {
		key := "<none>"
		if row.Property != nil {
			key = *row.Property
		}
		_, dup := byProperty[key]
		s.False(dup, "property %q reported twice", key)
		byProperty[key] = row.Total
		sum += row.Total
	}

	s.InDelta(750.5, byProperty["depto"], 0.0001)
	s.InDelta(300, byProperty["casa"], 0.0001)
	s.InDelta(20, byProperty["<none>"], 0.0001)
	s.InDelta(1070.5, sum, 0.0001)
}

func (s *Suite) TestTotalsByPropertyEmpty() {
	totals, err := s.store.TotalsByProperty(s.ctx)
	s.Require().NoError(err)
	s.NotNil(totals)
	s.Empty(totals)
}

func (s *Suite) TestTopPayers() {
	s.mustCreate(s.newExpense("depto", day(2024, time.January, 5), 100, "Ema"))
	s.mustCreate(s.newExpense("depto", day(2024, time.March, 5), 700, "Agus"))
	s.mustCreate(s.newExpense("casa", day(2024, time.April, 5), 400, "Ema"))
	s.mustCreate(s.newExpense("casa", day(2024, time.May, 5), 50, "Juan"))
	s.mustCreate(s.newExpense("casa", day(2024, time.June, 5), 1000, "Juan"))
	s.mustCreate(s.newExpense("casa", day(2023, time.April, 5), 5000, "Juan"))

	rows, err := s.store.TopPayers(s.ctx, store.TopPayersQuery{Year: 2024})
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("Juan", rows[0].PaidBy)
	s.InDelta(1050, rows[0].TotalPaid, 0.0001)
	s.Equal("Agus", rows[1].PaidBy)
	s.InDelta(700, rows[1].TotalPaid, 0.0001)
	s.Equal("Ema", rows[2].PaidBy)
	s.InDelta(500, rows[2].TotalPaid, 0.0001)

	ranged, err := s.store.TopPayers(s.ctx, store.TopPayersQuery{Year: 2024, Months: &store.MonthRange{Start: 3, End: 5}})
	s.Require().NoError(err)
	s.Require().Len(ranged, 3)
	s.Equal("Agus", ranged[0].PaidBy)
	s.InDelta(700, ranged[0].TotalPaid, 0.0001)
	s.Equal("Ema", ranged[1].PaidBy)
	s.InDelta(400, ranged[1].TotalPaid, 0.0001)
	s.Equal("Juan", ranged[2].PaidBy)
	s.InDelta(50, ranged[2].TotalPaid, 0.0001)

	empty, err := s.store.TopPayers(s.ctx, store.TopPayersQuery{Year: 2030})
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *Suite) TestTopPayersTiesKeepBothPayers() {
	s.mustCreate(s.newExpense("depto", day(2024, time.January, 5), 100, "Ema"))
	s.mustCreate(s.newExpense("depto", day(2024, time.January, 6), 100, "Agus"))

	rows, err := s.store.TopPayers(s.ctx, store.TopPayersQuery{Year: 2024})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.ElementsMatch([]string{"Ema", "Agus"}, []string{rows[0].PaidBy, rows[1].PaidBy})
}

func (s *Suite) TestCreateAndListProperties() {
	empty, err := s.store.ListProperties(s.ctx)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	depto, err := s.store.CreateProperty(s.ctx, store.Property{Name: "depto"})
	s.Require().NoError(err)
	s.NotEmpty(depto.ID)
	s.NotNil(depto.Accounts)
	s.Empty(depto.Accounts)

	casa, err := s.store.CreateProperty(s.ctx, store.Property{
		Name:     "casa",
		Accounts: []store.Account{{Service: "Edesur", AccountNumber: "123"}, {Service: "Metrogas", AccountNumber: "456"}},
	})
	s.Require().NoError(err)
	s.Equal([]store.Account{{Service: "Edesur", AccountNumber: "123"}, {Service: "Metrogas", AccountNumber: "456"}}, casa.Accounts)

	all, err := s.store.ListProperties(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)

	byID := map[string]store.Property{}
	for _, p := range all {
		byID[p.ID] = p
	}
	s.Equal("depto", byID[depto.ID].Name)
	s.NotNil(byID[depto.ID].Accounts)
	s.Empty(byID[depto.ID].Accounts)
	s.Equal(casa.Accounts, byID[casa.ID].Accounts)
}

func (s *Suite) TestCreatePropertyRequiresName() {
	_, err := s.store.CreateProperty(s.ctx, store.Property{})
	var verr *store.ValidationError
	s.True(errors.As(err, &verr))
}

func (s *Suite) TestAddAccountAppendsInOrder() {
	p, err := s.store.CreateProperty(s.ctx, store.Property{
		Name:     "depto",
		Accounts: []store.Account{{Service: "Edesur", AccountNumber: "1"}},
	})
	s.Require().NoError(err)

	updated, err := s.store.AddAccount(s.ctx, p.ID, store.Account{Service: "Aysa", AccountNumber: "2"})
	s.Require().NoError(err)
	s.Equal([]store.Account{{Service: "Edesur", AccountNumber: "1"}, {Service: "Aysa", AccountNumber: "2"}}, updated.Accounts)

	// duplicates are accepted
	updated, err = s.store.AddAccount(s.ctx, p.ID, store.Account{Service: "Aysa", AccountNumber: "2"})
	s.Require().NoError(err)
	s.Len(updated.Accounts, 3)

	fetched, err := s.store.GetProperty(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(updated.Accounts, fetched.Accounts)
}

func (s *Suite) TestAddAccountToMissingProperty() {
	p, err := s.store.CreateProperty(s.ctx, store.Property{Name: "depto"})
	s.Require().NoError(err)

	_, err = s.store.AddAccount(s.ctx, s.MissingID, store.Account{Service: "Aysa", AccountNumber: "2"})
	s.ErrorIs(err, store.ErrNotFound)

	_, err = s.store.AddAccount(s.ctx, "not-an-id", store.Account{Service: "Aysa", AccountNumber: "2"})
	s.ErrorIs(err, store.ErrNotFound)

	all, err := s.store.ListProperties(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(p.ID, all[0].ID)
	s.Empty(all[0].Accounts)
}
