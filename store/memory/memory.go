// Package memory is a process-local Store. Records are kept in insertion
// order and copied on the way in and out.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"propertyexpenses/store"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	expenses    map[string]store.Expense
	expenseIDs  []string
	properties  map[string]store.Property
	propertyIDs []string
}

func New() *Store {
	return &Store{
		now:        time.Now,
		expenses:   make(map[string]store.Expense),
		properties: make(map[string]store.Property),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) CreateExpense(_ context.Context, e store.Expense) (store.Expense, error) {
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()
	e.UpdatedAt = e.CreatedAt
	s.expenses[e.ID] = copyExpense(e)
	s.expenseIDs = append(s.expenseIDs, e.ID)
	return copyExpense(e), nil
}

func (s *Store) GetExpense(_ context.Context, id string) (store.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return store.Expense{}, store.ErrNotFound
	}
	return copyExpense(e), nil
}

func (s *Store) ListExpenses(_ context.Context, filter store.ExpenseFilter) ([]store.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Expense, 0, len(s.expenseIDs))
	for _, id := range s.expenseIDs {
		if e := s.expenses[id]; filter.Matches(e) {
			out = append(out, copyExpense(e))
		}
	}
	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, e store.Expense) (store.Expense, error) {
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.expenses[e.ID]
	if !ok {
		return store.Expense{}, store.ErrNotFound
	}
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = s.now().UTC()
	s.expenses[e.ID] = copyExpense(e)
	return copyExpense(e), nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	for i, existing := range s.expenseIDs {
		if existing == id {
			s.expenseIDs = append(s.expenseIDs[:i], s.expenseIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) TotalsByProperty(_ context.Context) ([]store.PropertyTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		totals []store.PropertyTotal
		index  = make(map[string]int)
		noProp = -1
	)
	for _, id := range s.expenseIDs {
		e := s.expenses[id]
		if e.Property == nil {
			if noProp < 0 {
				noProp = len(totals)
				totals = append(totals, store.PropertyTotal{})
			}
			totals[noProp].Total += e.Amount
			continue
		}
		i, ok := index[*e.Property]
		if !ok {
			i = len(totals)
			index[*e.Property] = i
			name := *e.Property
			totals = append(totals, store.PropertyTotal{Property: &name})
		}
		totals[i].Total += e.Amount
	}
	if totals == nil {
		totals = []store.PropertyTotal{}
	}
	return totals, nil
}

func (s *Store) TopPayers(_ context.Context, q store.TopPayersQuery) ([]store.PayerTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := []store.PayerTotal{}
	index := make(map[string]int)
	for _, id := range s.expenseIDs {
		e := s.expenses[id]
		if !q.Matches(e) {
			continue
		}
		i, ok := index[e.PaidBy]
		if !ok {
			i = len(totals)
			index[e.PaidBy] = i
			totals = append(totals, store.PayerTotal{PaidBy: e.PaidBy})
		}
		totals[i].TotalPaid += e.Amount
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalPaid > totals[j].TotalPaid
	})
	return totals, nil
}

func (s *Store) CreateProperty(_ context.Context, p store.Property) (store.Property, error) {
	if err := p.Validate(); err != nil {
		return store.Property{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.properties[p.ID] = copyProperty(p)
	s.propertyIDs = append(s.propertyIDs, p.ID)
	return copyProperty(p), nil
}

func (s *Store) ListProperties(_ context.Context) ([]store.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Property, 0, len(s.propertyIDs))
	for _, id := range s.propertyIDs {
		out = append(out, copyProperty(s.properties[id]))
	}
	return out, nil
}

func (s *Store) GetProperty(_ context.Context, id string) (store.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return store.Property{}, store.ErrNotFound
	}
	return copyProperty(p), nil
}

func (s *Store) AddAccount(_ context.Context, propertyID string, a store.Account) (store.Property, error) {
	if err := a.Validate(); err != nil {
		return store.Property{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[propertyID]
	if !ok {
		return store.Property{}, store.ErrNotFound
	}
	p = copyProperty(p)
	p.Accounts = append(p.Accounts, a)
	p.UpdatedAt = s.now().UTC()
	s.properties[propertyID] = p
	return copyProperty(p), nil
}

func copyExpense(e store.Expense) store.Expense {
	e.Property = copyString(e.Property)
	e.Category = copyString(e.Category)
	e.Description = copyString(e.Description)
	return e
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyProperty(p store.Property) store.Property {
	accounts := make([]store.Account, len(p.Accounts))
	copy(accounts, p.Accounts)
	p.Accounts = accounts
	return p
}
