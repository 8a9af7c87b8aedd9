package main

import (
	"encoding/json"

	"propertyexpenses/store"
)

// ExpenseRequest is the body of a create expense request
type ExpenseRequest struct {
	Property      *string  `json:"property" example:"depto"`
	Date          string   `json:"date" example:"2024-08-11"`
	Amount        *float64 `json:"amount" binding:"required" example:"500"`
	Category      *string  `json:"category" example:"Compras"`
	Description   *string  `json:"description" example:"Compras Carrefour"`
	PaidBy        string   `json:"paidBy" binding:"required" example:"Ema"`
	PaymentMethod string   `json:"paymentMethod" binding:"required" example:"Efectivo"`
}

// toExpense parses the date and builds the record to store. Year and month
// are left to the store.
func (r ExpenseRequest) toExpense() (store.Expense, error) {
	date, err := store.ParseDate(r.Date)
	if err != nil {
		return store.Expense{}, err
	}
	return store.Expense{
		Property:      r.Property,
		Date:          date,
		Amount:        *r.Amount,
		Category:      r.Category,
		Description:   r.Description,
		PaidBy:        r.PaidBy,
		PaymentMethod: r.PaymentMethod,
	}, nil
}

// optionalString tells an absent field apart from an explicit null
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// ExpenseUpdateRequest is the body of a partial update. Absent fields are
// left untouched; property, category and description are cleared by null.
type ExpenseUpdateRequest struct {
	Property      optionalString `json:"property" swaggertype:"string"`
	Date          *string        `json:"date"`
	Amount        *float64       `json:"amount"`
	Category      optionalString `json:"category" swaggertype:"string"`
	Description   optionalString `json:"description" swaggertype:"string"`
	PaidBy        *string        `json:"paidBy"`
	PaymentMethod *string        `json:"paymentMethod"`
}

// apply copies the provided fields onto e
func (r ExpenseUpdateRequest) apply(e *store.Expense) error {
	if r.Date != nil {
		date, err := store.ParseDate(*r.Date)
		if err != nil {
			return err
		}
		e.Date = date
	}
	if r.Property.Set {
		e.Property = r.Property.Value
	}
	if r.Amount != nil {
		e.Amount = *r.Amount
	}
	if r.Category.Set {
		e.Category = r.Category.Value
	}
	if r.Description.Set {
		e.Description = r.Description.Value
	}
	if r.PaidBy != nil {
		e.PaidBy = *r.PaidBy
	}
	if r.PaymentMethod != nil {
		e.PaymentMethod = *r.PaymentMethod
	}
	return nil
}

// PropertyRequest is the body of a create property request
type PropertyRequest struct {
	Name     string          `json:"name" binding:"required" example:"depto"`
	Accounts []store.Account `json:"accounts"`
}

// AddAccountRequest is the body of an add account request
type AddAccountRequest struct {
	PropertyID    string `json:"propertyId" binding:"required"`
	Service       string `json:"service" binding:"required" example:"Edesur"`
	AccountNumber string `json:"accountNumber" binding:"required" example:"0012-3344"`
}
