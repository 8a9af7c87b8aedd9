package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"propertyexpenses/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleStoreError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error returns its message",
			err:         &store.ValidationError{Field: "paidBy", Message: "paidBy is required"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "paidBy is required",
		},
		{
			name:        "wrapped invalid date",
			err:         fmt.Errorf("create expense: %w", store.ErrInvalidDate),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid date provided",
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("get expense: %w", store.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "anything else is internal",
			err:         errors.New("dial tcp: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := handleStoreError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestBindingErrorMessage(t *testing.T) {
	registerJSONFieldNames()

	bind := func(t *testing.T, body string, target any) error {
		t.Helper()
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return c.ShouldBindJSON(target)
	}

	t.Run("required field uses the json name", func(t *testing.T) {
		err := bind(t, `{"service":"Aysa","accountNumber":"1"}`, &AddAccountRequest{})
		require.Error(t, err)
		assert.Equal(t, "propertyId is required", bindingErrorMessage(err))
	})

	t.Run("wrong type names the field", func(t *testing.T) {
		err := bind(t, `{"amount":"500","paidBy":"Ema","paymentMethod":"Efectivo"}`, &ExpenseRequest{})
		require.Error(t, err)
		assert.Equal(t, "amount has an invalid type", bindingErrorMessage(err))
	})

	t.Run("syntax errors fall back to a generic message", func(t *testing.T) {
		err := bind(t, `{"name":`, &PropertyRequest{})
		require.Error(t, err)
		assert.Equal(t, "Invalid request body", bindingErrorMessage(err))
	})
}

func TestParseIntQuery(t *testing.T) {
	newContext := func(rawQuery string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
		return c
	}

	t.Run("absent parameter returns nil", func(t *testing.T) {
		n, err := parseIntQuery(newContext(""), "year")

		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("empty parameter returns nil", func(t *testing.T) {
		n, err := parseIntQuery(newContext("year="), "year")

		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("numeric parameter is parsed", func(t *testing.T) {
		n, err := parseIntQuery(newContext("year=2024"), "year")

		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Equal(t, 2024, *n)
	})

	t.Run("non numeric parameter is an error", func(t *testing.T) {
		_, err := parseIntQuery(newContext("month=ago"), "month")

		require.Error(t, err)
		assert.Equal(t, "month must be a number", err.Error())
	})
}

func TestExpenseUpdateRequestApply(t *testing.T) {
	original := store.Expense{
		ID:            "1",
		Property:      strPtr("depto"),
		Amount:        500,
		PaidBy:        "Ema",
		PaymentMethod: "Efectivo",
	}

	t.Run("empty request changes nothing", func(t *testing.T) {
		e := original
		require.NoError(t, ExpenseUpdateRequest{}.apply(&e))
		assert.Equal(t, original, e)
	})

	t.Run("provided fields are copied", func(t *testing.T) {
		e := original
		amount := 42.0
		require.NoError(t, ExpenseUpdateRequest{
			Amount:   &amount,
			Category: optionalString{Set: true, Value: strPtr("Servicios")},
			Date:     strPtr("2024-12-31"),
		}.apply(&e))

		assert.Equal(t, 42.0, e.Amount)
		assert.Equal(t, "Servicios", *e.Category)
		assert.Equal(t, 2024, e.Date.Year())
		assert.Equal(t, "depto", *e.Property)
	})

	t.Run("null clears optional fields and absent ones are kept", func(t *testing.T) {
		e := original
		e.Category = strPtr("Compras")

		var req ExpenseUpdateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"property":null,"description":null}`), &req))
		require.NoError(t, req.apply(&e))

		assert.Nil(t, e.Property)
		assert.Nil(t, e.Description)
		require.NotNil(t, e.Category)
		assert.Equal(t, "Compras", *e.Category)
	})

	t.Run("null on a required field changes nothing", func(t *testing.T) {
		e := original

		var req ExpenseUpdateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"paidBy":null,"amount":null}`), &req))
		require.NoError(t, req.apply(&e))

		assert.Equal(t, original, e)
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		e := original
		err := ExpenseUpdateRequest{Date: strPtr("31/12/2024")}.apply(&e)
		assert.ErrorIs(t, err, store.ErrInvalidDate)
	})
}
