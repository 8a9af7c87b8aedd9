package main

import (
	"errors"
	"net/http"
	"testing"

	"propertyexpenses/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetTotalsByProperty tests the GET /api/expenses/totals/byProperty endpoint
func TestGetTotalsByProperty(t *testing.T) {
	cleanupTestData()

	t.Run("should return empty list when no expenses exist", func(t *testing.T) {
		resp := makeRequest("GET", "/api/expenses/totals/byProperty", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})

	t.Run("should sum amounts once per distinct property", func(t *testing.T) {
		createTestExpense(t, strPtr("depto"), "2024-08-11", 500, "Ema")
		createTestExpense(t, strPtr("depto"), "2024-09-11", 250.5, "Agus")
		createTestExpense(t, strPtr("casa"), "2024-08-12", 300, "Juan")
		createTestExpense(t, nil, "2024-08-13", 20, "Juan")

		resp := makeRequest("GET", "/api/expenses/totals/byProperty", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)

		var totals []store.PropertyTotal
		assertNoError(t, parseJSONResponse(resp, &totals))
		require.Len(t, totals, 3)

		byProperty := make(map[string]float64)
		var grand float64
		for _, row := range totals {
			key := "<none>"
			if row.Property != nil {
				key = *row.Property
			}
			_, seen := byProperty[key]
			assert.False(t, seen, "property %q reported twice", key)
			byProperty[key] = row.Total
			grand += row.Total
		}

		assert.Equal(t, 750.5, byProperty["depto"])
		assert.Equal(t, 300.0, byProperty["casa"])
		assert.Equal(t, 20.0, byProperty["<none>"])
		assert.Equal(t, 1070.5, grand)
	})

	t.Run("should report expenses without a property under null", func(t *testing.T) {
		resp := makeRequest("GET", "/api/expenses/totals/byProperty", nil)

		assert.Contains(t, resp.Body.String(), `"property":null`)
	})

	t.Run("should hide store failures", func(t *testing.T) {
		db = failingStore{err: errors.New("timeout")}
		defer cleanupTestData()

		resp := makeRequest("GET", "/api/expenses/totals/byProperty", nil)
		assertStatusCode(t, http.StatusInternalServerError, resp.Code)
	})
}

// TestGetTopPayers tests the GET /api/expenses/top-payers/:year endpoint
func TestGetTopPayers(t *testing.T) {
	cleanupTestData()

	createTestExpense(t, strPtr("depto"), "2024-01-10", 1000, "Juan")
	createTestExpense(t, strPtr("depto"), "2024-03-10", 300, "Agus")
	createTestExpense(t, strPtr("casa"), "2024-04-10", 400, "Agus")
	createTestExpense(t, strPtr("casa"), "2024-05-10", 400, "Ema")
	createTestExpense(t, strPtr("depto"), "2024-05-20", 50, "Juan")
	createTestExpense(t, strPtr("depto"), "2024-06-10", 100, "Ema")
	createTestExpense(t, strPtr("depto"), "2023-04-10", 9999, "Ema")

	getPayers := func(t *testing.T, url string) []store.PayerTotal {
		t.Helper()
		resp := makeRequest("GET", url, nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var payers []store.PayerTotal
		assertNoError(t, parseJSONResponse(resp, &payers))
		return payers
	}

	t.Run("should sum a whole year sorted descending", func(t *testing.T) {
		payers := getPayers(t, "/api/expenses/top-payers/2024")

		assert.Equal(t, []store.PayerTotal{
			{PaidBy: "Juan", TotalPaid: 1050},
			{PaidBy: "Agus", TotalPaid: 700},
			{PaidBy: "Ema", TotalPaid: 500},
		}, payers)
	})

	t.Run("should restrict to the inclusive month range", func(t *testing.T) {
		payers := getPayers(t, "/api/expenses/top-payers/2024?startMonth=3&endMonth=5")

		assert.Equal(t, []store.PayerTotal{
			{PaidBy: "Agus", TotalPaid: 700},
			{PaidBy: "Ema", TotalPaid: 400},
			{PaidBy: "Juan", TotalPaid: 50},
		}, payers)
	})

	t.Run("should ignore a range with only one bound", func(t *testing.T) {
		assert.Equal(t, getPayers(t, "/api/expenses/top-payers/2024"), getPayers(t, "/api/expenses/top-payers/2024?startMonth=3"))
		assert.Equal(t, getPayers(t, "/api/expenses/top-payers/2024"), getPayers(t, "/api/expenses/top-payers/2024?endMonth=5"))
	})

	t.Run("should keep payers with equal totals", func(t *testing.T) {
		payers := getPayers(t, "/api/expenses/top-payers/2024?startMonth=4&endMonth=4")
		require.Len(t, payers, 1)

		createTestExpense(t, nil, "2024-04-22", 400, "Ema")
		payers = getPayers(t, "/api/expenses/top-payers/2024?startMonth=4&endMonth=4")

		require.Len(t, payers, 2)
		assert.ElementsMatch(t, []string{"Agus", "Ema"}, []string{payers[0].PaidBy, payers[1].PaidBy})
		assert.Equal(t, 400.0, payers[0].TotalPaid)
		assert.Equal(t, 400.0, payers[1].TotalPaid)
	})

	t.Run("should return empty list for a year without expenses", func(t *testing.T) {
		resp := makeRequest("GET", "/api/expenses/top-payers/1990", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})

	t.Run("should reject a non numeric year", func(t *testing.T) {
		resp := makeRequest("GET", "/api/expenses/top-payers/last", nil)

		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		assert.Equal(t, "year must be a number", errorResp["error"])
	})

	t.Run("should reject a non numeric month", func(t *testing.T) {
		resp := makeRequest("GET", "/api/expenses/top-payers/2024?startMonth=march&endMonth=5", nil)

		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		assert.Equal(t, "startMonth must be a number", errorResp["error"])
	})
}
