package main

import (
	"context"
	"net/http"
	"testing"

	"propertyexpenses/internal/events"
	"propertyexpenses/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateProperty tests the POST /api/properties endpoint
func TestCreateProperty(t *testing.T) {
	cleanupTestData()

	t.Run("should create property with empty accounts", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{
			"name": "depto",
		})

		assertStatusCode(t, http.StatusCreated, resp.Code)
		assert.Contains(t, resp.Body.String(), `"accounts":[]`)

		var property store.Property
		assertNoError(t, parseJSONResponse(resp, &property))
		assert.NotEmpty(t, property.ID)
		assert.Equal(t, "depto", property.Name)
		assert.Empty(t, property.Accounts)
	})

	t.Run("should keep accounts supplied at creation in order", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{
			"name": "casa",
			"accounts": []map[string]string{
				{"service": "Edesur", "accountNumber": "111"},
				{"service": "Metrogas", "accountNumber": "222"},
			},
		})

		assertStatusCode(t, http.StatusCreated, resp.Code)

		var property store.Property
		assertNoError(t, parseJSONResponse(resp, &property))
		assert.Equal(t, []store.Account{
			{Service: "Edesur", AccountNumber: "111"},
			{Service: "Metrogas", AccountNumber: "222"},
		}, property.Accounts)
	})

	t.Run("should fail with missing name", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		assert.Equal(t, "name is required", errorResp["error"])
	})

	t.Run("should fail with blank name", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{"name": "  "})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should fail with an incomplete account", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{
			"name":     "french",
			"accounts": []map[string]string{{"service": "Aysa"}},
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		assert.Equal(t, "accountNumber is required", errorResp["error"])
	})

	t.Run("should publish a property.created event", func(t *testing.T) {
		testPublisher.Reset()
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{"name": "quinta"})
		assertStatusCode(t, http.StatusCreated, resp.Code)

		published := testPublisher.Events()
		require.Len(t, published, 1)
		assert.Equal(t, events.PropertyCreated, published[0].Type)
	})
}

// TestGetProperties tests the GET /api/properties endpoint
func TestGetProperties(t *testing.T) {
	cleanupTestData()

	t.Run("should return empty list when no properties exist", func(t *testing.T) {
		resp := makeRequest("GET", "/api/properties", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})

	t.Run("should return every property", func(t *testing.T) {
		createTestProperty(t, "depto")
		createTestProperty(t, "casa", store.Account{Service: "Edesur", AccountNumber: "111"})

		resp := makeRequest("GET", "/api/properties", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)

		var properties []store.Property
		assertNoError(t, parseJSONResponse(resp, &properties))
		require.Len(t, properties, 2)

		names := []string{properties[0].Name, properties[1].Name}
		assert.ElementsMatch(t, []string{"depto", "casa"}, names)
	})
}

// TestAddAccountToProperty tests the POST /api/properties/account endpoint
func TestAddAccountToProperty(t *testing.T) {
	cleanupTestData()

	t.Run("should append exactly one account and keep prior ones in order", func(t *testing.T) {
		property := createTestProperty(t, "depto",
			store.Account{Service: "Edesur", AccountNumber: "111"},
			store.Account{Service: "Metrogas", AccountNumber: "222"},
		)

		resp := makeJSONRequest(t, "POST", "/api/properties/account", map[string]interface{}{
			"propertyId":    property.ID,
			"service":       "Aysa",
			"accountNumber": "333",
		})

		assertStatusCode(t, http.StatusOK, resp.Code)

		var updated store.Property
		assertNoError(t, parseJSONResponse(resp, &updated))
		assert.Equal(t, []store.Account{
			{Service: "Edesur", AccountNumber: "111"},
			{Service: "Metrogas", AccountNumber: "222"},
			{Service: "Aysa", AccountNumber: "333"},
		}, updated.Accounts)

		stored, err := db.GetProperty(context.Background(), property.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Accounts, 3)
	})

	t.Run("should accept duplicate accounts", func(t *testing.T) {
		property := createTestProperty(t, "casa", store.Account{Service: "Edesur", AccountNumber: "111"})

		resp := makeJSONRequest(t, "POST", "/api/properties/account", map[string]interface{}{
			"propertyId":    property.ID,
			"service":       "Edesur",
			"accountNumber": "111",
		})

		assertStatusCode(t, http.StatusOK, resp.Code)

		var updated store.Property
		assertNoError(t, parseJSONResponse(resp, &updated))
		assert.Len(t, updated.Accounts, 2)
	})

	t.Run("should return 404 and leave properties unchanged for a missing property", func(t *testing.T) {
		before, err := db.ListProperties(context.Background())
		require.NoError(t, err)

		resp := makeJSONRequest(t, "POST", "/api/properties/account", map[string]interface{}{
			"propertyId":    "6b3a7c5e-2f1d-4e8a-9c0b-1a2b3c4d5e6f",
			"service":       "Aysa",
			"accountNumber": "333",
		})

		assertStatusCode(t, http.StatusNotFound, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		assert.Equal(t, "Property not found", errorResp["error"])

		after, err := db.ListProperties(context.Background())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	for _, missing := range []string{"propertyId", "service", "accountNumber"} {
		t.Run("should fail without "+missing, func(t *testing.T) {
			body := map[string]interface{}{
				"propertyId":    "any",
				"service":       "Aysa",
				"accountNumber": "333",
			}
			delete(body, missing)

			resp := makeJSONRequest(t, "POST", "/api/properties/account", body)

			assertStatusCode(t, http.StatusBadRequest, resp.Code)

			var errorResp map[string]interface{}
			assertNoError(t, parseJSONResponse(resp, &errorResp))
			assert.Equal(t, missing+" is required", errorResp["error"])
		})
	}

	t.Run("should publish a property.account_added event", func(t *testing.T) {
		property := createTestProperty(t, "quinta")
		testPublisher.Reset()

		resp := makeJSONRequest(t, "POST", "/api/properties/account", map[string]interface{}{
			"propertyId":    property.ID,
			"service":       "Aysa",
			"accountNumber": "333",
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		published := testPublisher.Events()
		require.Len(t, published, 1)
		assert.Equal(t, events.PropertyAccountAdded, published[0].Type)
		assert.Equal(t, property.ID, published[0].ID)
	})
}
