package main

import (
	"net/http"

	"propertyexpenses/internal/events"
	"propertyexpenses/store"

	"github.com/gin-gonic/gin"
)

// Property handler functions

// @Summary Create property
// @Description Create a new property. Accounts default to an empty list
// @Tags properties
// @Accept json
// @Produce json
// @Param property body PropertyRequest true "Property data (name required)"
// @Success 201 {object} store.Property "Created property"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/properties [post]
func createProperty(c *gin.Context) {
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	created, err := db.CreateProperty(c.Request.Context(), store.Property{
		Name:     req.Name,
		Accounts: req.Accounts,
	})
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	publishEvent(c, events.PropertyCreated, created.ID, created)
	c.JSON(http.StatusCreated, created)
}

// @Summary Get all properties
// @Description Retrieve all properties with their accounts
// @Tags properties
// @Produce json
// @Success 200 {array} store.Property "List of properties"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/properties [get]
func getProperties(c *gin.Context) {
	properties, err := db.ListProperties(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, properties)
}

// @Summary Add account to property
// @Description Append a service account to a property. Duplicates are allowed
// @Tags properties
// @Accept json
// @Produce json
// @Param account body AddAccountRequest true "Property ID and account"
// @Success 200 {object} store.Property "Updated property"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Property not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/properties/account [post]
func addAccountToProperty(c *gin.Context) {
	var req AddAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	property, err := db.AddAccount(c.Request.Context(), req.PropertyID, store.Account{
		Service:       req.Service,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		respondWithStoreError(c, err, gin.H{"error": propertyNotFound})
		return
	}

	publishEvent(c, events.PropertyAccountAdded, property.ID, property)
	c.JSON(http.StatusOK, property)
}
