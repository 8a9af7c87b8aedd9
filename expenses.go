package main

import (
	"net/http"

	"propertyexpenses/internal/events"
	"propertyexpenses/store"

	"github.com/gin-gonic/gin"
)

// Expense handler functions

// @Summary Create expense
// @Description Create a new expense. Year and month are derived from the date; values sent by the client are ignored
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body ExpenseRequest true "Expense data (date, amount, paidBy and paymentMethod required)"
// @Success 201 {object} store.Expense "Created expense"
// @Failure 400 {object} map[string]interface{} "Validation error or invalid date"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses [post]
func createExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	expense, err := req.toExpense()
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	created, err := db.CreateExpense(c.Request.Context(), expense)
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	publishEvent(c, events.ExpenseCreated, created.ID, created)
	c.JSON(http.StatusCreated, created)
}

// @Summary Get expenses
// @Description Retrieve expenses, optionally filtered by property, year and month
// @Tags expenses
// @Produce json
// @Param property query string false "Exact property name"
// @Param year query int false "Derived year"
// @Param month query int false "Derived month (1-12)"
// @Success 200 {array} store.Expense "List of expenses"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses [get]
func getExpenses(c *gin.Context) {
	var filter store.ExpenseFilter
	if property := c.Query("property"); property != "" {
		filter.Property = &property
	}

	var err error
	if filter.Year, err = parseIntQuery(c, "year"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.Month, err = parseIntQuery(c, "month"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenses, err := db.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// @Summary Get expense
// @Description Retrieve a single expense by ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} store.Expense "Expense"
// @Failure 404 {object} map[string]interface{} "Expense not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses/{id} [get]
func getExpenseByID(c *gin.Context) {
	expense, err := db.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithStoreError(c, err, gin.H{"message": expenseNotFound})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// @Summary Update expense
// @Description Apply a partial update to an expense. Null clears property, category or description. Year and month are recomputed from the resulting date
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body ExpenseUpdateRequest true "Fields to change"
// @Success 200 {object} store.Expense "Updated expense"
// @Failure 400 {object} map[string]interface{} "Validation error or invalid date"
// @Failure 404 {object} map[string]interface{} "Expense not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses/{id} [put]
func updateExpense(c *gin.Context) {
	var req ExpenseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	ctx := c.Request.Context()
	expense, err := db.GetExpense(ctx, c.Param("id"))
	if err != nil {
		respondWithStoreError(c, err, gin.H{"message": expenseNotFound})
		return
	}

	if err := req.apply(&expense); err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	updated, err := db.UpdateExpense(ctx, expense)
	if err != nil {
		respondWithStoreError(c, err, gin.H{"message": expenseNotFound})
		return
	}

	publishEvent(c, events.ExpenseUpdated, updated.ID, updated)
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete expense
// @Description Delete a specific expense by ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} map[string]interface{} "Expense deleted successfully"
// @Failure 404 {object} map[string]interface{} "Expense not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses/{id} [delete]
func deleteExpense(c *gin.Context) {
	id := c.Param("id")
	if err := db.DeleteExpense(c.Request.Context(), id); err != nil {
		respondWithStoreError(c, err, gin.H{"message": expenseNotFound})
		return
	}

	publishEvent(c, events.ExpenseDeleted, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
