package main

import (
	"net/http"
	"strconv"

	"propertyexpenses/store"

	"github.com/gin-gonic/gin"
)

// Report handler functions

// @Summary Get totals by property
// @Description Sum of amount over all expenses, one row per distinct property. Expenses without a property are grouped under null
// @Tags reports
// @Produce json
// @Success 200 {array} store.PropertyTotal "Totals by property"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses/totals/byProperty [get]
func getTotalsByProperty(c *gin.Context) {
	totals, err := db.TotalsByProperty(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// @Summary Get top payers
// @Description Amount paid by each payer in a year, highest first. The month range applies only when both startMonth and endMonth are given
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param startMonth query int false "First month of the range (inclusive)"
// @Param endMonth query int false "Last month of the range (inclusive)"
// @Success 200 {array} store.PayerTotal "Payer totals"
// @Failure 400 {object} map[string]interface{} "Invalid year or month"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/expenses/top-payers/{year} [get]
func getTopPayers(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
		return
	}

	startMonth, err := parseIntQuery(c, "startMonth")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endMonth, err := parseIntQuery(c, "endMonth")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := store.TopPayersQuery{Year: year}
	if startMonth != nil && endMonth != nil {
		query.Months = &store.MonthRange{Start: *startMonth, End: *endMonth}
	}

	payers, err := db.TopPayers(c.Request.Context(), query)
	if err != nil {
		respondWithStoreError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, payers)
}
