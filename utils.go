package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"propertyexpenses/internal/events"
	"propertyexpenses/internal/logging"
	"propertyexpenses/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	expenseNotFound  = "Expense not found"
	propertyNotFound = "Property not found"
)

var registerFieldNamesOnce sync.Once

// registerJSONFieldNames makes validation errors report json field names
func registerJSONFieldNames() {
	registerFieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// handleStoreError converts store errors to appropriate HTTP responses
func handleStoreError(err error) (statusCode int, message string) {
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, store.ErrInvalidDate):
		return http.StatusBadRequest, store.ErrInvalidDate.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	}

	// Default to internal server error
	return http.StatusInternalServerError, "Internal server error"
}

// respondWithStoreError writes the error response for a failed store call.
// notFound is the body used for 404s.
func respondWithStoreError(c *gin.Context, err error, notFound gin.H) {
	statusCode, message := handleStoreError(err)
	if statusCode == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("Store operation failed", "error", err)
		_ = c.Error(err)
	}
	if statusCode == http.StatusNotFound && notFound != nil {
		c.JSON(statusCode, notFound)
		return
	}
	c.JSON(statusCode, gin.H{"error": message})
}

// bindingErrorMessage turns a ShouldBindJSON error into a client message
func bindingErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s is invalid", fe.Field())
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}

	return "Invalid request body"
}

// parseIntQuery returns nil when the query parameter is absent
func parseIntQuery(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

// publishEvent notifies subscribers of a successful write. Failures are
// logged and never change the response.
func publishEvent(c *gin.Context, eventType, id string, data any) {
	if publisher == nil {
		return
	}
	ctx := c.Request.Context()
	if err := publisher.Publish(ctx, events.New(eventType, id, data)); err != nil {
		logging.FromContext(ctx).Warn("Failed to publish event", "type", eventType, "id", id, "error", err)
	}
}
