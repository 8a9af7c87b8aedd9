package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug, "json")

	router := gin.New()
	router.Use(Middleware(logger))
	router.GET("/ok", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})

	t.Run("should log the request with a generated id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		requestID := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, requestID)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var handlerLine, requestLine map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &handlerLine))
		require.NoError(t, json.Unmarshal(lines[1], &requestLine))

		assert.Equal(t, requestID, handlerLine[FieldRequestID])
		assert.Equal(t, "INFO", requestLine["level"])
		assert.Equal(t, "/ok", requestLine[FieldPath])
		assert.Equal(t, float64(http.StatusOK), requestLine[FieldStatus])
	})

	t.Run("should keep an incoming request id and warn on 4xx", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

		var line map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
		assert.Equal(t, "WARN", line["level"])
		assert.Equal(t, "abc-123", line[FieldRequestID])
	})
}

func TestFromContextDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelWarn, "text").Info("hidden")
	assert.Empty(t, buf.String())

	New(&buf, slog.LevelWarn, "text").Warn("shown", "k", "v")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}
