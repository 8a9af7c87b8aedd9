package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "propertyexpenses/docs"
	"propertyexpenses/internal/config"
	"propertyexpenses/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// setupRouter builds the engine with middleware and all routes
func setupRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	registerJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(logger))
	r.Use(cors.New(corsConfig(cfg)))

	registerRoutes(r)
	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", logging.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}

func registerRoutes(r *gin.Engine) {
	r.GET("/healthz", healthCheck)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.POST("/expenses", createExpense)
		api.GET("/expenses", getExpenses)
		api.GET("/expenses/totals/byProperty", getTotalsByProperty)
		api.GET("/expenses/top-payers/:year", getTopPayers)
		api.GET("/expenses/:id", getExpenseByID)
		api.PUT("/expenses/:id", updateExpense)
		api.DELETE("/expenses/:id", deleteExpense)

		api.POST("/properties", createProperty)
		api.GET("/properties", getProperties)
		api.POST("/properties/account", addAccountToProperty)
	}
}

// @Summary Health check
// @Description Reports whether the service and its store are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Failure 503 {object} map[string]interface{} "Store unreachable"
// @Router /healthz [get]
func healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "store unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
