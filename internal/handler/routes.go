package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tanmaygarg901/FinSight/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	transactionHandler *TransactionHandler,
	categoryHandler *CategoryHandler,
	budgetHandler *BudgetHandler,
	analyticsHandler *AnalyticsHandler,
	importHandler *ImportHandler,
	exportHandler *ExportHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category catalog routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.GET("/:year/:month", budgetHandler.GetBudgets)
	budgets.PUT("/:year/:month", budgetHandler.SetBudgets)
	budgets.PUT("/:year/:month/:categoryId", budgetHandler.SetBudget)
	budgets.DELETE("/:year/:month/:categoryId", budgetHandler.DeleteBudget)

	// Analytics routes (derived, recomputed per request)
	analytics := api.Group("/analytics")
	analytics.GET("/summary", analyticsHandler.GetSummary)
	analytics.GET("/trends", analyticsHandler.GetTrends)
	analytics.GET("/projection", analyticsHandler.GetProjection)
	analytics.GET("/insights", analyticsHandler.GetInsights)
	analytics.GET("/health", analyticsHandler.GetHealth)

	// Statement import
	api.POST("/import/statements", importHandler.ImportStatement)

	// Exports
	api.GET("/export/transactions", exportHandler.ExportTransactions)
	api.GET("/export/summary", exportHandler.ExportSummary)

	// WebSocket endpoint (token auth via query param, outside the JWT header middleware)
	e.GET("/ws", wsHandler.HandleWS)
}
