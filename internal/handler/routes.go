package handler

import (
	"github.com/dafibh/tally/tally-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the API handlers registered by RegisterRoutes
type Handlers struct {
	Financial   *FinancialHandler
	Category    *CategoryHandler
	Contact     *ContactHandler
	Transaction *TransactionHandler
	Budget      *BudgetHandler
	Backup      *BackupHandler
}

// RegisterRoutes sets up all API routes. Every route requires the owner's
// token; mutations are rate limited per subject.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Derived views
	api.GET("/financials/:month", h.Financial.GetFinancials)
	api.GET("/history", h.Financial.GetHistory)
	api.POST("/snapshot/reload", h.Financial.ReloadSnapshot)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Contact routes
	contacts := api.Group("/contacts")
	contacts.GET("", h.Contact.GetContacts)
	contacts.POST("", h.Contact.CreateContact)
	contacts.PUT("/:id", h.Contact.UpdateContact)
	contacts.DELETE("/:id", h.Contact.DeleteContact)
	contacts.GET("/:id/ledger", h.Contact.GetLedger)
	contacts.GET("/:id/statement", h.Contact.GetStatement)
	contacts.POST("/:id/settle", h.Contact.SettleContact)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.PUT("/:month", h.Budget.SetGlobalBudget)
	budgets.PUT("/:month/categories/:categoryId", h.Budget.SetCategoryBudget)
	budgets.GET("/:month/transactions", h.Budget.GetBudgetTransactions)

	// Backup routes
	api.POST("/backups", h.Backup.CreateBackup)
}
