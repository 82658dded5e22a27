// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	expenseController *controller.ExpenseController
	incomeController  *controller.IncomeController
	budgetController  *controller.BudgetController
	reportController  *controller.ReportController
	rateLimiter       *middleware.RateLimiter
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
// rateLimiter may be nil to disable rate limiting.
func NewRouter(
	healthController *controller.HealthController,
	expenseController *controller.ExpenseController,
	incomeController *controller.IncomeController,
	budgetController *controller.BudgetController,
	reportController *controller.ReportController,
	rateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:  healthController,
		expenseController: expenseController,
		incomeController:  incomeController,
		budgetController:  budgetController,
		reportController:  reportController,
		rateLimiter:       rateLimiter,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every route requires authentication.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}

	if r.expenseController != nil {
		expenses := v1.Group("/expenses")
		{
			expenses.GET("", r.expenseController.List)
			expenses.POST("", r.expenseController.Create)
			expenses.GET("/:id", r.expenseController.Get)
			expenses.PATCH("/:id", r.expenseController.Update)
			expenses.DELETE("/:id", r.expenseController.Delete)
		}
	}

	if r.incomeController != nil {
		incomes := v1.Group("/incomes")
		{
			incomes.GET("", r.incomeController.List)
			incomes.POST("", r.incomeController.Create)
			incomes.GET("/:id", r.incomeController.Get)
			incomes.PATCH("/:id", r.incomeController.Update)
			incomes.DELETE("/:id", r.incomeController.Delete)
		}
	}

	if r.budgetController != nil {
		budgets := v1.Group("/budgets")
		{
			budgets.GET("", r.budgetController.List)
			budgets.POST("", r.budgetController.Create)
			budgets.POST("/resync", r.budgetController.Resync)
			budgets.GET("/:id", r.budgetController.Get)
			budgets.PATCH("/:id", r.budgetController.Update)
			budgets.DELETE("/:id", r.budgetController.Delete)
		}
	}

	if r.reportController != nil {
		reports := v1.Group("/reports")
		{
			reports.GET("/by-time", r.reportController.ByTime)
			reports.GET("/category-distribution", r.reportController.CategoryDistribution)
			reports.GET("/income-vs-expense", r.reportController.IncomeVsExpense)
			reports.GET("/trends", r.reportController.Trends)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
