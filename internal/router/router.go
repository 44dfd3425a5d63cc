// Package router builds the gin engine and route table shared by the API
// binary and the end-to-end tests.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/docs" // swagger docs
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/handlers"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/middleware"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/services"
)

// Services is the set of business services the routes dispatch to.
type Services struct {
	User             services.UserServicer
	Account          services.AccountServicer
	Category         services.CategoryServicer
	Transaction      services.TransactionServicer
	Budget           services.BudgetServicer
	RecurringPayment services.RecurringPaymentServicer
	Reminder         services.ReminderServicer
	Audit            services.AuditServicer
}

// Options tunes the engine.
type Options struct {
	CORSOrigins    []string
	InternalAPIKey string
	// RequestLogging enables per-request access logs.
	RequestLogging bool
}

// New wires handlers for svc into a gin engine.
func New(svc Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.User, svc.Audit)
	accountHandler := handlers.NewAccountHandler(svc.Account, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Category, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budget, svc.Audit)
	paymentHandler := handlers.NewRecurringPaymentHandler(svc.RecurringPayment, svc.Audit)
	reminderHandler := handlers.NewReminderHandler(svc.Reminder)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(opts.InternalAPIKey))
	internal.POST("/reminders/sweep", reminderHandler.Sweep)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/summary", accountHandler.GetBalanceSummary)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/stats", categoryHandler.GetCategoryStats)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/stats", transactionHandler.GetTransactionStats)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/stats", budgetHandler.GetBudgetStats)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	payments := protected.Group("/recurring-payments")
	payments.POST("", paymentHandler.CreateRecurringPayment)
	payments.GET("", paymentHandler.GetRecurringPayments)
	payments.GET("/upcoming", paymentHandler.GetUpcomingPayments)
	payments.GET("/overdue", paymentHandler.GetOverduePayments)
	payments.GET("/stats", paymentHandler.GetPaymentStats)
	payments.GET("/:id", paymentHandler.GetRecurringPayment)
	payments.PUT("/:id", paymentHandler.UpdateRecurringPayment)
	payments.DELETE("/:id", paymentHandler.DeleteRecurringPayment)
	payments.POST("/:id/rollover", paymentHandler.RolloverRecurringPayment)

	return router
}
