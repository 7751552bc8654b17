package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"moneta/internal/config"
	"moneta/internal/database"
	"moneta/internal/handlers"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/quotes"
	"moneta/internal/scheduler"
	"moneta/internal/services"
	"moneta/internal/validator"

	_ "moneta/internal/docs" // Import swagger docs
)

// @title           Moneta API
// @version         1.0
// @description     Moneta is a personal finance application for tracking accounts, credit cards, recurring transactions, budgets, goals, and investments.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	creditCardService := services.NewCreditCardService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, accountService, creditCardService)
	recurrenceService := services.NewRecurrenceService(db, accountService, creditCardService)
	goalService := services.NewGoalService(db)
	summaryService := services.NewSummaryService(db)
	investmentService := services.NewInvestmentService(db, accountService)
	auditService := services.NewAuditService(db)
	quoteService := quotes.NewService()

	// Recurrence scheduler runs in the background for the lifetime of the
	// process; POST /recurrences/process triggers the same pass on demand.
	sched := scheduler.New(db, appConfig.SchedulerInterval)
	schedCtx, stopScheduler := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopScheduler()
	go sched.Run(schedCtx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	creditCardHandler := handlers.NewCreditCardHandler(creditCardService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	recurrenceHandler := handlers.NewRecurrenceHandler(recurrenceService, sched)
	goalHandler := handlers.NewGoalHandler(goalService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Credit card routes
	creditCards := protected.Group("/credit-cards")
	creditCards.POST("", creditCardHandler.CreateCreditCard)
	creditCards.GET("", creditCardHandler.GetCreditCards)
	creditCards.GET("/:id", creditCardHandler.GetCreditCard)
	creditCards.PUT("/:id", creditCardHandler.UpdateCreditCard)
	creditCards.DELETE("/:id", creditCardHandler.DeleteCreditCard)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/pending", transactionHandler.GetPendingTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id/confirm", transactionHandler.ConfirmTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Recurrence routes
	recurrences := protected.Group("/recurrences")
	recurrences.POST("", recurrenceHandler.CreateRecurrence)
	recurrences.POST("/process", recurrenceHandler.ProcessRecurrences)
	recurrences.GET("", recurrenceHandler.GetRecurrences)
	recurrences.GET("/:id", recurrenceHandler.GetRecurrence)
	recurrences.PUT("/:id", recurrenceHandler.UpdateRecurrence)
	recurrences.DELETE("/:id", recurrenceHandler.DeleteRecurrence)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contributions", goalHandler.AddContribution)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)

	// Budget summary
	protected.GET("/summary/budget", summaryHandler.GetBudgetSummary)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.AddInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.GET("/portfolio", investmentHandler.GetPortfolio)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.PUT("/:id/price", investmentHandler.UpdatePrice)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	// Quote proxy
	protected.GET("/quotes/:symbol", quoteHandler.GetQuote)

	log.Infof("Starting Moneta backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
