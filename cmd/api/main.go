package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/config"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/database"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/events"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/logger"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/router"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/scheduler"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/services"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// @title           Personal Finance Tracker API
// @version         1.0
// @description     Track accounts, transactions, budgets and recurring payments.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher, err := events.NewPublisher(appConfig.AMQPURL, appConfig.AMQPExchange)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	// Initialize services
	db := dbManager.DB()
	clk := clock.Real()
	accountService := services.NewAccountService(db, clk)
	reminderService := services.NewReminderService(db, clk, publisher, appConfig.ReminderWindowDays)
	svc := router.Services{
		User:             services.NewUserService(db, clk),
		Account:          accountService,
		Category:         services.NewCategoryService(db),
		Transaction:      services.NewTransactionService(db, accountService, clk),
		Budget:           services.NewBudgetService(db),
		RecurringPayment: services.NewRecurringPaymentService(db, accountService, clk, publisher),
		Reminder:         reminderService,
		Audit:            services.NewAuditService(db),
	}

	engine := router.New(svc, router.Options{
		CORSOrigins:    appConfig.CORSOrigins,
		InternalAPIKey: appConfig.InternalAPIKey,
		RequestLogging: true,
	})
	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched := scheduler.New()
	err = sched.Add(appConfig.ReminderSchedule, "reminder-sweep", func(ctx context.Context) error {
		_, err := reminderService.Sweep(ctx)
		return err
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Starting server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sched.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
