// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/expense"
	"github.com/finance-tracker/ledger/internal/application/usecase/income"
	"github.com/finance-tracker/ledger/internal/application/usecase/report"
	"github.com/finance-tracker/ledger/internal/infra/server/router"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/cache"
	"github.com/finance-tracker/ledger/internal/integration/email"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Router       *router.Router
	RateLimiter  *middleware.RateLimiter
	EmailWorker  *email.Worker
	TokenService adapter.TokenService
	ReportCache  adapter.ReportCache
	Categories   adapter.CategoryRepository

	ResyncBudget  *budget.ResyncBudgetUseCase
	TrendAnalysis *report.GetTrendAnalysisUseCase
}

// Option customizes the injector before wiring.
type Option func(*options)

type options struct {
	redisClient *redis.Client
	emailSender adapter.EmailSender
}

// WithRedisClient uses client for the report cache instead of dialing cfg.Redis.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) { o.redisClient = client }
}

// WithEmailSender uses sender for the email worker instead of the Resend client.
func WithEmailSender(sender adapter.EmailSender) Option {
	return func(o *options) { o.emailSender = sender }
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts ...Option) (*Injector, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// Repositories
	transactor := persistence.NewTransactor(db)
	userRepo := persistence.NewUserRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)
	incomeRepo := persistence.NewIncomeRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	ledgerStore := persistence.NewLedgerStore(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Adapters
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)

	redisClient := o.redisClient
	if redisClient == nil && cfg.Report.CacheEnabled {
		redisClient = connectRedis(&cfg.Redis)
	}
	var reportCache adapter.ReportCache
	if redisClient != nil && cfg.Report.CacheEnabled {
		reportCache = cache.NewReportCache(redisClient, cfg.Report.CacheTTL)
	}

	// Budget use cases
	synchronizer := budget.NewSynchronizer(budgetRepo, ledgerStore, categoryRepo, userRepo, emailService)
	createBudgetUseCase := budget.NewCreateBudgetUseCase(budgetRepo, categoryRepo, synchronizer, transactor, cfg.Budget.DefaultAlertThreshold)
	getBudgetUseCase := budget.NewGetBudgetUseCase(budgetRepo)
	listBudgetsUseCase := budget.NewListBudgetsUseCase(budgetRepo)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(budgetRepo, transactor)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(budgetRepo, transactor)
	resyncBudgetUseCase := budget.NewResyncBudgetUseCase(synchronizer, transactor)

	// Expense use cases
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, categoryRepo, synchronizer, transactor, reportCache)
	getExpenseUseCase := expense.NewGetExpenseUseCase(expenseRepo)
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo, categoryRepo, synchronizer, transactor, reportCache)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo, synchronizer, transactor, reportCache)

	// Income use cases
	createIncomeUseCase := income.NewCreateIncomeUseCase(incomeRepo, categoryRepo, reportCache)
	getIncomeUseCase := income.NewGetIncomeUseCase(incomeRepo)
	listIncomesUseCase := income.NewListIncomesUseCase(incomeRepo)
	updateIncomeUseCase := income.NewUpdateIncomeUseCase(incomeRepo, categoryRepo, reportCache)
	deleteIncomeUseCase := income.NewDeleteIncomeUseCase(incomeRepo, reportCache)

	// Report use cases
	reportByTimeUseCase := report.NewGetReportByTimeUseCase(ledgerStore, reportCache)
	distributionUseCase := report.NewGetCategoryDistributionUseCase(ledgerStore, reportCache)
	incomeVsExpenseUseCase := report.NewGetIncomeVsExpenseUseCase(ledgerStore, reportCache)
	trendUseCase := report.NewGetTrendAnalysisUseCase(ledgerStore, reportCache)

	// Controllers
	var cacheHealthChecker func() bool
	if reportCache != nil {
		cacheHealthChecker = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err() == nil
		}
	}
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, cacheHealthChecker)

	expenseController := controller.NewExpenseController(
		listExpensesUseCase,
		createExpenseUseCase,
		getExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
	)

	incomeController := controller.NewIncomeController(
		listIncomesUseCase,
		createIncomeUseCase,
		getIncomeUseCase,
		updateIncomeUseCase,
		deleteIncomeUseCase,
	)

	budgetController := controller.NewBudgetController(
		listBudgetsUseCase,
		createBudgetUseCase,
		getBudgetUseCase,
		updateBudgetUseCase,
		deleteBudgetUseCase,
		resyncBudgetUseCase,
	)

	reportController := controller.NewReportController(
		reportByTimeUseCase,
		distributionUseCase,
		incomeVsExpenseUseCase,
		trendUseCase,
	)

	// Middleware
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		expenseController,
		incomeController,
		budgetController,
		reportController,
		rateLimiter,
		authMiddleware,
	)

	// Email worker
	var worker *email.Worker
	if cfg.Email.WorkerEnabled {
		sender := o.emailSender
		if sender == nil {
			resendClient, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, cfg.Email.ResendBaseURL)
			if err != nil {
				return nil, fmt.Errorf("failed to create email sender: %w", err)
			}
			sender = resendClient
		}

		renderer, err := templates.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}

		worker = email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
			PollInterval: cfg.Email.PollInterval,
			BatchSize:    cfg.Email.BatchSize,
			Concurrency:  cfg.Email.Concurrency,
			StaleAfter:   cfg.Email.StaleAfter,
		})
	}

	return &Injector{
		Config:        cfg,
		DB:            db,
		Redis:         redisClient,
		Router:        r,
		RateLimiter:   rateLimiter,
		EmailWorker:   worker,
		TokenService:  tokenService,
		ReportCache:   reportCache,
		Categories:    categoryRepo,
		ResyncBudget:  resyncBudgetUseCase,
		TrendAnalysis: trendUseCase,
	}, nil
}

// connectRedis dials redis and returns nil when it is not reachable, leaving
// the report cache disabled.
func connectRedis(cfg *config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid REDIS_URL, report cache disabled", "error", err)
		return nil
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis not reachable, report cache disabled", "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("Report cache connected", "addr", opts.Addr)
	return client
}
