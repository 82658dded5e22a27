// Package main is the entry point for ledgerctl, the operator CLI of the finance ledger.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/report"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
)

// budgetResyncer recomputes one budget bucket.
type budgetResyncer interface {
	Execute(ctx context.Context, input budget.ResyncBudgetInput) (*budget.ResyncBudgetOutput, error)
}

// trendAnalyzer builds a trend analysis.
type trendAnalyzer interface {
	Execute(ctx context.Context, input report.GetTrendAnalysisInput) (*report.TrendAnalysisOutput, error)
}

// categorySeeder inserts missing global categories.
type categorySeeder interface {
	EnsureGlobal(ctx context.Context, categories []*entity.Category) (int, error)
}

// ledger bundles the use cases that need a database.
type ledger struct {
	resync     budgetResyncer
	trends     trendAnalyzer
	categories categorySeeder
	close      func()
}

// deps lets tests replace the database and token wiring.
type deps struct {
	openLedger func(ctx context.Context) (*ledger, error)
	tokens     func() adapter.TokenService
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(defaultDeps(cfg)).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operator tools for the finance ledger",
		Long:          `ledgerctl works directly against the ledger database. It resyncs budgets, prints trend reports, seeds the default categories and mints development tokens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(resyncCmd(d))
	cmd.AddCommand(reportCmd(d))
	cmd.AddCommand(tokenCmd(d))
	cmd.AddCommand(seedCategoriesCmd(d))

	return cmd
}

func defaultDeps(cfg *config.Config) deps {
	return deps{
		openLedger: func(ctx context.Context) (*ledger, error) {
			database, err := db.Open(&cfg.Database)
			if err != nil {
				return nil, err
			}

			// The CLI never delivers emails or serves HTTP.
			cliCfg := *cfg
			cliCfg.Email.WorkerEnabled = false
			cliCfg.RateLimit.Enabled = false

			injector, err := dependency.NewInjector(&cliCfg, database.DB())
			if err != nil {
				_ = database.Close()
				return nil, err
			}

			return &ledger{
				resync:     injector.ResyncBudget,
				trends:     injector.TrendAnalysis,
				categories: injector.Categories,
				close: func() {
					if injector.Redis != nil {
						_ = injector.Redis.Close()
					}
					_ = database.Close()
				},
			}, nil
		},
		tokens: func() adapter.TokenService {
			return adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
		},
	}
}
