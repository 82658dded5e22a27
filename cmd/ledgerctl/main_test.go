package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/report"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
)

type fakeResyncer struct {
	inputs   []budget.ResyncBudgetInput
	failures int
	output   *budget.ResyncBudgetOutput
}

func (f *fakeResyncer) Execute(ctx context.Context, input budget.ResyncBudgetInput) (*budget.ResyncBudgetOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.failures > 0 {
		f.failures--
		return nil, domainerror.NewBudgetError(domainerror.ErrCodeBudgetVersionConflict, "conflict", domainerror.ErrBudgetVersionConflict)
	}
	return f.output, nil
}

type fakeTrends struct {
	input report.GetTrendAnalysisInput
}

func (f *fakeTrends) Execute(ctx context.Context, input report.GetTrendAnalysisInput) (*report.TrendAnalysisOutput, error) {
	f.input = input
	return &report.TrendAnalysisOutput{
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Granularity:    input.Granularity,
		TrendDirection: report.TrendStable,
	}, nil
}

func testDeps(resync *fakeResyncer, trends *fakeTrends) (deps, *bool) {
	closed := false
	return deps{
		openLedger: func(ctx context.Context) (*ledger, error) {
			return &ledger{resync: resync, trends: trends, close: func() { closed = true }}, nil
		},
		tokens: func() adapter.TokenService {
			return adapters.NewTokenService("cli-secret", time.Hour)
		},
	}, &closed
}

func run(t *testing.T, d deps, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(d)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd(deps{})

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"resync", "report", "token", "seed-categories"}, names)
}

func TestResyncCmd(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	t.Run("prints the recomputed budget", func(t *testing.T) {
		resync := &fakeResyncer{output: &budget.ResyncBudgetOutput{Budget: &budget.BudgetOutput{
			ID:              uuid.New(),
			CategoryID:      &categoryID,
			Year:            2024,
			Month:           3,
			AmountLimit:     decimal.NewFromInt(500),
			SpentAmount:     decimal.RequireFromString("412.50"),
			UsagePercentage: decimal.RequireFromString("82.50"),
			Version:         4,
		}}}
		d, closed := testDeps(resync, nil)

		out, _, err := run(t, d, "resync", "--user", userID.String(), "--category", categoryID.String(), "--date", "2024-03-15")
		require.NoError(t, err)

		require.Len(t, resync.inputs, 1)
		assert.Equal(t, userID, resync.inputs[0].UserID)
		require.NotNil(t, resync.inputs[0].CategoryID)
		assert.Equal(t, categoryID, *resync.inputs[0].CategoryID)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), resync.inputs[0].Date)
		assert.Contains(t, out, "spent 412.50 of 500.00 (82.50%), version 4")
		assert.True(t, *closed)
	})

	t.Run("uncategorized bucket without budget", func(t *testing.T) {
		resync := &fakeResyncer{output: &budget.ResyncBudgetOutput{}}
		d, _ := testDeps(resync, nil)

		out, _, err := run(t, d, "resync", "--user", userID.String(), "--date", "2024-03-01")
		require.NoError(t, err)

		assert.Nil(t, resync.inputs[0].CategoryID)
		assert.Contains(t, out, "no active budget for uncategorized in 2024-03")
	})

	t.Run("retries a version conflict", func(t *testing.T) {
		resync := &fakeResyncer{failures: 2, output: &budget.ResyncBudgetOutput{}}
		d, _ := testDeps(resync, nil)

		_, stderr, err := run(t, d, "resync", "--user", userID.String(), "--retries", "2")
		require.NoError(t, err)
		assert.Len(t, resync.inputs, 3)
		assert.Contains(t, stderr, "retrying (2/2)")
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		resync := &fakeResyncer{failures: 5}
		d, _ := testDeps(resync, nil)

		_, _, err := run(t, d, "resync", "--user", userID.String(), "--retries", "1")
		require.Error(t, err)
		assert.True(t, domainerror.IsRetryable(err))
		assert.Len(t, resync.inputs, 2)
	})

	t.Run("rejects a malformed user", func(t *testing.T) {
		d, _ := testDeps(&fakeResyncer{}, nil)

		_, _, err := run(t, d, "resync", "--user", "nope")
		assert.ErrorContains(t, err, "invalid --user")
	})
}

func TestTrendsCmd(t *testing.T) {
	userID := uuid.New()

	t.Run("prints JSON", func(t *testing.T) {
		trends := &fakeTrends{}
		d, _ := testDeps(nil, trends)

		out, _, err := run(t, d, "report", "trends",
			"--user", userID.String(),
			"--granularity", "quarterly",
			"--from", "2024-01-01",
			"--to", "2024-12-31",
		)
		require.NoError(t, err)

		assert.Equal(t, entity.GranularityQuarterly, trends.input.Granularity)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "QUARTERLY", decoded["granularity"])
		assert.Equal(t, "STABLE", decoded["trend_direction"])
	})

	t.Run("rejects an unknown granularity", func(t *testing.T) {
		d, _ := testDeps(nil, &fakeTrends{})

		_, _, err := run(t, d, "report", "trends", "--user", userID.String(), "--granularity", "weekly", "--from", "2024-01-01", "--to", "2024-02-01")
		assert.ErrorContains(t, err, "invalid --granularity")
	})
}

type fakeSeeder struct {
	existing map[string]bool
}

func (f *fakeSeeder) EnsureGlobal(ctx context.Context, categories []*entity.Category) (int, error) {
	inserted := 0
	for _, c := range categories {
		if !f.existing[c.GlobalKey()] {
			f.existing[c.GlobalKey()] = true
			inserted++
		}
	}
	return inserted, nil
}

func TestSeedCategoriesCmd(t *testing.T) {
	seeder := &fakeSeeder{existing: map[string]bool{"EXPENSE:Rent": true}}
	opened := 0
	d := deps{openLedger: func(ctx context.Context) (*ledger, error) {
		opened++
		return &ledger{categories: seeder, close: func() {}}, nil
	}}
	total := len(entity.DefaultGlobalCategories())

	out, _, err := run(t, d, "seed-categories")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("inserted %d of %d default categories", total-1, total))

	out, _, err = run(t, d, "seed-categories")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("inserted 0 of %d", total))

	out, _, err = run(t, d, "seed-categories", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Equal(t, 2, opened, "--list must not open the database")
}

func TestTokenCmd(t *testing.T) {
	userID := uuid.New()
	d, _ := testDeps(nil, nil)

	out, _, err := run(t, d, "token", "--user", userID.String(), "--email", "ops@example.com")
	require.NoError(t, err)

	claims, err := d.tokens().ValidateAccessToken(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
}
