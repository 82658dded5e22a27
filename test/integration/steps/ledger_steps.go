package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// uncategorized names the budget bucket without a category in feature files.
const uncategorized = "Uncategorized"

const defaultAlertThreshold = 80

// registerLedgerSteps registers seeding and ledger assertion steps.
func registerLedgerSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a user "([^"]*)" exists$`, aUserExists)
	ctx.Step(`^a user "([^"]*)" with budget alerts disabled exists$`, aUserWithBudgetAlertsDisabledExists)
	ctx.Step(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Step(`^an? (expense|income) category "([^"]*)" exists$`, aCategoryExists)
	ctx.Step(`^"([^"]*)" has a budget of "([^"]*)" for "([^"]*)" in (\d{4})-(\d{2})$`, aBudgetExists)
	ctx.Step(`^"([^"]*)" has a budget of "([^"]*)" for "([^"]*)" in (\d{4})-(\d{2}) alerting at (\d+)%$`, aBudgetWithThresholdExists)
	ctx.Step(`^"([^"]*)" has these expenses recorded directly:$`, expensesRecordedDirectly)
	ctx.Step(`^the budget of "([^"]*)" for "([^"]*)" in (\d{4})-(\d{2}) should have spent "([^"]*)"$`, theBudgetShouldHaveSpent)
	ctx.Step(`^the budget of "([^"]*)" for "([^"]*)" in (\d{4})-(\d{2}) should be at version (\d+)$`, theBudgetShouldBeAtVersion)
	ctx.Step(`^the budget of "([^"]*)" for "([^"]*)" in (\d{4})-(\d{2}) should have its alert (sent|pending)$`, theBudgetAlertShouldBe)
	ctx.Step(`^"([^"]*)" should have (\d+) expenses?$`, theUserShouldHaveExpenses)
	ctx.Step(`^the report cache should have entries for "([^"]*)"$`, theReportCacheShouldHaveEntries)
}

func aUserExists(ctx context.Context, email string) error {
	return seedUser(ctx, email, true)
}

func aUserWithBudgetAlertsDisabledExists(ctx context.Context, email string) error {
	return seedUser(ctx, email, false)
}

func seedUser(ctx context.Context, email string, budgetAlerts bool) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:                 uuid.New(),
		Email:              email,
		Name:               strings.Split(email, "@")[0],
		EmailNotifications: true,
		BudgetAlerts:       budgetAlerts,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	// gorm skips zero-valued fields that carry a default tag.
	if err := tc.db.DbConn.Create(user).Error; err != nil {
		return fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	if !budgetAlerts {
		if err := tc.db.DbConn.Model(user).Update("budget_alerts", false).Error; err != nil {
			return err
		}
	}

	tc.users[email] = user.ID
	return nil
}

func iAmAuthenticatedAs(ctx context.Context, email string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	return authenticate(ctx, tc, email)
}

func authenticate(ctx context.Context, tc *TestContext, email string) error {
	userID, ok := tc.users[email]
	if !ok {
		return fmt.Errorf("user %q was not seeded", email)
	}
	token, err := tc.injector.TokenService.GenerateAccessToken(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}
	tc.accessToken = token
	return nil
}

func aCategoryExists(ctx context.Context, kind, name string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	category := &model.CategoryModel{
		ID:        uuid.New(),
		Name:      name,
		Type:      strings.ToUpper(kind),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tc.db.DbConn.Create(category).Error; err != nil {
		return fmt.Errorf("failed to seed category %s: %w", name, err)
	}
	tc.categories[name] = category.ID
	return nil
}

func aBudgetExists(ctx context.Context, email, limit, categoryName string, year, month int) error {
	return aBudgetWithThresholdExists(ctx, email, limit, categoryName, year, month, defaultAlertThreshold)
}

func aBudgetWithThresholdExists(ctx context.Context, email, limit, categoryName string, year, month, threshold int) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	userID, categoryID, err := tc.bucketIDs(email, categoryName)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(limit)
	if err != nil {
		return fmt.Errorf("invalid budget limit %q: %w", limit, err)
	}

	now := time.Now().UTC()
	budget := &model.BudgetModel{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     categoryID,
		Year:           year,
		Month:          month,
		AmountLimit:    amount,
		SpentAmount:    decimal.Zero,
		AlertThreshold: threshold,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tc.db.DbConn.Create(budget).Error; err != nil {
		return fmt.Errorf("failed to seed budget: %w", err)
	}
	return nil
}

// expensesRecordedDirectly inserts rows without touching budgets, leaving them stale.
func expensesRecordedDirectly(ctx context.Context, email string, table *godog.Table) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 3 {
			return fmt.Errorf("expected columns category | amount | date, got %d cells", len(row.Cells))
		}

		userID, categoryID, err := tc.bucketIDs(email, row.Cells[0].Value)
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", row.Cells[1].Value, err)
		}
		date, err := time.Parse(time.DateOnly, row.Cells[2].Value)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", row.Cells[2].Value, err)
		}

		now := time.Now().UTC()
		expense := &model.ExpenseModel{
			ID:          uuid.New(),
			UserID:      userID,
			CategoryID:  categoryID,
			Amount:      amount,
			ExpenseDate: date,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tc.db.DbConn.Omit("Category").Create(expense).Error; err != nil {
			return fmt.Errorf("failed to seed expense: %w", err)
		}
	}
	return nil
}

func theBudgetShouldHaveSpent(ctx context.Context, email, categoryName string, year, month int, expected string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	budget, err := tc.findBudget(email, categoryName, year, month)
	if err != nil {
		return err
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !budget.SpentAmount.Equal(want) {
		return fmt.Errorf("expected spent %s, got %s", want, budget.SpentAmount)
	}
	return nil
}

func theBudgetShouldBeAtVersion(ctx context.Context, email, categoryName string, year, month int, version int64) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	budget, err := tc.findBudget(email, categoryName, year, month)
	if err != nil {
		return err
	}
	if budget.Version != version {
		return fmt.Errorf("expected version %d, got %d", version, budget.Version)
	}
	return nil
}

func theBudgetAlertShouldBe(ctx context.Context, email, categoryName string, year, month int, state string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	budget, err := tc.findBudget(email, categoryName, year, month)
	if err != nil {
		return err
	}
	if want := state == "sent"; budget.IsAlertSent != want {
		return fmt.Errorf("expected is_alert_sent=%t, got %t", want, budget.IsAlertSent)
	}
	return nil
}

func theUserShouldHaveExpenses(ctx context.Context, email string, count int64) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	userID, ok := tc.users[email]
	if !ok {
		return fmt.Errorf("user %q was not seeded", email)
	}

	var actual int64
	if err := tc.db.DbConn.Model(&model.ExpenseModel{}).Where("user_id = ?", userID).Count(&actual).Error; err != nil {
		return err
	}
	if actual != count {
		return fmt.Errorf("expected %d expenses, got %d", count, actual)
	}
	return nil
}

func theReportCacheShouldHaveEntries(ctx context.Context, email string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	userID, ok := tc.users[email]
	if !ok {
		return fmt.Errorf("user %q was not seeded", email)
	}

	keys, err := tc.redis.KeysMatching(fmt.Sprintf("report:%s:*", userID))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("no report cache entries for %s", email)
	}
	return nil
}

func (tc *TestContext) bucketIDs(email, categoryName string) (uuid.UUID, *uuid.UUID, error) {
	userID, ok := tc.users[email]
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("user %q was not seeded", email)
	}
	if categoryName == uncategorized {
		return userID, nil, nil
	}
	categoryID, ok := tc.categories[categoryName]
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("category %q was not seeded", categoryName)
	}
	return userID, &categoryID, nil
}

func (tc *TestContext) findBudget(email, categoryName string, year, month int) (*model.BudgetModel, error) {
	userID, categoryID, err := tc.bucketIDs(email, categoryName)
	if err != nil {
		return nil, err
	}

	query := tc.db.DbConn.Where("user_id = ? AND year = ? AND month = ?", userID, year, month)
	if categoryID == nil {
		query = query.Where("category_id IS NULL")
	} else {
		query = query.Where("category_id = ?", *categoryID)
	}

	var budget model.BudgetModel
	if err := query.First(&budget).Error; err != nil {
		return nil, fmt.Errorf("budget for %s/%s %d-%02d not found: %w", email, categoryName, year, month, err)
	}
	return &budget, nil
}
