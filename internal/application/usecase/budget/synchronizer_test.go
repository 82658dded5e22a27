package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/ledgertest"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store    *ledgertest.Store
	sync     *Synchronizer
	user     *entity.User
	category *entity.Category
}

func newFixture() *fixture {
	store := ledgertest.NewStore()
	user := entity.NewUser("ana@example.com", "Ana")
	category := entity.NewCategory("Groceries", "", "", entity.CategoryTypeExpense, nil)
	store.AddUser(user)
	store.AddCategory(category)

	return &fixture{
		store:    store,
		sync:     NewSynchronizer(store.Budgets(), store, store.Categories(), store.Users(), store),
		user:     user,
		category: category,
	}
}

func (f *fixture) addExpense(amount string, date time.Time) *entity.Expense {
	e := entity.NewExpense(f.user.ID, &f.category.ID, dec(amount), date, "", false, "")
	f.store.AddExpense(e)
	return e
}

func (f *fixture) addBudget(limit string, year, month int) *entity.Budget {
	b := entity.NewBudget(f.user.ID, &f.category.ID, year, month, dec(limit), entity.DefaultAlertThreshold)
	f.store.AddBudget(b)
	return b
}

func TestSynchronizer_ThresholdScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	b := f.addBudget("1000.00", 2024, 3)
	f.addExpense("500.00", march)
	f.addExpense("350.00", march.AddDate(0, 0, 5))
	f.addExpense("999.00", march.AddDate(0, 1, 0)) // April, other bucket

	synced, err := f.sync.Resync(ctx, f.user.ID, &f.category.ID, march)
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if synced == nil {
		t.Fatal("expected a budget")
	}

	if !synced.SpentAmount.Equal(dec("850.00")) {
		t.Errorf("SpentAmount = %s, want 850.00", synced.SpentAmount)
	}
	if !synced.UsagePercentage().Equal(dec("85")) {
		t.Errorf("UsagePercentage = %s, want 85", synced.UsagePercentage())
	}
	if synced.IsOverBudget() {
		t.Error("expected not over budget")
	}
	if !synced.IsAlertSent {
		t.Error("expected alert latch to be set")
	}

	alerts := f.store.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].BudgetID != b.ID || alerts[0].CategoryName != "Groceries" || alerts[0].UserEmail != "ana@example.com" {
		t.Errorf("unexpected alert %+v", alerts[0])
	}

	// A second resync must not alert again.
	if _, err := f.sync.Resync(ctx, f.user.ID, &f.category.ID, march); err != nil {
		t.Fatalf("second Resync() error = %v", err)
	}
	if len(f.store.Alerts()) != 1 {
		t.Errorf("expected alert to be sent once, got %d", len(f.store.Alerts()))
	}
}

func TestSynchronizer_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)

	b := f.addBudget("500.00", 2024, 5)
	f.addExpense("120.25", date)
	f.addExpense("30.50", date)

	first, err := f.sync.Resync(ctx, f.user.ID, &f.category.ID, date)
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	second, err := f.sync.Resync(ctx, f.user.ID, &f.category.ID, date)
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}

	if !first.SpentAmount.Equal(second.SpentAmount) {
		t.Errorf("spent changed between resyncs: %s vs %s", first.SpentAmount, second.SpentAmount)
	}
	stored, _ := f.store.Budget(b.ID)
	if !stored.SpentAmount.Equal(dec("150.75")) {
		t.Errorf("stored SpentAmount = %s, want 150.75", stored.SpentAmount)
	}
	if stored.Version != 2 {
		t.Errorf("Version = %d, want 2", stored.Version)
	}
}

func TestSynchronizer_NoBudgetIsNoop(t *testing.T) {
	f := newFixture()
	f.addExpense("10.00", time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))

	budget, err := f.sync.Resync(context.Background(), f.user.ID, &f.category.ID, time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if budget != nil {
		t.Errorf("expected nil budget, got %+v", budget)
	}
}

func TestSynchronizer_EmptyBucketIsZero(t *testing.T) {
	f := newFixture()
	b := f.addBudget("100.00", 2024, 1)
	b.SpentAmount = dec("40")
	f.store.AddBudget(b)

	synced, err := f.sync.Resync(context.Background(), f.user.ID, &f.category.ID, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if !synced.SpentAmount.IsZero() {
		t.Errorf("SpentAmount = %s, want 0", synced.SpentAmount)
	}
}

func TestSynchronizer_UncategorizedBucket(t *testing.T) {
	f := newFixture()
	date := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)

	overall := entity.NewBudget(f.user.ID, nil, 2024, 7, dec("300"), 80)
	f.store.AddBudget(overall)
	f.addExpense("100.00", date) // categorized, must not count
	f.store.AddExpense(entity.NewExpense(f.user.ID, nil, dec("25.00"), date, "", false, ""))

	synced, err := f.sync.Resync(context.Background(), f.user.ID, nil, date)
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if !synced.SpentAmount.Equal(dec("25")) {
		t.Errorf("SpentAmount = %s, want 25", synced.SpentAmount)
	}
}

func TestSynchronizer_VersionConflict(t *testing.T) {
	f := newFixture()
	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	b := f.addBudget("1000.00", 2024, 3)
	f.addExpense("10.00", date)

	f.store.BeforeSave = func(id uuid.UUID) { f.store.BumpVersion(id) }

	_, err := f.sync.Resync(context.Background(), f.user.ID, &f.category.ID, date)
	if !errors.Is(err, domainerror.ErrBudgetVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if !domainerror.IsRetryable(err) {
		t.Error("expected conflict to be retryable")
	}

	var budgetErr *domainerror.BudgetError
	if !errors.As(err, &budgetErr) || budgetErr.Code != domainerror.ErrCodeBudgetVersionConflict {
		t.Errorf("expected BudgetError with conflict code, got %v", err)
	}

	stored, _ := f.store.Budget(b.ID)
	if !stored.SpentAmount.IsZero() {
		t.Errorf("budget must not be written on conflict, got %s", stored.SpentAmount)
	}
}

func TestSynchronizer_AlertSkippedWhenUserOptsOut(t *testing.T) {
	f := newFixture()
	f.user.BudgetAlerts = false
	f.store.AddUser(f.user)
	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	f.addBudget("100.00", 2024, 3)
	f.addExpense("95.00", date)

	synced, err := f.sync.Resync(context.Background(), f.user.ID, &f.category.ID, date)
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if !synced.IsAlertSent {
		t.Error("expected latch to be set even without email")
	}
	if len(f.store.Alerts()) != 0 {
		t.Errorf("expected no queued alert, got %d", len(f.store.Alerts()))
	}
}
