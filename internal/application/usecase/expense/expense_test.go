package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledgertest"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

var fixedNow = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store     *ledgertest.Store
	sync      *budget.Synchronizer
	cache     *countingCache
	userID    uuid.UUID
	groceries *entity.Category
	transport *entity.Category
	salary    *entity.Category
	create    *CreateExpenseUseCase
	update    *UpdateExpenseUseCase
	delete    *DeleteExpenseUseCase
}

type countingCache struct {
	invalidations int
}

func (c *countingCache) Get(ctx context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error) {
	return 0, false, nil
}

func (c *countingCache) Set(ctx context.Context, userID uuid.UUID, gen int64, key string, value any) error {
	return nil
}

func (c *countingCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.invalidations++
	return nil
}

func newFixture() *fixture {
	store := ledgertest.NewStore()
	user := entity.NewUser("bob@example.com", "Bob")
	store.AddUser(user)

	f := &fixture{
		store:     store,
		cache:     &countingCache{},
		userID:    user.ID,
		groceries: entity.NewCategory("Groceries", "", "", entity.CategoryTypeExpense, nil),
		transport: entity.NewCategory("Transport", "", "", entity.CategoryTypeExpense, nil),
		salary:    entity.NewCategory("Salary", "", "", entity.CategoryTypeIncome, nil),
	}
	store.AddCategory(f.groceries)
	store.AddCategory(f.transport)
	store.AddCategory(f.salary)

	f.sync = budget.NewSynchronizer(store.Budgets(), store, store.Categories(), store.Users(), store)
	f.create = NewCreateExpenseUseCase(store.Expenses(), store.Categories(), f.sync, store, f.cache)
	f.create.now = func() time.Time { return fixedNow }
	f.update = NewUpdateExpenseUseCase(store.Expenses(), store.Categories(), f.sync, store, f.cache)
	f.update.now = func() time.Time { return fixedNow }
	f.delete = NewDeleteExpenseUseCase(store.Expenses(), f.sync, store, f.cache)
	return f
}

func (f *fixture) budget(category *entity.Category, month time.Month, limit string) *entity.Budget {
	b := entity.NewBudget(f.userID, &category.ID, 2024, int(month), dec(limit), 80)
	f.store.AddBudget(b)
	return b
}

func (f *fixture) spent(t *testing.T, b *entity.Budget) decimal.Decimal {
	t.Helper()
	stored, ok := f.store.Budget(b.ID)
	if !ok {
		t.Fatalf("budget %s not found", b.ID)
	}
	return stored.SpentAmount
}

func (f *fixture) createExpense(t *testing.T, category *entity.Category, amount string, date time.Time) *ExpenseOutput {
	t.Helper()
	out, err := f.create.Execute(context.Background(), CreateExpenseInput{
		UserID:      f.userID,
		CategoryID:  &category.ID,
		Amount:      dec(amount),
		ExpenseDate: date,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return out.Expense
}

func TestCreateExpense_ResyncsBudget(t *testing.T) {
	f := newFixture()
	b := f.budget(f.groceries, time.March, "1000.00")

	f.createExpense(t, f.groceries, "500.00", time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC))
	f.createExpense(t, f.groceries, "350.00", time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))

	if got := f.spent(t, b); !got.Equal(dec("850")) {
		t.Errorf("spent = %s, want 850", got)
	}
	if len(f.store.Alerts()) != 1 {
		t.Errorf("expected exactly one alert, got %d", len(f.store.Alerts()))
	}
	if f.cache.invalidations != 2 {
		t.Errorf("expected 2 cache invalidations, got %d", f.cache.invalidations)
	}
}

func TestCreateExpense_Validation(t *testing.T) {
	f := newFixture()
	missing := uuid.New()

	tests := []struct {
		name    string
		input   CreateExpenseInput
		wantErr error
	}{
		{
			name:    "amount below minimum",
			input:   CreateExpenseInput{UserID: f.userID, Amount: dec("0.001"), ExpenseDate: fixedNow},
			wantErr: domainerror.ErrInvalidAmount,
		},
		{
			name:    "future date",
			input:   CreateExpenseInput{UserID: f.userID, Amount: dec("1"), ExpenseDate: fixedNow.AddDate(0, 0, 1)},
			wantErr: domainerror.ErrFutureDate,
		},
		{
			name:    "income category",
			input:   CreateExpenseInput{UserID: f.userID, CategoryID: &f.salary.ID, Amount: dec("1"), ExpenseDate: fixedNow},
			wantErr: domainerror.ErrCategoryTypeMismatch,
		},
		{
			name:    "unknown category",
			input:   CreateExpenseInput{UserID: f.userID, CategoryID: &missing, Amount: dec("1"), ExpenseDate: fixedNow},
			wantErr: domainerror.ErrCategoryNotFound,
		},
		{
			name:    "recurring without unit",
			input:   CreateExpenseInput{UserID: f.userID, Amount: dec("1"), ExpenseDate: fixedNow, IsRecurring: true},
			wantErr: domainerror.ErrMissingRecurrenceUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateExpense_MovesBetweenBuckets(t *testing.T) {
	march := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)

	t.Run("category change resyncs both buckets", func(t *testing.T) {
		f := newFixture()
		a := f.budget(f.groceries, time.March, "500")
		b := f.budget(f.transport, time.March, "500")
		created := f.createExpense(t, f.groceries, "120.00", march)

		_, err := f.update.Execute(context.Background(), UpdateExpenseInput{
			UserID: f.userID, ExpenseID: created.ID, CategoryID: &f.transport.ID,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if got := f.spent(t, a); !got.IsZero() {
			t.Errorf("old bucket spent = %s, want 0", got)
		}
		if got := f.spent(t, b); !got.Equal(dec("120")) {
			t.Errorf("new bucket spent = %s, want 120", got)
		}
	})

	t.Run("month change resyncs both buckets", func(t *testing.T) {
		f := newFixture()
		a := f.budget(f.groceries, time.March, "500")
		b := f.budget(f.groceries, time.April, "500")
		created := f.createExpense(t, f.groceries, "80.00", march)

		_, err := f.update.Execute(context.Background(), UpdateExpenseInput{
			UserID: f.userID, ExpenseID: created.ID, ExpenseDate: &april,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if got := f.spent(t, a); !got.IsZero() {
			t.Errorf("march spent = %s, want 0", got)
		}
		if got := f.spent(t, b); !got.Equal(dec("80")) {
			t.Errorf("april spent = %s, want 80", got)
		}
	})

	t.Run("amount change in the same bucket", func(t *testing.T) {
		f := newFixture()
		a := f.budget(f.groceries, time.March, "500")
		created := f.createExpense(t, f.groceries, "80.00", march)
		newAmount := dec("95.10")
		laterInMarch := march.AddDate(0, 0, 3)

		_, err := f.update.Execute(context.Background(), UpdateExpenseInput{
			UserID: f.userID, ExpenseID: created.ID, Amount: &newAmount, ExpenseDate: &laterInMarch,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got := f.spent(t, a); !got.Equal(newAmount) {
			t.Errorf("spent = %s, want %s", got, newAmount)
		}
	})

	t.Run("conflict on the new bucket rolls back everything", func(t *testing.T) {
		f := newFixture()
		a := f.budget(f.groceries, time.March, "500")
		b := f.budget(f.transport, time.March, "500")
		created := f.createExpense(t, f.groceries, "120.00", march)

		f.store.BeforeSave = func(id uuid.UUID) {
			if id == b.ID {
				f.store.BumpVersion(id)
			}
		}

		_, err := f.update.Execute(context.Background(), UpdateExpenseInput{
			UserID: f.userID, ExpenseID: created.ID, CategoryID: &f.transport.ID,
		})
		if !domainerror.IsRetryable(err) {
			t.Fatalf("expected retryable conflict, got %v", err)
		}

		if got := f.spent(t, a); !got.Equal(dec("120")) {
			t.Errorf("old bucket must keep its sum, got %s", got)
		}
		if got := f.spent(t, b); !got.IsZero() {
			t.Errorf("new bucket must stay untouched, got %s", got)
		}
		stored, err := f.store.Expenses().FindByID(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("find expense: %v", err)
		}
		if stored.CategoryID == nil || *stored.CategoryID != f.groceries.ID {
			t.Error("expense category change must be rolled back")
		}
	})
}

func TestUpdateExpense_NotOwned(t *testing.T) {
	f := newFixture()
	created := f.createExpense(t, f.groceries, "10.00", fixedNow)

	note := "hijack"
	_, err := f.update.Execute(context.Background(), UpdateExpenseInput{UserID: uuid.New(), ExpenseID: created.ID, Note: &note})
	if !errors.Is(err, domainerror.ErrNotAuthorizedToModifyExpense) {
		t.Errorf("expected not authorized, got %v", err)
	}
}

func TestDeleteExpense_ResyncsBucket(t *testing.T) {
	f := newFixture()
	date := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	b := f.budget(f.groceries, time.May, "300")
	keep := f.createExpense(t, f.groceries, "100.00", date)
	drop := f.createExpense(t, f.groceries, "50.00", date)

	if err := f.delete.Execute(context.Background(), DeleteExpenseInput{UserID: f.userID, ExpenseID: drop.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := f.spent(t, b); !got.Equal(keep.Amount) {
		t.Errorf("spent = %s, want %s", got, keep.Amount)
	}

	err := f.delete.Execute(context.Background(), DeleteExpenseInput{UserID: f.userID, ExpenseID: drop.ID})
	if !errors.Is(err, domainerror.ErrExpenseNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestListExpenses_Paginates(t *testing.T) {
	f := newFixture()
	for i := 1; i <= 5; i++ {
		f.createExpense(t, f.groceries, "1.00", time.Date(2024, time.January, i, 0, 0, 0, 0, time.UTC))
	}

	out, err := NewListExpensesUseCase(f.store.Expenses()).Execute(context.Background(), ListExpensesInput{
		UserID: f.userID, Page: 2, Limit: 2,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 5 || out.TotalPages != 3 || len(out.Expenses) != 2 {
		t.Errorf("unexpected page: total=%d pages=%d len=%d", out.Total, out.TotalPages, len(out.Expenses))
	}
	if got := out.Expenses[0].ExpenseDate.Day(); got != 3 {
		t.Errorf("expected newest-first ordering, got day %d", got)
	}
}
