package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func TestCreateBudgetUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds spent amount from existing expenses", func(t *testing.T) {
		f := newFixture()
		f.addExpense("40.00", time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC))
		uc := NewCreateBudgetUseCase(f.store.Budgets(), f.store.Categories(), f.sync, f.store, 80)

		out, err := uc.Execute(ctx, CreateBudgetInput{
			UserID:      f.user.ID,
			CategoryID:  &f.category.ID,
			Year:        2024,
			Month:       2,
			AmountLimit: dec("200"),
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !out.Budget.SpentAmount.Equal(dec("40")) {
			t.Errorf("SpentAmount = %s, want 40", out.Budget.SpentAmount)
		}
		if out.Budget.AlertThreshold != 80 {
			t.Errorf("AlertThreshold = %d, want 80", out.Budget.AlertThreshold)
		}
		if !out.Budget.RemainingAmount.Equal(dec("160")) {
			t.Errorf("RemainingAmount = %s, want 160", out.Budget.RemainingAmount)
		}
	})

	t.Run("rejects a duplicate bucket", func(t *testing.T) {
		f := newFixture()
		f.addBudget("100", 2024, 2)
		uc := NewCreateBudgetUseCase(f.store.Budgets(), f.store.Categories(), f.sync, f.store, 80)

		_, err := uc.Execute(ctx, CreateBudgetInput{
			UserID: f.user.ID, CategoryID: &f.category.ID, Year: 2024, Month: 2, AmountLimit: dec("50"),
		})
		if !errors.Is(err, domainerror.ErrBudgetAlreadyExists) {
			t.Errorf("expected ErrBudgetAlreadyExists, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture()
		uc := NewCreateBudgetUseCase(f.store.Budgets(), f.store.Categories(), f.sync, f.store, 80)
		tooHigh := 101
		missing := uuid.New()

		tests := []struct {
			name    string
			input   CreateBudgetInput
			wantErr error
		}{
			{"zero limit", CreateBudgetInput{UserID: f.user.ID, Year: 2024, Month: 1, AmountLimit: dec("0")}, domainerror.ErrInvalidBudgetLimit},
			{"bad month", CreateBudgetInput{UserID: f.user.ID, Year: 2024, Month: 13, AmountLimit: dec("10")}, domainerror.ErrInvalidBudgetPeriod},
			{"threshold above 100", CreateBudgetInput{UserID: f.user.ID, Year: 2024, Month: 1, AmountLimit: dec("10"), AlertThreshold: &tooHigh}, domainerror.ErrInvalidAlertThreshold},
			{"unknown category", CreateBudgetInput{UserID: f.user.ID, CategoryID: &missing, Year: 2024, Month: 1, AmountLimit: dec("10")}, domainerror.ErrCategoryNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := uc.Execute(ctx, tt.input)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	})
}

func TestUpdateAndDeleteBudgetUseCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.addBudget("100", 2024, 2)

	update := NewUpdateBudgetUseCase(f.store.Budgets(), f.store)
	newLimit := dec("250")
	out, err := update.Execute(ctx, UpdateBudgetInput{UserID: f.user.ID, BudgetID: b.ID, AmountLimit: &newLimit})
	if err != nil {
		t.Fatalf("update error = %v", err)
	}
	if !out.Budget.AmountLimit.Equal(newLimit) {
		t.Errorf("AmountLimit = %s, want 250", out.Budget.AmountLimit)
	}
	if out.Budget.Version != 1 {
		t.Errorf("Version = %d, want 1", out.Budget.Version)
	}

	_, err = update.Execute(ctx, UpdateBudgetInput{UserID: uuid.New(), BudgetID: b.ID, AmountLimit: &newLimit})
	if !errors.Is(err, domainerror.ErrBudgetNotFound) {
		t.Errorf("expected not found for another user, got %v", err)
	}

	del := NewDeleteBudgetUseCase(f.store.Budgets(), f.store)
	if err := del.Execute(ctx, DeleteBudgetInput{UserID: f.user.ID, BudgetID: b.ID}); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	stored, _ := f.store.Budget(b.ID)
	if stored.Active {
		t.Error("expected budget to be inactive")
	}

	get := NewGetBudgetUseCase(f.store.Budgets())
	if _, err := get.Execute(ctx, GetBudgetInput{UserID: f.user.ID, BudgetID: b.ID}); !errors.Is(err, domainerror.ErrBudgetNotFound) {
		t.Errorf("expected deleted budget to be hidden, got %v", err)
	}
}

func TestResyncBudgetUseCase_RollsBackOnConflict(t *testing.T) {
	f := newFixture()
	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	b := f.addBudget("1000.00", 2024, 3)
	f.addExpense("900.00", date)
	f.store.BeforeSave = func(id uuid.UUID) { f.store.BumpVersion(id) }

	uc := NewResyncBudgetUseCase(f.sync, f.store)
	_, err := uc.Execute(context.Background(), ResyncBudgetInput{UserID: f.user.ID, CategoryID: &f.category.ID, Date: date})
	if !domainerror.IsRetryable(err) {
		t.Fatalf("expected retryable conflict, got %v", err)
	}

	if len(f.store.Alerts()) != 0 {
		t.Error("alert queued in a rolled back transaction must disappear")
	}
	stored, _ := f.store.Budget(b.ID)
	if stored.Version != 0 {
		t.Errorf("bumped version must be rolled back, got %d", stored.Version)
	}
}
