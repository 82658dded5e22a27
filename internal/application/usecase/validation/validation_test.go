package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	s.categories[category.ID] = category
	return nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, domainerror.ErrCategoryNotFound
}

func (s *stubCategoryRepo) EnsureGlobal(ctx context.Context, categories []*entity.Category) (int, error) {
	return 0, nil
}

func TestAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0.01", false},
		{"10.50", false},
		{"0.00", true},
		{"0.004", true},
		{"-5", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := Amount(decimal.RequireFromString(tt.amount))
			if (err != nil) != tt.wantErr {
				t.Errorf("Amount(%s) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestOccurrenceDate(t *testing.T) {
	now := time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)

	if err := OccurrenceDate(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), now); err != nil {
		t.Errorf("today should be accepted, got %v", err)
	}
	if err := OccurrenceDate(time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC), now); !errors.Is(err, domainerror.ErrFutureDate) {
		t.Errorf("tomorrow should be rejected, got %v", err)
	}
}

func TestRecurrence(t *testing.T) {
	tests := []struct {
		name        string
		isRecurring bool
		unit        entity.RecurrenceUnit
		wantErr     error
	}{
		{"one-off without unit", false, "", nil},
		{"recurring monthly", true, entity.RecurrenceMonthly, nil},
		{"recurring without unit", true, "", domainerror.ErrMissingRecurrenceUnit},
		{"one-off with unit", false, entity.RecurrenceWeekly, domainerror.ErrUnexpectedRecurrenceUnit},
		{"unknown unit", true, "HOURLY", domainerror.ErrInvalidRecurrenceUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Recurrence(tt.isRecurring, tt.unit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recurrence() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	userID := uuid.New()
	otherUser := uuid.New()

	global := entity.NewCategory("Food", "", "", entity.CategoryTypeExpense, nil)
	owned := entity.NewCategory("Hobby", "", "", entity.CategoryTypeExpense, &userID)
	foreign := entity.NewCategory("Secret", "", "", entity.CategoryTypeExpense, &otherUser)
	salary := entity.NewCategory("Salary", "", "", entity.CategoryTypeIncome, nil)
	missing := uuid.New()

	repo := &stubCategoryRepo{categories: map[uuid.UUID]*entity.Category{
		global.ID: global, owned.ID: owned, foreign.ID: foreign, salary.ID: salary,
	}}

	tests := []struct {
		name    string
		id      *uuid.UUID
		wantErr error
	}{
		{"nil category", nil, nil},
		{"global category", &global.ID, nil},
		{"owned category", &owned.ID, nil},
		{"foreign category", &foreign.ID, domainerror.ErrCategoryNotVisible},
		{"income category for expense", &salary.ID, domainerror.ErrCategoryTypeMismatch},
		{"missing category", &missing, domainerror.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Category(context.Background(), repo, userID, tt.id, entity.CategoryTypeExpense)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Category() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && !IsCategoryError(err) {
				t.Errorf("IsCategoryError(%v) = false", err)
			}
		})
	}
}
