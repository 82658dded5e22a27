// Package budget contains budget-related use cases, including the synchronizer
// that keeps a budget's spent amount equal to the expenses in its bucket.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

const uncategorizedName = "Uncategorized"

// Synchronizer recomputes budget spending from the ledger.
// It never opens a transaction itself: callers run it inside theirs so the
// triggering write and the budget write commit together.
type Synchronizer struct {
	budgetRepo   adapter.BudgetRepository
	ledger       adapter.LedgerStore
	categoryRepo adapter.CategoryRepository
	userRepo     adapter.UserRepository
	notifier     adapter.AlertNotifier
}

// NewSynchronizer creates a new Synchronizer. notifier may be nil, in which case
// alerts are latched without queueing an email.
func NewSynchronizer(
	budgetRepo adapter.BudgetRepository,
	ledger adapter.LedgerStore,
	categoryRepo adapter.CategoryRepository,
	userRepo adapter.UserRepository,
	notifier adapter.AlertNotifier,
) *Synchronizer {
	return &Synchronizer{
		budgetRepo:   budgetRepo,
		ledger:       ledger,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// Resync recomputes the budget covering (userID, categoryID, month of date).
// It returns nil without error when no budget covers the bucket.
func (s *Synchronizer) Resync(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, date time.Time) (*entity.Budget, error) {
	return s.ResyncBucket(ctx, entity.BucketFor(userID, categoryID, date))
}

// ResyncBucket recomputes the budget of one bucket and saves it with a version check.
// A concurrent modification surfaces as a retryable BudgetError.
func (s *Synchronizer) ResyncBucket(ctx context.Context, bucket entity.BudgetBucket) (*entity.Budget, error) {
	budget, err := s.budgetRepo.FindByBucket(ctx, bucket)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find budget for bucket %s: %w", bucket, err)
	}

	spent, err := s.ledger.SumExpenseForBucket(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses for bucket %s: %w", bucket, err)
	}

	expectedVersion := budget.Version
	budget.SpentAmount = spent.Round(2)
	budget.UpdatedAt = time.Now().UTC()

	if budget.ShouldAlert() {
		if err := s.queueAlert(ctx, budget); err != nil {
			return nil, err
		}
		budget.MarkAlertSent()
	}

	if err := saveBudget(ctx, s.budgetRepo, expectedVersion, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

func (s *Synchronizer) queueAlert(ctx context.Context, budget *entity.Budget) error {
	if s.notifier == nil {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, budget.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			slog.Warn("budget alert skipped, user not found", "budget_id", budget.ID, "user_id", budget.UserID)
			return nil
		}
		return fmt.Errorf("failed to load user for budget alert: %w", err)
	}
	if !user.WantsBudgetAlerts() {
		return nil
	}

	categoryName := uncategorizedName
	if budget.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *budget.CategoryID)
		switch {
		case err == nil:
			categoryName = category.Name
		case errors.Is(err, domainerror.ErrCategoryNotFound):
			categoryName = "Unknown category"
		default:
			return fmt.Errorf("failed to load category for budget alert: %w", err)
		}
	}

	err = s.notifier.QueueBudgetAlert(ctx, adapter.BudgetAlertInput{
		UserEmail:       user.Email,
		UserName:        user.DisplayName(),
		BudgetID:        budget.ID,
		CategoryName:    categoryName,
		Year:            budget.Year,
		Month:           budget.Month,
		AmountLimit:     budget.AmountLimit,
		SpentAmount:     budget.SpentAmount,
		UsagePercentage: budget.UsagePercentage(),
		AlertThreshold:  budget.AlertThreshold,
	})
	if err != nil {
		return fmt.Errorf("failed to queue budget alert: %w", err)
	}

	slog.Info("budget alert queued",
		"budget_id", budget.ID,
		"usage_percentage", budget.UsagePercentage().String(),
	)
	return nil
}
