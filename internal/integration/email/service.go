// Package email queues and delivers notification emails.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Service queues notification emails for the worker.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueBudgetAlert queues a budget alert email. The job is written through ctx,
// so it commits together with the budget that raised it.
func (s *Service) QueueBudgetAlert(ctx context.Context, input adapter.BudgetAlertInput) error {
	category := input.CategoryName
	if category == "" {
		category = "overall"
	}
	period := time.Date(input.Year, time.Month(input.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")

	subject := fmt.Sprintf("Budget alert: %s%% of your %s budget used", input.UsagePercentage.StringFixed(2), category)

	templateData := map[string]interface{}{
		"user_name":        input.UserName,
		"category_name":    category,
		"period":           period,
		"amount_limit":     input.AmountLimit.StringFixed(2),
		"spent_amount":     input.SpentAmount.StringFixed(2),
		"remaining_amount": input.AmountLimit.Sub(input.SpentAmount).StringFixed(2),
		"usage_percentage": input.UsagePercentage.StringFixed(2),
		"alert_threshold":  fmt.Sprintf("%d", input.AlertThreshold),
		"budget_url":       fmt.Sprintf("%s/budgets/%s", s.appBaseURL, input.BudgetID),
	}

	job := entity.NewEmailJob(
		entity.TemplateBudgetAlert,
		input.UserEmail,
		input.UserName,
		subject,
		templateData,
	)

	if err := s.queue.Enqueue(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue budget alert email",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.AlertNotifier.
var _ adapter.AlertNotifier = (*Service)(nil)
