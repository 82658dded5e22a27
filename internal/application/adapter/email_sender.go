package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider.
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// BudgetAlertInput carries what the alert email shows.
type BudgetAlertInput struct {
	UserEmail       string
	UserName        string
	BudgetID        uuid.UUID
	CategoryName    string
	Year            int
	Month           int
	AmountLimit     decimal.Decimal
	SpentAmount     decimal.Decimal
	UsagePercentage decimal.Decimal
	AlertThreshold  int
}

// AlertNotifier queues budget alert emails. Implementations must write through ctx
// so the job commits or rolls back with the surrounding transaction.
type AlertNotifier interface {
	QueueBudgetAlert(ctx context.Context, input BudgetAlertInput) error
}
