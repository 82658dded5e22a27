package steps

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// registerEmailSteps registers email queue and provider steps.
func registerEmailSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^(\d+) email jobs? should be (pending|sent|failed)$`, emailJobsShouldBe)
	ctx.Step(`^the email worker processes the queue$`, theEmailWorkerProcessesTheQueue)
	ctx.Step(`^the email provider rejects the next email with status (\d+) and message "([^"]*)"$`, theEmailProviderRejectsTheNextEmail)
	ctx.Step(`^the email provider should have received (\d+) emails?$`, theEmailProviderShouldHaveReceived)
	ctx.Step(`^the email provider should have received an email to "([^"]*)" with subject containing "([^"]*)"$`, theEmailProviderShouldHaveReceivedEmailTo)
}

func emailJobsShouldBe(ctx context.Context, count int64, status string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}

	var actual int64
	if err := tc.db.DbConn.Model(&model.EmailJobModel{}).Where("status = ?", status).Count(&actual).Error; err != nil {
		return err
	}
	if actual != count {
		return fmt.Errorf("expected %d %s email jobs, got %d", count, status, actual)
	}
	return nil
}

func theEmailWorkerProcessesTheQueue(ctx context.Context) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	if tc.injector.EmailWorker == nil {
		return fmt.Errorf("email worker is not enabled")
	}
	tc.injector.EmailWorker.ProcessNow(ctx)
	return nil
}

func theEmailProviderRejectsTheNextEmail(ctx context.Context, status int, message string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	tc.emailAPI.QueueResponse(http.MethodPost, emailSendPath, status, map[string]any{
		"statusCode": status,
		"name":       "provider_error",
		"message":    message,
	})
	return nil
}

func theEmailProviderShouldHaveReceived(ctx context.Context, count int) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}
	if actual := len(tc.emailAPI.Requests(http.MethodPost, emailSendPath)); actual != count {
		return fmt.Errorf("expected %d emails sent to the provider, got %d", count, actual)
	}
	return nil
}

func theEmailProviderShouldHaveReceivedEmailTo(ctx context.Context, recipient, subject string) error {
	tc, err := testContext(ctx)
	if err != nil {
		return err
	}

	for _, req := range tc.emailAPI.Requests(http.MethodPost, emailSendPath) {
		to := fmt.Sprintf("%v", req.Body["to"])
		actualSubject := fmt.Sprintf("%v", req.Body["subject"])
		if strings.Contains(to, recipient) && strings.Contains(actualSubject, subject) {
			return nil
		}
	}
	return fmt.Errorf("no email to %s with subject containing %q was sent", recipient, subject)
}
