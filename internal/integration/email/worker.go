package email

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
)

// Worker drains the email queue. Several workers may share one queue.
type Worker struct {
	queue    adapter.EmailQueueRepository
	sender   adapter.EmailSender
	renderer *templates.Renderer
	config   WorkerConfig
	now      func() time.Time
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Concurrency bounds the sends in flight within one batch.
	Concurrency int
	// StaleAfter is how long a claimed job may stay in processing before
	// another poll puts it back to pending.
	StaleAfter time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
		Concurrency:  4,
		StaleAfter:   10 * time.Minute,
	}
}

// NewWorker creates a new email worker. Zero config fields fall back to defaults.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = defaults.StaleAfter
	}

	return &Worker{
		queue:    queue,
		sender:   sender,
		renderer: renderer,
		config:   config,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start polls the queue until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
		"concurrency", w.config.Concurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// ProcessNow runs one poll synchronously.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

func (w *Worker) processBatch(ctx context.Context) {
	now := w.now()

	requeued, err := w.queue.RequeueStale(ctx, now.Add(-w.config.StaleAfter))
	if err != nil {
		slog.Error("Failed to requeue stale email jobs", "error", err)
	} else if requeued > 0 {
		slog.Warn("Requeued stale email jobs", "count", requeued)
	}

	jobs, err := w.queue.ClaimDue(ctx, w.config.BatchSize, now)
	if err != nil {
		slog.Error("Failed to claim email jobs", "error", err)
	}
	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing email batch", "count", len(jobs))

	var g errgroup.Group
	g.SetLimit(w.config.Concurrency)
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		job := job
		g.Go(func() error {
			w.processJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()
}

// processJob delivers a claimed job and records the outcome.
func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"recipient", job.RecipientEmail,
	)

	html, text, err := w.render(job)
	if err != nil {
		logger.Error("Failed to render email template", "error", err)
		w.recordFailure(ctx, logger, job, err)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		logger.Error("Failed to send email", "error", err)
		w.recordFailure(ctx, logger, job, err)
		return
	}

	job.MarkSent(result.ProviderID)
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", "error", err)
		return
	}
	logger.Info("Email sent", "provider_id", result.ProviderID)
}

func (w *Worker) render(job *entity.EmailJob) (string, string, error) {
	switch job.TemplateType {
	case entity.TemplateBudgetAlert:
		return w.renderer.Render(string(job.TemplateType), templates.BudgetAlertData{
			UserName:        stringField(job.TemplateData, "user_name"),
			CategoryName:    stringField(job.TemplateData, "category_name"),
			Period:          stringField(job.TemplateData, "period"),
			AmountLimit:     stringField(job.TemplateData, "amount_limit"),
			SpentAmount:     stringField(job.TemplateData, "spent_amount"),
			RemainingAmount: stringField(job.TemplateData, "remaining_amount"),
			UsagePercentage: stringField(job.TemplateData, "usage_percentage"),
			AlertThreshold:  stringField(job.TemplateData, "alert_threshold"),
			BudgetURL:       stringField(job.TemplateData, "budget_url"),
		})
	default:
		return "", "", domainerror.NewEmailError(domainerror.ErrCodeInvalidTemplate, string(job.TemplateType), domainerror.ErrUnknownTemplate)
	}
}

func (w *Worker) recordFailure(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, err error) {
	job.MarkFailed(err, domainerror.IsPermanentEmailFailure(err))

	if updateErr := w.queue.Update(ctx, job); updateErr != nil {
		logger.Error("Failed to update job after failure", "error", updateErr)
	}

	if job.Status == entity.EmailStatusFailed {
		logger.Warn("Email job failed permanently", "attempts", job.Attempts, "last_error", job.LastError)
		return
	}
	logger.Info("Email job scheduled for retry", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt)
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}
