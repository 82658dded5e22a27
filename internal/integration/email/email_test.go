package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
)

type memoryQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]entity.EmailJob
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{jobs: map[uuid.UUID]entity.EmailJob{}}
}

func (q *memoryQueue) Enqueue(ctx context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = *job
	return nil
}

func (q *memoryQueue) ClaimDue(ctx context.Context, limit int, now time.Time) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for id, job := range q.jobs {
		if len(out) == limit {
			break
		}
		if !job.IsDue(now) {
			continue
		}
		job.MarkProcessing(now)
		q.jobs[id] = job
		claimed := job
		out = append(out, &claimed)
	}
	return out, nil
}

func (q *memoryQueue) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int64
	for id, job := range q.jobs {
		if job.IsStale(cutoff) {
			job.Status = entity.EmailStatusPending
			job.ClaimedAt = nil
			q.jobs[id] = job
			n++
		}
	}
	return n, nil
}

func (q *memoryQueue) Update(ctx context.Context, job *entity.EmailJob) error {
	return q.Enqueue(ctx, job)
}

func (q *memoryQueue) get(t *testing.T, id uuid.UUID) entity.EmailJob {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		t.Fatalf("job %s not in queue", id)
	}
	return job
}

func (q *memoryQueue) only(t *testing.T) entity.EmailJob {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) != 1 {
		t.Fatalf("expected one queued job, got %d", len(q.jobs))
	}
	for _, job := range q.jobs {
		return job
	}
	return entity.EmailJob{}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []adapter.SendEmailInput
	err  error
}

func (s *recordingSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, input)
	return &adapter.SendEmailResult{ProviderID: "msg-1"}, nil
}

func alertInput() adapter.BudgetAlertInput {
	return adapter.BudgetAlertInput{
		UserEmail:       "ana@example.com",
		UserName:        "Ana",
		BudgetID:        uuid.New(),
		CategoryName:    "Groceries",
		Year:            2024,
		Month:           6,
		AmountLimit:     decimal.RequireFromString("1000"),
		SpentAmount:     decimal.RequireFromString("850"),
		UsagePercentage: decimal.RequireFromString("85"),
		AlertThreshold:  80,
	}
}

func queueOneAlert(t *testing.T) (*memoryQueue, entity.EmailJob) {
	t.Helper()
	queue := newMemoryQueue()
	if err := NewService(queue, "https://app.example.com").QueueBudgetAlert(context.Background(), alertInput()); err != nil {
		t.Fatalf("queue alert: %v", err)
	}
	return queue, queue.only(t)
}

func TestService_QueueBudgetAlert(t *testing.T) {
	_, job := queueOneAlert(t)

	if job.TemplateType != entity.TemplateBudgetAlert {
		t.Errorf("unexpected template %s", job.TemplateType)
	}
	if job.Subject != "Budget alert: 85.00% of your Groceries budget used" {
		t.Errorf("unexpected subject %q", job.Subject)
	}
	if job.TemplateData["remaining_amount"] != "150.00" || job.TemplateData["period"] != "June 2024" {
		t.Errorf("unexpected template data %v", job.TemplateData)
	}
}

func TestWorker_DeliversBudgetAlert(t *testing.T) {
	ctx := context.Background()
	queue, job := queueOneAlert(t)
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	sender := &recordingSender{}

	NewWorker(queue, sender, renderer, DefaultWorkerConfig()).ProcessNow(ctx)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	for _, body := range []string{sender.sent[0].HTML, sender.sent[0].Text} {
		if !strings.Contains(body, "85.00%") || !strings.Contains(body, "Groceries") {
			t.Errorf("body misses alert details: %s", body)
		}
	}

	stored := queue.get(t, job.ID)
	if stored.Status != entity.EmailStatusSent || stored.ProviderID != "msg-1" {
		t.Errorf("expected sent job, got %+v", stored)
	}
}

func TestWorker_RetriesTemporaryFailures(t *testing.T) {
	ctx := context.Background()
	queue, job := queueOneAlert(t)
	renderer, _ := templates.NewRenderer()

	tests := []struct {
		name       string
		err        error
		wantStatus entity.EmailStatus
	}{
		{
			name:       "temporary",
			err:        domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary email failure", errors.New("503")),
			wantStatus: entity.EmailStatusPending,
		},
		{
			name:       "permanent",
			err:        domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "permanent email failure", errors.New("422")),
			wantStatus: entity.EmailStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := queue.get(t, job.ID)
			stored.Status = entity.EmailStatusPending
			stored.ScheduledAt = time.Now().UTC().Add(-time.Second)
			_ = queue.Update(ctx, &stored)

			NewWorker(queue, &recordingSender{err: tt.err}, renderer, DefaultWorkerConfig()).ProcessNow(ctx)

			stored = queue.get(t, job.ID)
			if stored.Status != tt.wantStatus {
				t.Errorf("expected %s, got %s", tt.wantStatus, stored.Status)
			}
		})
	}
}

func TestWorker_RequeuesStaleClaims(t *testing.T) {
	ctx := context.Background()
	queue, job := queueOneAlert(t)
	renderer, _ := templates.NewRenderer()

	// A worker that died mid-send left the job claimed an hour ago.
	claimedAt := time.Now().UTC().Add(-time.Hour)
	job.MarkProcessing(claimedAt)
	_ = queue.Update(ctx, &job)

	sender := &recordingSender{}
	NewWorker(queue, sender, renderer, WorkerConfig{StaleAfter: 10 * time.Minute}).ProcessNow(ctx)

	if len(sender.sent) != 1 {
		t.Fatalf("expected the stale job to be delivered, got %d sends", len(sender.sent))
	}
	if stored := queue.get(t, job.ID); stored.Status != entity.EmailStatusSent {
		t.Errorf("expected sent, got %s", stored.Status)
	}
}

func TestWorker_LeavesFreshClaimsAlone(t *testing.T) {
	ctx := context.Background()
	queue, job := queueOneAlert(t)
	renderer, _ := templates.NewRenderer()

	job.MarkProcessing(time.Now().UTC())
	_ = queue.Update(ctx, &job)

	sender := &recordingSender{}
	NewWorker(queue, sender, renderer, DefaultWorkerConfig()).ProcessNow(ctx)

	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends for a job another worker holds, got %d", len(sender.sent))
	}
	if stored := queue.get(t, job.ID); stored.Status != entity.EmailStatusProcessing {
		t.Errorf("expected processing, got %s", stored.Status)
	}
}

func TestWorker_DeliversBatchConcurrently(t *testing.T) {
	ctx := context.Background()
	queue := newMemoryQueue()
	service := NewService(queue, "https://app.example.com")
	for i := 0; i < 7; i++ {
		if err := service.QueueBudgetAlert(ctx, alertInput()); err != nil {
			t.Fatalf("queue alert: %v", err)
		}
	}
	renderer, _ := templates.NewRenderer()
	sender := &recordingSender{}

	NewWorker(queue, sender, renderer, WorkerConfig{BatchSize: 10, Concurrency: 3}).ProcessNow(ctx)

	if len(sender.sent) != 7 {
		t.Errorf("expected 7 sends, got %d", len(sender.sent))
	}
}

func TestResendClient_Send(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_123"}`))
	}))
	defer server.Close()

	client, err := NewResendClient("re_test", "Ledger", "alerts@example.com", server.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	result, err := client.Send(context.Background(), adapter.SendEmailInput{
		To:      "ana@example.com",
		Subject: "Budget alert",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.ProviderID != "re_123" {
		t.Errorf("unexpected provider id %q", result.ProviderID)
	}
	if received["from"] != "Ledger <alerts@example.com>" {
		t.Errorf("unexpected from %v", received["from"])
	}
}

func TestResendClient_ClassifiesByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   domainerror.EmailErrorCode
	}{
		{name: "validation error", status: http.StatusUnprocessableEntity, body: `{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`, want: domainerror.ErrCodePermanentEmailFailure},
		{name: "bad api key", status: http.StatusUnauthorized, body: `{"statusCode":401,"name":"missing_api_key","message":"Missing API key"}`, want: domainerror.ErrCodePermanentEmailFailure},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"statusCode":429,"name":"rate_limit_exceeded","message":"Too many requests"}`, want: domainerror.ErrCodeTemporaryEmailFailure},
		{name: "server error mentioning invalid", status: http.StatusInternalServerError, body: `{"statusCode":500,"name":"internal_server_error","message":"invalid upstream response 400"}`, want: domainerror.ErrCodeTemporaryEmailFailure},
		{name: "bad gateway", status: http.StatusBadGateway, body: `bad gateway`, want: domainerror.ErrCodeTemporaryEmailFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewResendClient("re_test", "Ledger", "alerts@example.com", server.URL)
			if err != nil {
				t.Fatalf("client: %v", err)
			}

			_, err = client.Send(context.Background(), adapter.SendEmailInput{To: "ana@example.com", Subject: "s", HTML: "<p>hi</p>"})
			var emailErr *domainerror.EmailError
			if !errors.As(err, &emailErr) {
				t.Fatalf("expected an email error, got %v", err)
			}
			if emailErr.Code != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, emailErr.Code, err)
			}
		})
	}
}

func TestResendClient_TransportFailureIsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client, err := NewResendClient("re_test", "Ledger", "alerts@example.com", addr)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	_, err = client.Send(context.Background(), adapter.SendEmailInput{To: "ana@example.com", Subject: "s", HTML: "<p>hi</p>"})
	if err == nil || domainerror.IsPermanentEmailFailure(err) {
		t.Errorf("a refused connection must stay retryable, got %v", err)
	}
}

func TestIsPermanentStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{code: 0, want: false},
		{code: http.StatusBadRequest, want: true},
		{code: http.StatusForbidden, want: true},
		{code: http.StatusRequestTimeout, want: false},
		{code: http.StatusTooManyRequests, want: false},
		{code: http.StatusServiceUnavailable, want: false},
	}

	for _, tt := range tests {
		if got := isPermanentStatus(tt.code); got != tt.want {
			t.Errorf("isPermanentStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
