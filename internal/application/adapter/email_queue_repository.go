package adapter

import (
	"context"
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// EmailQueueRepository stores outbound email jobs. Several workers may drain
// the same queue; ClaimDue hands each job to exactly one of them.
type EmailQueueRepository interface {
	// Enqueue stores a pending job, joining the caller's transaction if any.
	Enqueue(ctx context.Context, job *entity.EmailJob) error

	// ClaimDue moves up to limit jobs that are pending and due at now into
	// processing and returns them, oldest schedule first.
	ClaimDue(ctx context.Context, limit int, now time.Time) ([]*entity.EmailJob, error)

	// RequeueStale returns jobs claimed before cutoff that never finished to pending.
	RequeueStale(ctx context.Context, cutoff time.Time) (int64, error)

	// Update saves the outcome of a claimed job.
	Update(ctx context.Context, job *entity.EmailJob) error
}
