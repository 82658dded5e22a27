package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// emailQueueRepository stores email jobs in the email_jobs table.
// Enqueue joins the caller's transaction so an alert job commits with its budget.
type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository creates a new email queue repository instance.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{db: db}
}

func (r *emailQueueRepository) Enqueue(ctx context.Context, job *entity.EmailJob) error {
	if err := dbFromContext(ctx, r.db).Create(model.EmailJobFromEntity(job)).Error; err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, "failed to enqueue email job", err)
	}
	return nil
}

// ClaimDue selects due candidates, then claims each one with a conditional
// update. A candidate another worker claimed first is skipped.
func (r *emailQueueRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]*entity.EmailJob, error) {
	db := dbFromContext(ctx, r.db)

	var candidates []model.EmailJobModel
	err := db.
		Where("status = ? AND scheduled_at <= ?", string(entity.EmailStatusPending), now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	claimed := make([]*entity.EmailJob, 0, len(candidates))
	for i := range candidates {
		result := db.Model(&model.EmailJobModel{}).
			Where("id = ? AND status = ?", candidates[i].ID, string(entity.EmailStatusPending)).
			Updates(map[string]any{
				"status":     string(entity.EmailStatusProcessing),
				"claimed_at": now,
			})
		if result.Error != nil {
			return claimed, result.Error
		}
		if result.RowsAffected != 1 {
			continue
		}

		job := candidates[i].ToEntity()
		job.MarkProcessing(now)
		claimed = append(claimed, job)
	}
	return claimed, nil
}

func (r *emailQueueRepository) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).Model(&model.EmailJobModel{}).
		Where("status = ? AND claimed_at < ?", string(entity.EmailStatusProcessing), cutoff).
		Updates(map[string]any{
			"status":     string(entity.EmailStatusPending),
			"claimed_at": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *emailQueueRepository) Update(ctx context.Context, job *entity.EmailJob) error {
	return dbFromContext(ctx, r.db).Save(model.EmailJobFromEntity(job)).Error
}
