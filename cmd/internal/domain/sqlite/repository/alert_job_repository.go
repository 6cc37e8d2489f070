package repository

import (
	"errors"
	"gorm.io/gorm"
	"safesound/cmd/internal/domain/entity"
)

type DefaultAlertJobRepository struct {
	db *gorm.DB
}

func NewAlertJobRepository(db *gorm.DB) *DefaultAlertJobRepository {
	return &DefaultAlertJobRepository{db: db}
}

func (a *DefaultAlertJobRepository) FindByID(id string) (*entity.AlertJob, error) {
	var job entity.AlertJob
	err := a.db.Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (a *DefaultAlertJobRepository) FindByUserID(userID int64) ([]*entity.AlertJob, error) {
	var jobs []*entity.AlertJob
	err := a.db.Where("user_id = ?", userID).Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// HasOpenJob reports whether a scheduled or already-sent job of the given
// kind exists that was created after `newerThan` (the user's current last
// check-in). Jobs from an older liveness epoch never count, which is what
// lets a fresh alert cycle start after the user checks in and goes silent
// again.
func (a *DefaultAlertJobRepository) HasOpenJob(userID int64, kind entity.AlertKind, newerThan int64) (bool, error) {
	var count int64
	err := a.db.Model(&entity.AlertJob{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Where("status IN ?", []entity.AlertStatus{entity.AlertStatusScheduled, entity.AlertStatusSent}).
		Where("created_at > ?", newerThan).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBatch persists all jobs of one scan pass in a single transaction,
// so a storage failure never leaves a half-written pass behind.
func (a *DefaultAlertJobRepository) CreateBatch(jobs []*entity.AlertJob) error {
	if len(jobs) == 0 {
		return nil
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&jobs).Error
	})
}

// FindDue returns up to `limit` scheduled jobs whose delivery time has
// arrived. No ordering is guaranteed across users.
func (a *DefaultAlertJobRepository) FindDue(now int64, limit int) ([]*entity.AlertJob, error) {
	var jobs []*entity.AlertJob
	err := a.db.
		Where("status = ? AND scheduled_for <= ?", entity.AlertStatusScheduled, now).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkSent moves a job out of scheduled into sent. The WHERE clause on the
// current status makes the transition compare-and-set: the returned bool is
// false when another pass (or a cancellation) already resolved the job.
func (a *DefaultAlertJobRepository) MarkSent(id string, now int64) (bool, error) {
	result := a.db.Model(&entity.AlertJob{}).
		Where("id = ? AND status = ?", id, entity.AlertStatusScheduled).
		Updates(map[string]any{"status": entity.AlertStatusSent, "sent_at": now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed is terminal; failed deliveries are not retried.
func (a *DefaultAlertJobRepository) MarkFailed(id string, now int64, lastError string) (bool, error) {
	result := a.db.Model(&entity.AlertJob{}).
		Where("id = ? AND status = ?", id, entity.AlertStatusScheduled).
		Updates(map[string]any{
			"status":     entity.AlertStatusFailed,
			"failed_at":  now,
			"last_error": lastError,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
