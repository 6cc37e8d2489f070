package repository

import (
	"gorm.io/gorm"
	"safesound/cmd/internal/domain/entity"
)

type DefaultHeartbeatRepository struct {
	db *gorm.DB
}

func NewHeartbeatRepository(db *gorm.DB) *DefaultHeartbeatRepository {
	return &DefaultHeartbeatRepository{db: db}
}

// RecordCheckIn applies one heartbeat as a single transaction: the audit
// row is written, the user's liveness record is advanced and every still
// scheduled alert job of that user is cancelled. All-or-nothing; a
// concurrent dispatcher pass can never observe a half-cancelled state.
func (h *DefaultHeartbeatRepository) RecordCheckIn(hb *entity.Heartbeat) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(hb).Error; err != nil {
			return err
		}

		err := tx.Model(&entity.User{}).
			Where("id = ?", hb.UserID).
			Updates(map[string]any{
				"last_seen_at": hb.Timestamp,
				"timezone":     hb.Timezone,
				"updated_at":   hb.Timestamp,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&entity.AlertJob{}).
			Where("user_id = ? AND status = ?", hb.UserID, entity.AlertStatusScheduled).
			Updates(map[string]any{
				"status":       entity.AlertStatusCancelled,
				"cancelled_at": hb.Timestamp,
			}).Error
	})
}

func (h *DefaultHeartbeatRepository) FindByUserID(userID int64) ([]*entity.Heartbeat, error) {
	var beats []*entity.Heartbeat
	err := h.db.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&beats).Error
	if err != nil {
		return nil, err
	}
	return beats, nil
}
