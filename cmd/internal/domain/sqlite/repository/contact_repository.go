package repository

import (
	"gorm.io/gorm"
	"safesound/cmd/internal/domain/entity"
)

type DefaultContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *DefaultContactRepository {
	return &DefaultContactRepository{db: db}
}

// FindByUserID returns the user's emergency contacts in the order the
// user arranged them.
func (c *DefaultContactRepository) FindByUserID(userID int64) ([]*entity.EmergencyContact, error) {
	var contacts []*entity.EmergencyContact
	err := c.db.
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *DefaultContactRepository) Save(contact *entity.EmergencyContact) error {
	return c.db.Save(contact).Error
}
