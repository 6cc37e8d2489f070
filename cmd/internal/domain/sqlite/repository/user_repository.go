package repository

import (
	"errors"
	"gorm.io/gorm"
	"safesound/cmd/internal/domain/entity"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id int64) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindActiveBySub(sub string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("sub_uuid = ?", sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActivePage returns up to `limit` active users ordered by how long
// they have been silent, longest first. Users past their threshold are
// therefore always at the head of the page, so a pass cap never starves
// an overdue user. Users who never checked in are excluded outright:
// they have no liveness epoch to miss, and with last_seen_at = 0 they
// would otherwise permanently occupy the head of the page.
func (u *DefaultUserRepository) FindActivePage(limit int) ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.
		Where("active = ? AND suspended = ? AND last_seen_at > 0", true, false).
		Order("last_seen_at ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}
