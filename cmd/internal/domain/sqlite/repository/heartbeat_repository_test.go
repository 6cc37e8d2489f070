package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/domain/sqlite"
)

func TestRecordCheckIn_AdvancesLivenessAndCancelsScheduled(t *testing.T) {
	db, err := sqlite.InitInMemory()
	require.NoError(t, err)

	userRepo := NewUserRepository(db)
	alertRepo := NewAlertJobRepository(db)
	hbRepo := NewHeartbeatRepository(db)

	user := &entity.User{ID: 7, SubUUID: "sub-7", Username: "ana", Email: "ana@x.com",
		LastSeenAt: 1000, ThresholdHours: 24, Timezone: "UTC", Active: true}
	require.NoError(t, userRepo.Save(user))

	scheduled := newJob(7, entity.AlertKindPreNotification, entity.AlertStatusScheduled, 2000)
	sent := newJob(7, entity.AlertKindEmailAlert, entity.AlertStatusSent, 2000)
	otherUser := newJob(8, entity.AlertKindPreNotification, entity.AlertStatusScheduled, 2000)
	require.NoError(t, alertRepo.CreateBatch([]*entity.AlertJob{scheduled, sent, otherUser}))

	hb := &entity.Heartbeat{ID: 1, UserID: 7, Timestamp: 5000,
		Timezone: "Europe/Lisbon", DeviceInfo: "{}", CreatedAt: 5000}
	require.NoError(t, hbRepo.RecordCheckIn(hb))

	// Liveness record advanced.
	updated, err := userRepo.FindByID(7)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.LastSeenAt)
	assert.Equal(t, "Europe/Lisbon", updated.Timezone)

	// Scheduled job cancelled, terminal job untouched, other users untouched.
	stored, err := alertRepo.FindByID(scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusCancelled, stored.Status)
	assert.Equal(t, int64(5000), stored.CancelledAt)

	stored, err = alertRepo.FindByID(sent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusSent, stored.Status)

	stored, err = alertRepo.FindByID(otherUser.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusScheduled, stored.Status)

	// Audit row persisted.
	beats, err := hbRepo.FindByUserID(7)
	require.NoError(t, err)
	require.Len(t, beats, 1)
	assert.Equal(t, int64(5000), beats[0].Timestamp)
}

func TestFindActivePage_OrdersBySilence(t *testing.T) {
	db, err := sqlite.InitInMemory()
	require.NoError(t, err)

	userRepo := NewUserRepository(db)
	require.NoError(t, userRepo.Save(&entity.User{ID: 1, SubUUID: "a", Username: "a", Email: "a@x.com", LastSeenAt: 300, Active: true}))
	require.NoError(t, userRepo.Save(&entity.User{ID: 2, SubUUID: "b", Username: "b", Email: "b@x.com", LastSeenAt: 100, Active: true}))
	require.NoError(t, userRepo.Save(&entity.User{ID: 3, SubUUID: "c", Username: "c", Email: "c@x.com", LastSeenAt: 200, Active: false}))
	require.NoError(t, userRepo.Save(&entity.User{ID: 4, SubUUID: "d", Username: "d", Email: "d@x.com", LastSeenAt: 50, Active: true, Suspended: true}))

	users, err := userRepo.FindActivePage(10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Longest silent first; inactive and suspended excluded.
	assert.Equal(t, int64(2), users[0].ID)
	assert.Equal(t, int64(1), users[1].ID)
}

// Accounts that never checked in have no liveness epoch and sort as the
// most silent of all. They must be excluded from the page, or enough of
// them would fill every page and an overdue user would never be scanned.
func TestFindActivePage_NeverCheckedInDoNotCrowdOutOverdue(t *testing.T) {
	db, err := sqlite.InitInMemory()
	require.NoError(t, err)

	userRepo := NewUserRepository(db)
	// More never-checked-in accounts than the page holds.
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, userRepo.Save(&entity.User{ID: i, SubUUID: fmt.Sprintf("n-%d", i),
			Username: "n", Email: "n@x.com", Active: true}))
	}
	require.NoError(t, userRepo.Save(&entity.User{ID: 6, SubUUID: "o", Username: "o",
		Email: "o@x.com", LastSeenAt: 100, Active: true}))

	users, err := userRepo.FindActivePage(3)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(6), users[0].ID)
}

// gorm omits zero-valued fields for columns carrying a default tag, so a
// default:true on Active would store a deactivated account as active.
func TestSave_PersistsInactiveAccount(t *testing.T) {
	db, err := sqlite.InitInMemory()
	require.NoError(t, err)

	userRepo := NewUserRepository(db)
	require.NoError(t, userRepo.Save(&entity.User{ID: 9, SubUUID: "i", Username: "i",
		Email: "i@x.com", LastSeenAt: 100, Active: false}))

	stored, err := userRepo.FindByID(9)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}
