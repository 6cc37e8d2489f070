package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/domain/sqlite"
	"safesound/cmd/internal/domain/sqlite/repository"
)

const hourMillis = int64(60 * 60 * 1000)

type fixture struct {
	db          *gorm.DB
	userRepo    *repository.DefaultUserRepository
	contactRepo *repository.DefaultContactRepository
	alertRepo   *repository.DefaultAlertJobRepository
	hbRepo      *repository.DefaultHeartbeatRepository
	safetyCheck *SafetyCheckService
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.InitInMemory()
	require.NoError(t, err)

	f := &fixture{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		contactRepo: repository.NewContactRepository(db),
		alertRepo:   repository.NewAlertJobRepository(db),
		hbRepo:      repository.NewHeartbeatRepository(db),
	}
	f.safetyCheck = NewSafetyCheckService(f.userRepo, f.contactRepo, f.alertRepo)
	return f
}

func (f *fixture) addUser(t *testing.T, id int64, lastSeen int64, thresholdHours int) *entity.User {
	t.Helper()
	user := &entity.User{
		ID: id, SubUUID: "sub-" + string(rune('a'+id)), Username: "user",
		Email: "user@x.com", LastSeenAt: lastSeen, ThresholdHours: thresholdHours,
		Timezone: "UTC", Active: true,
	}
	require.NoError(t, f.userRepo.Save(user))
	return user
}

func (f *fixture) addContact(t *testing.T, userID int64, email string, position int) {
	t.Helper()
	require.NoError(t, f.contactRepo.Save(&entity.EmergencyContact{
		UserID: userID, Email: email, Position: position,
	}))
}

func (f *fixture) jobsFor(t *testing.T, userID int64) []*entity.AlertJob {
	t.Helper()
	jobs, err := f.alertRepo.FindByUserID(userID)
	require.NoError(t, err)
	return jobs
}

func TestRunScanPass_PreNotificationWindow(t *testing.T) {
	f := setupFixture(t)
	now := 100 * 24 * hourMillis

	// 69h silent with a 72h threshold: inside the 3h warning window.
	f.addUser(t, 1, now-69*hourMillis, 72)

	report, err := f.safetyCheck.RunScanPass(now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PreNotifications)
	assert.Equal(t, 0, report.EmailAlerts)

	jobs := f.jobsFor(t, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.AlertKindPreNotification, jobs[0].Kind)
	assert.Equal(t, entity.AlertStatusScheduled, jobs[0].Status)
	assert.Equal(t, now, jobs[0].ScheduledFor)
	assert.Equal(t, now-69*hourMillis, jobs[0].SnapshotLastSeenAt)
}

func TestRunScanPass_HardThreshold(t *testing.T) {
	f := setupFixture(t)
	now := 100 * 24 * hourMillis

	// One minute past 72h: the hard window, not the warning window.
	f.addUser(t, 1, now-(72*hourMillis+60_000), 72)
	f.addContact(t, 1, "c1@x.com", 0)
	f.addContact(t, 1, "c2@x.com", 1)

	report, err := f.safetyCheck.RunScanPass(now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.PreNotifications)
	assert.Equal(t, 1, report.EmailAlerts)

	jobs := f.jobsFor(t, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.AlertKindEmailAlert, jobs[0].Kind)

	contacts, err := jobs[0].Contacts()
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "c1@x.com", contacts[0].Email)
	assert.Equal(t, "c2@x.com", contacts[1].Email)
}

func TestRunScanPass_BelowWindowCreatesNothing(t *testing.T) {
	f := setupFixture(t)
	now := 100 * 24 * hourMillis

	// 68h59m silent with a 72h threshold: not yet in the warning window.
	f.addUser(t, 1, now-(69*hourMillis-60_000), 72)

	report, err := f.safetyCheck.RunScanPass(now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.PreNotifications)
	assert.Equal(t, 0, report.EmailAlerts)
	assert.Empty(t, f.jobsFor(t, 1))
}

func TestRunScanPass_NeverCheckedInIsSkipped(t *testing.T) {
	f := setupFixture(t)

	f.addUser(t, 1, 0, 24)
	f.addContact(t, 1, "c@x.com", 0)

	report, err := f.safetyCheck.RunScanPass(100 * 24 * hourMillis)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersChecked)
	assert.Equal(t, 0, report.EmailAlerts)
	assert.Empty(t, f.jobsFor(t, 1))
}

func TestRunScanPass_RepeatedPassesAreDeduplicated(t *testing.T) {
	f := setupFixture(t)
	now := 100 * 24 * hourMillis

	f.addUser(t, 1, now-25*hourMillis, 24)
	f.addContact(t, 1, "c@x.com", 0)

	for i := 0; i < 3; i++ {
		_, err := f.safetyCheck.RunScanPass(now + int64(i)*30*60_000)
		require.NoError(t, err)
	}

	// At most one email_alert for the same missed window.
	jobs := f.jobsFor(t, 1)
	assert.Len(t, jobs, 1)
}

func TestRunScanPass_NewEpochAfterHeartbeat(t *testing.T) {
	f := setupFixture(t)
	now := 100 * 24 * hourMillis

	f.addUser(t, 1, now-25*hourMillis, 24)
	f.addContact(t, 1, "c@x.com", 0)

	_, err := f.safetyCheck.RunScanPass(now)
	require.NoError(t, err)
	require.Len(t, f.jobsFor(t, 1), 1)

	// Heartbeat: job cancelled, clock restarts.
	hb := &entity.Heartbeat{ID: 1, UserID: 1, Timestamp: now, Timezone: "UTC", DeviceInfo: "{}", CreatedAt: now}
	require.NoError(t, f.hbRepo.RecordCheckIn(hb))

	// Silent past the threshold again: the cancelled job must not block a
	// brand-new alert cycle.
	later := now + 25*hourMillis
	report, err := f.safetyCheck.RunScanPass(later)
	require.NoError(t, err)
	assert.Equal(t, 1, report.EmailAlerts)

	jobs := f.jobsFor(t, 1)
	require.Len(t, jobs, 2)

	var statuses []entity.AlertStatus
	for _, job := range jobs {
		statuses = append(statuses, job.Status)
	}
	assert.ElementsMatch(t, []entity.AlertStatus{entity.AlertStatusCancelled, entity.AlertStatusScheduled}, statuses)
}

func TestRunScanPass_DeepSilenceGetsBothKindsOnlyOnce(t *testing.T) {
	f := setupFixture(t)
	now := 100 * 24 * hourMillis

	// 70h silent: warning window. Scan, then cross the threshold.
	f.addUser(t, 1, now-70*hourMillis, 72)
	f.addContact(t, 1, "c@x.com", 0)

	_, err := f.safetyCheck.RunScanPass(now)
	require.NoError(t, err)

	later := now + 3*hourMillis
	report, err := f.safetyCheck.RunScanPass(later)
	require.NoError(t, err)
	assert.Equal(t, 0, report.PreNotifications)
	assert.Equal(t, 1, report.EmailAlerts)

	jobs := f.jobsFor(t, 1)
	require.Len(t, jobs, 2)
}
