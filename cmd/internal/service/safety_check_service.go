package service

import (
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// ScanPageSize caps how many users one scan pass evaluates. Anyone beyond
// the cap is picked up on the next pass; the user query orders by silence
// so overdue users always come first.
const ScanPageSize = 500

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindActivePage(limit int) ([]*entity.User, error)
}

type ContactRepository interface {
	FindByUserID(userID int64) ([]*entity.EmergencyContact, error)
}

type AlertJobRepository interface {
	HasOpenJob(userID int64, kind entity.AlertKind, newerThan int64) (bool, error)
	CreateBatch(jobs []*entity.AlertJob) error
	FindDue(now int64, limit int) ([]*entity.AlertJob, error)
	MarkSent(id string, now int64) (bool, error)
	MarkFailed(id string, now int64, lastError string) (bool, error)
}

type ScanReport struct {
	UsersChecked     int `json:"users_checked"`
	PreNotifications int `json:"pre_notifications"`
	EmailAlerts      int `json:"email_alerts"`
}

type SafetyCheckService struct {
	UserRepo    UserRepository
	ContactRepo ContactRepository
	AlertRepo   AlertJobRepository
}

func NewSafetyCheckService(userRepo UserRepository, contactRepo ContactRepository, alertRepo AlertJobRepository) *SafetyCheckService {
	return &SafetyCheckService{
		UserRepo:    userRepo,
		ContactRepo: contactRepo,
		AlertRepo:   alertRepo,
	}
}

// RunScanPass evaluates every active user's silence against their threshold
// and schedules the alerts the current liveness epoch is still missing.
// All creations of the pass commit as one batch. `now` is a parameter so
// the pass is testable without the wall clock.
func (s *SafetyCheckService) RunScanPass(now int64) (*ScanReport, error) {
	users, err := s.UserRepo.FindActivePage(ScanPageSize)
	if err != nil {
		return nil, err
	}

	report := &ScanReport{UsersChecked: len(users)}
	var created []*entity.AlertJob

	for _, user := range users {
		jobs, err := s.evaluateUser(user, now)
		if err != nil {
			// One user must never abort the pass.
			log.Errorf("safety check: failed to evaluate user %d: %v", user.ID, err)
			continue
		}

		for _, job := range jobs {
			switch job.Kind {
			case entity.AlertKindPreNotification:
				report.PreNotifications++
			case entity.AlertKindEmailAlert:
				report.EmailAlerts++
			}
		}
		created = append(created, jobs...)
	}

	if err := s.AlertRepo.CreateBatch(created); err != nil {
		return nil, err
	}
	return report, nil
}

// evaluateUser decides which alert jobs a single user is due for.
func (s *SafetyCheckService) evaluateUser(user *entity.User, now int64) ([]*entity.AlertJob, error) {
	// Users who never checked in have no liveness epoch to miss.
	if user.LastSeenAt == 0 {
		return nil, nil
	}

	elapsed := now - user.LastSeenAt
	threshold := user.ThresholdMillis()

	var jobs []*entity.AlertJob

	// Soft warning window: close to the threshold, not yet past it.
	if elapsed >= threshold-entity.PreNotificationLeadMillis && elapsed < threshold {
		job, err := s.scheduleIfMissing(user, entity.AlertKindPreNotification, now)
		if err != nil {
			return nil, err
		}
		if job != nil {
			jobs = append(jobs, job)
		}
	}

	// Hard threshold: the user counts as missing.
	if elapsed >= threshold {
		job, err := s.scheduleIfMissing(user, entity.AlertKindEmailAlert, now)
		if err != nil {
			return nil, err
		}
		if job != nil {
			jobs = append(jobs, job)
		}
	}

	return jobs, nil
}

// scheduleIfMissing builds a new scheduled job unless the current liveness
// epoch already has a scheduled or sent job of that kind. The dedup is
// anchored to LastSeenAt, not to the job's own lifetime: a cancelled or
// pre-heartbeat job never suppresses a fresh alert cycle.
func (s *SafetyCheckService) scheduleIfMissing(user *entity.User, kind entity.AlertKind, now int64) (*entity.AlertJob, error) {
	exists, err := s.AlertRepo.HasOpenJob(user.ID, kind, user.LastSeenAt)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	job := &entity.AlertJob{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		Kind:               kind,
		Status:             entity.AlertStatusScheduled,
		CreatedAt:          now,
		ScheduledFor:       now,
		SnapshotLastSeenAt: user.LastSeenAt,
		ThresholdHours:     user.ThresholdHours,
		ContactsSnapshot:   "[]",
	}

	if kind == entity.AlertKindEmailAlert {
		contacts, err := s.ContactRepo.FindByUserID(user.ID)
		if err != nil {
			return nil, err
		}

		snapshot, err := entity.EncodeContactsSnapshot(contacts)
		if err != nil {
			return nil, err
		}
		job.ContactsSnapshot = snapshot
	}

	log.Debugf("safety check: scheduling %s for user %d (last seen %s)",
		kind, user.ID, utils.FormatEpoch(user.LastSeenAt))
	return job, nil
}
