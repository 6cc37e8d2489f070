package service

import (
	"context"
	"fmt"
	"safesound/cmd/internal/domain/entity"

	"github.com/labstack/gommon/log"
)

// DispatchBatchSize caps how many due jobs one dispatch pass resolves.
const DispatchBatchSize = 50

type DispatchReport struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

type AlertDispatchService struct {
	UserRepo  UserRepository
	AlertRepo AlertJobRepository
	Push      PushSender
	Email     EmailSender
}

func NewAlertDispatchService(userRepo UserRepository, alertRepo AlertJobRepository, push PushSender, email EmailSender) *AlertDispatchService {
	return &AlertDispatchService{
		UserRepo:  userRepo,
		AlertRepo: alertRepo,
		Push:      push,
		Email:     email,
	}
}

// RunDispatchPass delivers due scheduled jobs and resolves each to a
// terminal status. Outcomes are independent: a failed delivery is recorded
// on its job and the pass moves on. Status writes are compare-and-set, so
// a slow overlapping pass can never deliver or resolve a job twice, nor
// resurrect one a heartbeat cancelled mid-pass.
func (d *AlertDispatchService) RunDispatchPass(ctx context.Context, now int64) (*DispatchReport, error) {
	jobs, err := d.AlertRepo.FindDue(now, DispatchBatchSize)
	if err != nil {
		return nil, err
	}

	report := &DispatchReport{Processed: len(jobs)}
	for _, job := range jobs {
		if err := d.deliver(ctx, job); err != nil {
			log.Errorf("dispatch: delivery of job %s failed: %v", job.ID, err)
			moved, ferr := d.AlertRepo.MarkFailed(job.ID, now, err.Error())
			if ferr != nil {
				log.Errorf("dispatch: failed to mark job %s failed: %v", job.ID, ferr)
				continue
			}
			if !moved {
				// A heartbeat cancelled the job mid-delivery.
				log.Debugf("dispatch: job %s already resolved, skipping status write", job.ID)
				continue
			}
			report.Failed++
			continue
		}

		moved, err := d.AlertRepo.MarkSent(job.ID, now)
		if err != nil {
			log.Errorf("dispatch: failed to mark job %s sent: %v", job.ID, err)
			continue
		}
		if !moved {
			// Another pass or a cancellation beat us to it.
			log.Debugf("dispatch: job %s already resolved, skipping status write", job.ID)
			continue
		}
		report.Sent++
	}

	return report, nil
}

func (d *AlertDispatchService) deliver(ctx context.Context, job *entity.AlertJob) error {
	switch job.Kind {
	case entity.AlertKindPreNotification:
		return d.deliverPreNotification(ctx, job)
	case entity.AlertKindEmailAlert:
		return d.deliverEmailAlert(ctx, job)
	default:
		return fmt.Errorf("unknown alert kind: %s", job.Kind)
	}
}

// deliverPreNotification pushes the soft warning to the user's own device.
// Push is best-effort: a user without a registered token is a no-op
// success, not a failure.
func (d *AlertDispatchService) deliverPreNotification(ctx context.Context, job *entity.AlertJob) error {
	user, err := d.UserRepo.FindByID(job.UserID)
	if err != nil {
		return err
	}

	if user == nil || user.FCMToken == "" {
		log.Infof("dispatch: no push token for user %d, skipping pre-notification", job.UserID)
		return nil
	}

	msg := &PushMessage{
		Title: "Check-in Reminder",
		Body: "You haven't checked in recently. Please check in within the next 3 hours " +
			"to avoid alerting your emergency contacts.",
		Data: map[string]string{
			"type":            string(entity.AlertKindPreNotification),
			"threshold_hours": fmt.Sprintf("%d", job.ThresholdHours),
		},
	}
	return d.Push.Send(ctx, user.FCMToken, msg)
}

// deliverEmailAlert emails every contact frozen into the job's snapshot.
// An empty snapshot means there is nobody to notify, which is a success.
func (d *AlertDispatchService) deliverEmailAlert(ctx context.Context, job *entity.AlertJob) error {
	user, err := d.UserRepo.FindByID(job.UserID)
	if err != nil {
		return err
	}

	if user == nil {
		log.Warnf("dispatch: user %d no longer exists, skipping email alert", job.UserID)
		return nil
	}

	contacts, err := job.Contacts()
	if err != nil {
		return err
	}

	if len(contacts) == 0 {
		log.Infof("dispatch: no emergency contacts snapshotted for user %d, nothing to send", job.UserID)
		return nil
	}

	msgs := renderMissedCheckInEmails(user, contacts, job.SnapshotLastSeenAt, job.ThresholdHours)
	return d.Email.SendBatch(ctx, msgs)
}
