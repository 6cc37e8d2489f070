package service

import (
	"context"
	"safesound/cmd/internal/contract"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/utils"
	"safesound/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type SOSService struct {
	ContactRepo ContactRepository
	Email       EmailSender
}

func NewSOSService(contactRepo ContactRepository, email EmailSender) *SOSService {
	return &SOSService{
		ContactRepo: contactRepo,
		Email:       email,
	}
}

// TriggerSOS sends the urgent template to every emergency contact right
// away. It deliberately bypasses the alert ledger: a user-initiated call
// for help must never be suppressed by dedup, and unlike the background
// dispatcher there is a caller to report a delivery failure to.
func (s *SOSService) TriggerSOS(ctx context.Context, actor *entity.User) (*contract.SOSResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.NotFoundError
	}

	contacts, err := s.ContactRepo.FindByUserID(actor.ID)
	if err != nil {
		log.Errorf("sos: failed to load contacts for user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if len(contacts) == 0 {
		return nil, apierror.NoEmergencyContactsError
	}

	// The SOS displays the moment of the trigger, not the last heartbeat.
	now := utils.NowUTC()

	snapshots := make([]entity.ContactSnapshot, len(contacts))
	for i, contact := range contacts {
		snapshots[i] = entity.ContactSnapshot{Email: contact.Email, Name: contact.Name}
	}

	msgs := renderSOSEmails(actor, snapshots, now)
	if err := s.Email.SendBatch(ctx, msgs); err != nil {
		log.Errorf("sos: failed to send emergency emails for user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("sos: notified %d contacts for user %d", len(contacts), actor.ID)
	return &contract.SOSResponse{
		ContactsNotified: len(contacts),
		SentAt:           utils.FormatEpoch(now),
	}, nil
}
