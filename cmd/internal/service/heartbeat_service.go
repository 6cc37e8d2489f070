package service

import (
	"encoding/json"
	"safesound/cmd/internal/contract"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/utils"
	"safesound/cmd/internal/utils/apierror"
	"safesound/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type HeartbeatRepository interface {
	RecordCheckIn(hb *entity.Heartbeat) error
}

type HeartbeatService struct {
	HeartbeatRepo HeartbeatRepository
	Validate      *validator.Validate
}

func NewHeartbeatService(heartbeatRepo HeartbeatRepository, validate *validator.Validate) *HeartbeatService {
	return &HeartbeatService{
		HeartbeatRepo: heartbeatRepo,
		Validate:      validate,
	}
}

// RecordHeartbeat applies a check-in from the authenticated user: it writes
// the audit row, advances the liveness record and cancels every alert job
// still scheduled for them, all in one transaction. The request's user_id
// must match the caller; checking in on someone else's behalf is forbidden.
func (h *HeartbeatService) RecordHeartbeat(actor *entity.User, req *contract.HeartbeatRequest) (*contract.HeartbeatResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := h.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if req.UserID != actor.ID {
		return nil, apierror.UserMismatchError
	}

	deviceInfo, err := json.Marshal(req.DeviceInfo)
	if err != nil {
		log.Errorf("failed to encode device info: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	hb := &entity.Heartbeat{
		ID:         uid.Generate(),
		UserID:     actor.ID,
		Timestamp:  now,
		Timezone:   req.Timezone,
		DeviceInfo: string(deviceInfo),
		CreatedAt:  now,
	}

	if err := h.HeartbeatRepo.RecordCheckIn(hb); err != nil {
		log.Errorf("failed to record heartbeat for user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.HeartbeatResponse{RecordedAt: utils.FormatEpoch(now)}, nil
}
