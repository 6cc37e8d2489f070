package handler

import (
	"net/http"
	"safesound/cmd/internal/contract"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/utils"
	"safesound/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type HeartbeatService interface {
	RecordHeartbeat(actor *entity.User, req *contract.HeartbeatRequest) (*contract.HeartbeatResponse, apierror.ErrorResponse)
}

type DefaultHeartbeatRoute struct {
	HeartbeatService HeartbeatService
}

func NewHeartbeatDefault(heartbeatService HeartbeatService) *DefaultHeartbeatRoute {
	return &DefaultHeartbeatRoute{HeartbeatService: heartbeatService}
}

func (h *DefaultHeartbeatRoute) RecordHeartbeat(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.HeartbeatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := h.HeartbeatService.RecordHeartbeat(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
