package handler

import (
	"context"
	"net/http"
	"safesound/cmd/internal/contract"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/utils"
	"safesound/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SOSService interface {
	TriggerSOS(ctx context.Context, actor *entity.User) (*contract.SOSResponse, apierror.ErrorResponse)
}

type DefaultSOSRoute struct {
	SOSService SOSService
}

func NewSOSDefault(sosService SOSService) *DefaultSOSRoute {
	return &DefaultSOSRoute{SOSService: sosService}
}

// TriggerSOS takes no body; the caller's identity is the whole request.
func (s *DefaultSOSRoute) TriggerSOS(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := s.SOSService.TriggerSOS(c.Request().Context(), user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
