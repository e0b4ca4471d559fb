package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muktihq/companion-api/internal/api/metrics"
	"github.com/muktihq/companion-api/internal/core/ports"
)

type CheckinHandler struct {
	checkinService ports.CheckinService
}

func NewCheckinHandler(checkinService ports.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// CheckIn handles POST /api/checkin — records today's check-in. A repeat
// call on the same day is reported as checked_in=false, never a double
// increment.
//
// @Summary      Record today's check-in
// @Tags         streak
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkinResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/checkin [post]
func (h *CheckinHandler) CheckIn(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	result, err := h.checkinService.CheckIn(c.Request().Context(), username)
	if err != nil {
		return err
	}

	switch {
	case !result.CheckedIn:
		metrics.CheckinsTotal.WithLabelValues("noop").Inc()
	case result.Reset:
		metrics.CheckinsTotal.WithLabelValues("reset").Inc()
	default:
		metrics.CheckinsTotal.WithLabelValues("increment").Inc()
	}

	return c.JSON(http.StatusOK, checkinResponse{
		Streak:    result.Streak,
		Reset:     result.Reset,
		CheckedIn: result.CheckedIn,
	})
}
