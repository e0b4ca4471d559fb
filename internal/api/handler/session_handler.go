package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muktihq/companion-api/internal/core/ports"
)

type SessionHandler struct {
	sessionService ports.SessionService
}

func NewSessionHandler(sessionService ports.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Snapshot handles GET /api/session — the derived session view: streak,
// onboarding position, remaining daily budget, lock state.
//
// @Summary      Get the current session snapshot
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SessionSnapshot
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/session [get]
func (h *SessionHandler) Snapshot(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	snap, err := h.sessionService.Snapshot(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// SOS handles GET /api/sos — static crisis guidance. It never calls the
// completion backend and changes no state.
//
// @Summary      Get crisis guidance
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sosResponse
// @Router       /api/sos [get]
func (h *SessionHandler) SOS(c echo.Context) error {
	return c.JSON(http.StatusOK, sosResponse{
		Title: "The Guest is at the door. Hold the line.",
		Steps: []string{
			"Drink a full glass of cold water, slowly.",
			"Step outside or open a window. Ten deep breaths.",
			"Name it out loud: this craving is the Parasite talking, not you.",
			"Set a 20-minute timer. Cravings crest and pass; you only need to outlast one wave.",
			"If you are in danger or despair, call your local emergency number or a crisis hotline now.",
		},
	})
}
