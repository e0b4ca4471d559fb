package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muktihq/companion-api/internal/api/metrics"
	"github.com/muktihq/companion-api/internal/core/domain"
	"github.com/muktihq/companion-api/internal/core/ports"
)

type ChatHandler struct {
	chatService ports.ChatService
}

func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Submit handles POST /api/chat — one chat turn for the authenticated user.
//
// @Summary      Submit a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Chat message"
// @Success      200   {object}  chatResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Submit(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.chatService.Submit(c.Request().Context(), username, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			metrics.LockedTurnsTotal.Inc()
		}
		return err
	}

	metrics.ChatTurnsTotal.WithLabelValues(result.Kind).Inc()
	if result.Kind == ports.TurnKindOnboarding && result.Reply == domain.OnboardingCompleteMessage {
		metrics.OnboardingCompletedTotal.Inc()
	}
	return c.JSON(http.StatusOK, chatResponse{Kind: result.Kind, Reply: result.Reply})
}

// Unlock handles POST /api/unlock — applies an unlock code, permanently
// disabling the daily limit for the user.
//
// @Summary      Apply an unlock code
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      unlockRequest  true  "Unlock code"
// @Success      200   {object}  unlockResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/unlock [post]
func (h *ChatHandler) Unlock(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req unlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.chatService.Unlock(c.Request().Context(), username, req.Code); err != nil {
		return err
	}

	metrics.ChatTurnsTotal.WithLabelValues(ports.TurnKindUnlock).Inc()
	return c.JSON(http.StatusOK, unlockResponse{VIP: true})
}
