package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/muktihq/companion-api/internal/api/handler"
	"github.com/muktihq/companion-api/internal/core/domain"
	"github.com/muktihq/companion-api/internal/core/ports"
)

type stubChatService struct {
	submitFn func(ctx context.Context, username, text string) (*ports.ChatResult, error)
	unlockFn func(ctx context.Context, username, code string) error
}

func (s *stubChatService) Submit(ctx context.Context, username, text string) (*ports.ChatResult, error) {
	return s.submitFn(ctx, username, text)
}

func (s *stubChatService) Unlock(ctx context.Context, username, code string) error {
	return s.unlockFn(ctx, username, code)
}

func authedContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "alice")
	return c, rec
}

func TestChatHandler_Submit_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		submitFn: func(ctx context.Context, username, text string) (*ports.ChatResult, error) {
			if username != "alice" || text != "hello" {
				t.Fatalf("unexpected args: %s %q", username, text)
			}
			return &ports.ChatResult{Kind: ports.TurnKindChat, Reply: "hi there"}, nil
		},
	}
	h := handler.NewChatHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	callHandler(e, h.Submit, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["kind"] != "chat" || resp["reply"] != "hi there" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestChatHandler_Submit_RateLimited(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		submitFn: func(ctx context.Context, username, text string) (*ports.ChatResult, error) {
			return nil, domain.ErrRateLimited
		},
	}
	h := handler.NewChatHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/api/chat", `{"message":"one more"}`)
	callHandler(e, h.Submit, c)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestChatHandler_Submit_ModelExhausted(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		submitFn: func(ctx context.Context, username, text string) (*ports.ChatResult, error) {
			return nil, domain.ErrModelExhausted
		},
	}
	h := handler.NewChatHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	callHandler(e, h.Submit, c)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestChatHandler_Submit_MissingMessage(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		submitFn: func(ctx context.Context, username, text string) (*ports.ChatResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := handler.NewChatHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/api/chat", `{}`)
	callHandler(e, h.Submit, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandler_Submit_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		submitFn: func(ctx context.Context, username, text string) (*ports.ChatResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := handler.NewChatHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	callHandler(e, h.Submit, c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestChatHandler_Unlock_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		unlockFn: func(ctx context.Context, username, code string) error {
			if username != "alice" || code != "OPEN_SESAME" {
				t.Fatalf("unexpected args: %s %s", username, code)
			}
			return nil
		},
	}
	h := handler.NewChatHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/api/unlock", `{"code":"OPEN_SESAME"}`)
	callHandler(e, h.Unlock, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["vip"] != true {
		t.Fatalf("expected vip true, got %v", resp["vip"])
	}
}

func TestChatHandler_Unlock_WrongCode(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		unlockFn: func(ctx context.Context, username, code string) error {
			return domain.ErrInvalidUnlockCode
		},
	}
	h := handler.NewChatHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/api/unlock", `{"code":"nope"}`)
	callHandler(e, h.Unlock, c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
