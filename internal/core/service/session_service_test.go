package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/muktihq/companion-api/internal/core/domain"
)

func newSessionSvc(repo *stubUserRepo, usage *stubUsage, limits LimitConfig) *SessionService {
	if limits.LimitNew == 0 {
		limits.LimitNew = 10
	}
	if limits.LimitReturning == 0 {
		limits.LimitReturning = 5
	}
	var svc *SessionService
	if usage != nil {
		svc = NewSessionService(repo, usage, limits, zerolog.Nop())
	} else {
		svc = NewSessionService(repo, nil, limits, zerolog.Nop())
	}
	svc.now = func() time.Time { return testDay }
	return svc
}

func TestSessionService_NewUserSnapshot(t *testing.T) {
	user := domain.NewUser("alice", "hash", testDay)
	repo := newStubUserRepo(user)
	svc := newSessionSvc(repo, &stubUsage{}, LimitConfig{})

	snap, err := svc.Snapshot(context.Background(), "alice")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Username != "alice" {
		t.Fatalf("unexpected username: %s", snap.Username)
	}
	if snap.OnboardingDone {
		t.Fatalf("fresh user must not be onboarded")
	}
	if snap.OnboardingStep != 0 {
		t.Fatalf("expected step 0, got %d", snap.OnboardingStep)
	}
	if snap.NextQuestion != domain.OnboardingScript[0].Question {
		t.Fatalf("unexpected next question: %q", snap.NextQuestion)
	}
	if snap.DailyLimit != 10 {
		t.Fatalf("registered-today user gets the new-user limit, got %d", snap.DailyLimit)
	}
	if snap.Remaining != 10 || snap.Locked {
		t.Fatalf("unexpected budget: remaining=%d locked=%v", snap.Remaining, snap.Locked)
	}
}

func TestSessionService_ReturningUserBudget(t *testing.T) {
	user := onboardedUser("alice", testDay.AddDate(0, 0, -7))
	repo := newStubUserRepo(user)
	usage := &stubUsage{counts: map[string]int{"alice": 3}}
	svc := newSessionSvc(repo, usage, LimitConfig{})

	snap, err := svc.Snapshot(context.Background(), "alice")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if !snap.OnboardingDone {
		t.Fatalf("expected onboarding done")
	}
	if snap.NextQuestion != "" {
		t.Fatalf("onboarded user must have no next question, got %q", snap.NextQuestion)
	}
	if snap.DailyLimit != 5 {
		t.Fatalf("returning user gets the returning limit, got %d", snap.DailyLimit)
	}
	if snap.MessagesUsed != 3 || snap.Remaining != 2 {
		t.Fatalf("unexpected budget: used=%d remaining=%d", snap.MessagesUsed, snap.Remaining)
	}
}

func TestSessionService_LockedWhenBudgetSpent(t *testing.T) {
	user := onboardedUser("alice", testDay.AddDate(0, 0, -7))
	repo := newStubUserRepo(user)
	usage := &stubUsage{counts: map[string]int{"alice": 9}}
	svc := newSessionSvc(repo, usage, LimitConfig{})

	snap, err := svc.Snapshot(context.Background(), "alice")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if !snap.Locked {
		t.Fatalf("expected locked session")
	}
	if snap.Remaining != 0 {
		t.Fatalf("remaining must clamp at zero, got %d", snap.Remaining)
	}
}

func TestSessionService_VIPNeverLocked(t *testing.T) {
	user := onboardedUser("alice", testDay.AddDate(0, 0, -7))
	user.VIP = true
	repo := newStubUserRepo(user)
	usage := &stubUsage{counts: map[string]int{"alice": 100}}
	svc := newSessionSvc(repo, usage, LimitConfig{})

	snap, err := svc.Snapshot(context.Background(), "alice")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Locked {
		t.Fatalf("vip session must never lock")
	}
}

func TestSessionService_HistoryFallbackWithoutCounter(t *testing.T) {
	user := onboardedUser("alice", testDay.AddDate(0, 0, -7))
	user.History = []domain.Message{
		{Role: domain.RoleUser, Content: "one"},
		{Role: domain.RoleAssistant, Content: "reply"},
		{Role: domain.RoleUser, Content: "two"},
	}
	repo := newStubUserRepo(user)
	svc := newSessionSvc(repo, nil, LimitConfig{})

	snap, err := svc.Snapshot(context.Background(), "alice")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.MessagesUsed != 2 {
		t.Fatalf("expected 2 user turns counted, got %d", snap.MessagesUsed)
	}
	if snap.HistoryLoaded != 3 {
		t.Fatalf("expected 3 history entries, got %d", snap.HistoryLoaded)
	}
}

func TestSessionService_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionSvc(repo, &stubUsage{}, LimitConfig{})

	if _, err := svc.Snapshot(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}
