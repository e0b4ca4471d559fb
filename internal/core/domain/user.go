package domain

import (
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn, insertion-ordered within a history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// User is the persisted record for a registered user, keyed by username.
type User struct {
	Username     string            `json:"username"`
	PINHash      string            `json:"-"`
	Streak       int               `json:"streak"`
	LastActive   time.Time         `json:"last_active"`
	RegisteredAt time.Time         `json:"registered_at"`
	Profile      map[string]string `json:"profile"`
	History      []Message         `json:"history"`
	VIP          bool              `json:"vip"`
}

// NewUser returns a fresh record with registration defaults: zero streak,
// both dates set to today, empty profile and history.
func NewUser(username, pinHash string, today time.Time) *User {
	return &User{
		Username:     username,
		PINHash:      pinHash,
		Streak:       0,
		LastActive:   DateOnly(today),
		RegisteredAt: DateOnly(today),
		Profile:      map[string]string{},
		History:      []Message{},
	}
}

// NormalizeUsername canonicalizes the unique key: trimmed, lower-cased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// DateOnly strips the time component, keeping the UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TruncateHistory returns the most recent depth turns, order preserved.
func TruncateHistory(history []Message, depth int) []Message {
	if depth <= 0 || len(history) <= depth {
		return history
	}
	return history[len(history)-depth:]
}

// UserTurns counts user-role messages in the loaded history window. Used as
// the usage fallback when the daily counter is unavailable.
func UserTurns(history []Message) int {
	n := 0
	for _, m := range history {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}
