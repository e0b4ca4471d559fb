// Package sheets implements the user record store on a Google spreadsheet:
// one row per user, addressed by the username in column A. It exists for
// deployments that keep the original sheet as the system of record.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/muktihq/companion-api/internal/core/domain"
)

// Column layout, order-significant:
// A username, B pin hash, C streak, D last active, E registered,
// F profile JSON, G history JSON, H vip flag.
const (
	colUsername   = "A"
	colPINHash    = "B"
	colStreak     = "C"
	colLastActive = "D"
	colRegistered = "E"
	colProfile    = "F"
	colHistory    = "G"
	colVIP        = "H"
)

type UserRepository struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewUserRepository builds a Sheets-backed repository using a service
// account credentials file.
func NewUserRepository(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*UserRepository, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &UserRepository{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row, err := r.findRow(ctx, username)
	if err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("%s!A%d:H%d", r.sheetName, row, row)
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read row: %w: %v", domain.ErrBackendUnavailable, err)
	}
	if len(resp.Values) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return rowToUser(resp.Values[0]), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	// Uniqueness re-check at write time; the race window between check and
	// append is accepted (last appended row is simply never found first).
	if _, err := r.findRow(ctx, user.Username); err == nil {
		return domain.ErrUserExists
	} else if err != domain.ErrUserNotFound {
		return err
	}

	row := []interface{}{
		user.Username,
		user.PINHash,
		user.Streak,
		user.LastActive.Format(time.DateOnly),
		user.RegisteredAt.Format(time.DateOnly),
		mustJSON(user.Profile, "{}"),
		mustJSON(user.History, "[]"),
		boolCell(user.VIP),
	}
	_, err := r.svc.Spreadsheets.Values.Append(
		r.spreadsheetID,
		fmt.Sprintf("%s!A:H", r.sheetName),
		&sheets.ValueRange{Values: [][]interface{}{row}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (r *UserRepository) UpdateStreak(ctx context.Context, username string, streak int, lastActive time.Time) error {
	row, err := r.findRow(ctx, username)
	if err != nil {
		return err
	}
	// Two single-cell updates, no atomicity across them.
	if err := r.setCell(ctx, row, colStreak, strconv.Itoa(streak)); err != nil {
		return err
	}
	return r.setCell(ctx, row, colLastActive, lastActive.Format(time.DateOnly))
}

func (r *UserRepository) SetProfileValue(ctx context.Context, username, key, value string) error {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	row, err := r.findRow(ctx, username)
	if err != nil {
		return err
	}
	user.Profile[key] = value
	return r.setCell(ctx, row, colProfile, mustJSON(user.Profile, "{}"))
}

func (r *UserRepository) SaveHistory(ctx context.Context, username string, history []domain.Message) error {
	row, err := r.findRow(ctx, username)
	if err != nil {
		return err
	}
	return r.setCell(ctx, row, colHistory, mustJSON(history, "[]"))
}

func (r *UserRepository) SetVIP(ctx context.Context, username string) error {
	row, err := r.findRow(ctx, username)
	if err != nil {
		return err
	}
	return r.setCell(ctx, row, colVIP, boolCell(true))
}

// findRow scans column A for the username and returns its 1-based row.
func (r *UserRepository) findRow(ctx context.Context, username string) (int, error) {
	rng := fmt.Sprintf("%s!%s:%s", r.sheetName, colUsername, colUsername)
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("scan usernames: %w: %v", domain.ErrBackendUnavailable, err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == username {
			return i + 1, nil
		}
	}
	return 0, domain.ErrUserNotFound
}

func (r *UserRepository) setCell(ctx context.Context, row int, col, value string) error {
	rng := fmt.Sprintf("%s!%s%d", r.sheetName, col, row)
	_, err := r.svc.Spreadsheets.Values.Update(
		r.spreadsheetID,
		rng,
		&sheets.ValueRange{Values: [][]interface{}{{value}}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w: %v", rng, domain.ErrBackendUnavailable, err)
	}
	return nil
}

// rowToUser decodes a sheet row, substituting safe defaults for any cell
// that fails to parse.
func rowToUser(row []interface{}) *domain.User {
	cell := func(i int) string {
		if i < len(row) {
			return fmt.Sprint(row[i])
		}
		return ""
	}

	streak, err := strconv.Atoi(cell(2))
	if err != nil || streak < 0 {
		streak = 0
	}

	profile := map[string]string{}
	_ = json.Unmarshal([]byte(cell(5)), &profile)

	history := []domain.Message{}
	_ = json.Unmarshal([]byte(cell(6)), &history)

	return &domain.User{
		Username:     cell(0),
		PINHash:      cell(1),
		Streak:       streak,
		LastActive:   parseDate(cell(3)),
		RegisteredAt: parseDate(cell(4)),
		Profile:      profile,
		History:      history,
		VIP:          cell(7) == "TRUE",
	}
}

func parseDate(s string) time.Time {
	today := domain.DateOnly(time.Now())
	t, err := time.Parse(time.DateOnly, s)
	if err != nil || t.After(today) {
		return today
	}
	return t
}

func mustJSON(v any, fallback string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
