package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muktihq/companion-api/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user records in MongoDB, one document per
// username. Field updates are issued one at a time, matching the row-store
// contract: no multi-field atomicity is promised to callers.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index backing the
// re-check-at-write-time uniqueness guarantee.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type userDoc struct {
	Username     string            `bson:"username"`
	PINHash      string            `bson:"pin_hash"`
	Streak       int               `bson:"streak"`
	LastActive   string            `bson:"last_active"`
	RegisteredAt string            `bson:"registered_at"`
	Profile      map[string]string `bson:"profile"`
	History      []domain.Message  `bson:"history"`
	VIP          bool              `bson:"vip"`
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w: %v", domain.ErrBackendUnavailable, err)
	}
	return docToUser(doc), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	// Re-check uniqueness at write time; the unique index closes the
	// remaining race window.
	if _, err := r.FindByUsername(ctx, user.Username); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	doc := userDoc{
		Username:     user.Username,
		PINHash:      user.PINHash,
		Streak:       user.Streak,
		LastActive:   user.LastActive.Format(time.DateOnly),
		RegisteredAt: user.RegisteredAt.Format(time.DateOnly),
		Profile:      user.Profile,
		History:      user.History,
		VIP:          user.VIP,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (r *UserRepository) UpdateStreak(ctx context.Context, username string, streak int, lastActive time.Time) error {
	// Two sequential single-field updates; partial application under
	// failure is accepted by the contract.
	if err := r.setField(ctx, username, "streak", streak); err != nil {
		return err
	}
	return r.setField(ctx, username, "last_active", lastActive.Format(time.DateOnly))
}

func (r *UserRepository) SetProfileValue(ctx context.Context, username, key, value string) error {
	return r.setField(ctx, username, "profile."+key, value)
}

func (r *UserRepository) SaveHistory(ctx context.Context, username string, history []domain.Message) error {
	return r.setField(ctx, username, "history", history)
}

func (r *UserRepository) SetVIP(ctx context.Context, username string) error {
	return r.setField(ctx, username, "vip", true)
}

func (r *UserRepository) setField(ctx context.Context, username, field string, value any) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("update %s: %w: %v", field, domain.ErrBackendUnavailable, err)
	}
	return nil
}

// docToUser converts a stored document, falling back to safe defaults on
// corrupt values instead of failing the read.
func docToUser(doc userDoc) *domain.User {
	user := &domain.User{
		Username:     doc.Username,
		PINHash:      doc.PINHash,
		Streak:       doc.Streak,
		LastActive:   parseDate(doc.LastActive),
		RegisteredAt: parseDate(doc.RegisteredAt),
		Profile:      doc.Profile,
		History:      doc.History,
		VIP:          doc.VIP,
	}
	if user.Streak < 0 {
		user.Streak = 0
	}
	if user.Profile == nil {
		user.Profile = map[string]string{}
	}
	if user.History == nil {
		user.History = []domain.Message{}
	}
	return user
}

// parseDate clamps malformed or future dates to today.
func parseDate(s string) time.Time {
	today := domain.DateOnly(time.Now())
	t, err := time.Parse(time.DateOnly, s)
	if err != nil || t.After(today) {
		return today
	}
	return t
}
