package ports

import (
	"context"

	"github.com/muktihq/companion-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, pin string) (string, *domain.User, error)
	Login(ctx context.Context, username, pin string) (string, *domain.User, error)
}
