package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
)

// RefreshTokenRepository define el puerto de persistencia de sesiones (refresh_tokens).
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, jti string) error
	// RevokeActive revoca la sesión sólo si sigue vigente (no revocada, expires_at > now).
	// Devuelve false si otra rotación ya la consumió o venció.
	RevokeActive(ctx context.Context, jti string, now time.Time) (bool, error)
	RevokeAllForUser(ctx context.Context, userID int64) error
}
