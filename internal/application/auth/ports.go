package auth

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

// SessionTxRunner ejecuta la rotación de sesiones (revocar + emitir) en una sola transacción.
type SessionTxRunner interface {
	RunSession(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		tokenRepo repository.RefreshTokenRepository,
	) error) error
}
