package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo implementación de RefreshTokenRepository sobre PostgreSQL (usable con pool o tx).
type RefreshTokenRepo struct {
	q Querier
}

// NewRefreshTokenRepository construye el adaptador de sesiones.
func NewRefreshTokenRepository(q Querier) *RefreshTokenRepo {
	return &RefreshTokenRepo{q: q}
}

// Create registra una sesión. Un jti repetido devuelve ErrDuplicate.
func (r *RefreshTokenRepo) Create(ctx context.Context, token *entity.RefreshToken) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO refresh_tokens (user_id, jti, revoked, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		token.UserID, token.JTI, token.Revoked, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	return translate("insert refresh token", err)
}

// GetByJTI obtiene la sesión por jti. Devuelve (nil, nil) si no existe.
func (r *RefreshTokenRepo) GetByJTI(ctx context.Context, jti string) (*entity.RefreshToken, error) {
	var t entity.RefreshToken
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, jti, revoked, expires_at, created_at
		FROM refresh_tokens WHERE jti = $1`, jti,
	).Scan(&t.ID, &t.UserID, &t.JTI, &t.Revoked, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &t, nil
}

// Revoke marca la sesión como revocada. Un jti desconocido no es error.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, jti string) error {
	if _, err := r.q.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE jti = $1`, jti); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeActive revoca condicionalmente. Dos rotaciones concurrentes del mismo jti se serializan
// sobre la fila; la segunda reevalúa el WHERE contra la versión ya revocada y no afecta filas.
func (r *RefreshTokenRepo) RevokeActive(ctx context.Context, jti string, now time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = true
		WHERE jti = $1 AND NOT revoked AND expires_at > $2`, jti, now)
	if err != nil {
		return false, fmt.Errorf("revoke active refresh token: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// RevokeAllForUser revoca todas las sesiones del usuario.
func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}
