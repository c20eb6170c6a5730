package usecase

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
)

// UserUseCase administración de usuarios (sólo admin).
type UserUseCase struct {
	repo   repository.UserRepository
	tokens repository.RefreshTokenRepository
	log    *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, tokens repository.RefreshTokenRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, tokens: tokens, log: log.Component("users")}
}

// List lista todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.FromUser(u)
	return &out, nil
}

// SetRole cambia el rol. Un admin no puede quitarse el rol a sí mismo.
func (uc *UserUseCase) SetRole(ctx context.Context, actorID, id int64, role string) error {
	r := entity.Role(role)
	if !r.Valid() {
		return domain.ErrInvalidInput
	}
	if actorID == id && r != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := uc.repo.UpdateRole(ctx, id, r); err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", id).Str("role", role).Int64("by", actorID).Msg("rol actualizado")
	return nil
}

// SetActive activa o bloquea al usuario. Bloquear revoca sus sesiones.
func (uc *UserUseCase) SetActive(ctx context.Context, actorID, id int64, active bool) error {
	if actorID == id && !active {
		return domain.ErrForbidden
	}
	if err := uc.repo.UpdateActive(ctx, id, active); err != nil {
		return err
	}
	if !active {
		if err := uc.tokens.RevokeAllForUser(ctx, id); err != nil {
			return err
		}
	}
	uc.log.Info().Int64("user_id", id).Bool("active", active).Int64("by", actorID).Msg("estado de usuario actualizado")
	return nil
}

// Delete revoca las sesiones y elimina al usuario (tokens en cascada).
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.ErrForbidden
	}
	if err := uc.tokens.RevokeAllForUser(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", id).Int64("by", actorID).Msg("usuario eliminado")
	return nil
}
