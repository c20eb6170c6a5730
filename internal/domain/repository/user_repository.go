package repository

import (
	"context"

	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id int64, role entity.Role) error
	UpdateActive(ctx context.Context, id int64, active bool) error
	// Delete elimina el usuario; sus refresh tokens se borran en cascada.
	Delete(ctx context.Context, id int64) error
}
