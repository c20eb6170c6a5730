package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)
)

// UserRepo usuarios en memoria. Email único.
type UserRepo struct {
	s *Store
}

// Create inserta el usuario; Role vacío toma user.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	if u.Email == "" || u.HashedPassword == "" || !u.Role.Valid() {
		return fmt.Errorf("insert user: %w", domain.ErrConstraintViolation)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.data.users {
		if other.Email == u.Email {
			return fmt.Errorf("insert user: %w: %w", domain.ErrEmailAlreadyExists, domain.ErrDuplicate)
		}
	}
	now := r.s.now()
	u.ID = r.s.nextID()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.data.users[u.ID] = *u
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// Count número de usuarios.
func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.data.users)), nil
}

// List usuarios por ID.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateRole cambia el rol.
func (r *UserRepo) UpdateRole(_ context.Context, id int64, role entity.Role) error {
	if !role.Valid() {
		return fmt.Errorf("update user role: %w", domain.ErrConstraintViolation)
	}
	return r.update(id, func(u *entity.User) { u.Role = role })
}

// UpdateActive activa o bloquea.
func (r *UserRepo) UpdateActive(_ context.Context, id int64, active bool) error {
	return r.update(id, func(u *entity.User) { u.IsActive = active })
}

func (r *UserRepo) update(id int64, fn func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.data.users[id] = u
	return nil
}

// Delete elimina el usuario y sus refresh tokens.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.data.users, id)
	for tid, t := range r.s.data.tokens {
		if t.UserID == id {
			delete(r.s.data.tokens, tid)
		}
	}
	return nil
}

// RefreshTokenRepo sesiones en memoria. jti único.
type RefreshTokenRepo struct {
	s *Store
}

// Create registra la sesión.
func (r *RefreshTokenRepo) Create(_ context.Context, t *entity.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[t.UserID]; !ok {
		return fmt.Errorf("insert refresh token: %w", domain.ErrReferenceViolation)
	}
	for _, other := range r.s.data.tokens {
		if other.JTI == t.JTI {
			return fmt.Errorf("insert refresh token: %w", domain.ErrDuplicate)
		}
	}
	t.ID = r.s.nextID()
	t.CreatedAt = r.s.now()
	r.s.data.tokens[t.ID] = *t
	return nil
}

// GetByJTI devuelve (nil, nil) si no existe.
func (r *RefreshTokenRepo) GetByJTI(_ context.Context, jti string) (*entity.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.tokens {
		if t.JTI == jti {
			return &t, nil
		}
	}
	return nil, nil
}

// Revoke marca la sesión como revocada.
func (r *RefreshTokenRepo) Revoke(_ context.Context, jti string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.data.tokens {
		if t.JTI == jti {
			t.Revoked = true
			r.s.data.tokens[id] = t
		}
	}
	return nil
}

// RevokeActive revoca sólo si la sesión sigue vigente.
func (r *RefreshTokenRepo) RevokeActive(_ context.Context, jti string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.data.tokens {
		if t.JTI == jti && t.Usable(now) {
			t.Revoked = true
			r.s.data.tokens[id] = t
			return true, nil
		}
	}
	return false, nil
}

// RevokeAllForUser revoca todas las sesiones del usuario.
func (r *RefreshTokenRepo) RevokeAllForUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.data.tokens {
		if t.UserID == userID {
			t.Revoked = true
			r.s.data.tokens[id] = t
		}
	}
	return nil
}
