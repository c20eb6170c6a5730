package entity

import "time"

// User principal de autenticación. Email único en toda la tabla.
type User struct {
	ID             int64
	Email          string
	HashedPassword string // bcrypt hash
	FullName       string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser construye un usuario con los valores por defecto de la tabla: role "user" e is_active true.
func NewUser(email, hashedPassword, fullName string) *User {
	return &User{
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		Role:           RoleUser,
		IsActive:       true,
	}
}

// IsAdmin indica si el usuario tiene rol administrador.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
