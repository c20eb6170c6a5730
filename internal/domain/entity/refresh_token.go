package entity

import "time"

// RefreshToken sesión persistida de un usuario; se borra en cascada con él.
// JTI es único y enlaza la fila con el claim "jti" del token firmado.
type RefreshToken struct {
	ID        int64
	UserID    int64
	JTI       string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Usable indica si la sesión no está revocada ni vencida en el instante now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
