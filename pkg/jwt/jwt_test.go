package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "fertilizer-shop-test"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret, testIssuer)
	require.NoError(t, err)
	return s
}

func TestNewSigner_SecretoVacio_Error(t *testing.T) {
	_, err := NewSigner("", testIssuer)
	assert.Error(t, err, "un secreto vacío debe rechazarse")
}

func TestAccessToken_GenerarYParsear(t *testing.T) {
	s := newTestSigner(t)
	issued, err := s.GenerateAccess(42, "admin", 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, issued.JTI)

	claims, err := s.Parse(issued.Token, TypeAccess)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issued.JTI, claims.ID, "el jti del token debe coincidir con el emitido")
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestParse_TipoIncorrecto_Rechazado(t *testing.T) {
	s := newTestSigner(t)
	issued, err := s.GenerateRefresh(1, "user", time.Hour)
	require.NoError(t, err)

	_, err = s.Parse(issued.Token, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType, "un refresh token no sirve como access token")
}

func TestParse_Vencido_Rechazado(t *testing.T) {
	s := newTestSigner(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	issued, err := s.GenerateAccess(1, "user", time.Minute)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = s.Parse(issued.Token, TypeAccess)
	assert.Error(t, err, "un token vencido debe rechazarse")
}

func TestParse_OtroSecreto_Rechazado(t *testing.T) {
	s := newTestSigner(t)
	issued, err := s.GenerateAccess(1, "user", time.Hour)
	require.NoError(t, err)

	other, err := NewSigner("otro-secreto", testIssuer)
	require.NoError(t, err)
	_, err = other.Parse(issued.Token, TypeAccess)
	assert.Error(t, err)
}

func TestParse_OtroEmisor_Rechazado(t *testing.T) {
	other, err := NewSigner(testSecret, "otra-app")
	require.NoError(t, err)
	issued, err := other.GenerateAccess(1, "user", time.Minute)
	require.NoError(t, err)

	_, err = newTestSigner(t).Parse(issued.Token, TypeAccess)
	assert.Error(t, err, "un token firmado con el mismo secreto pero otro emisor no se acepta")
}

func TestGenerate_JTIUnico(t *testing.T) {
	s := newTestSigner(t)
	a, err := s.GenerateRefresh(1, "user", time.Hour)
	require.NoError(t, err)
	b, err := s.GenerateRefresh(1, "user", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a.JTI, b.JTI)
}
