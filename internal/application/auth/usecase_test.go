package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/internal/infrastructure/memory"
	"github.com/jhoicas/fertilizer-shop/pkg/jwt"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
)

const testPassword = "s3creto-largo"

func newTestAuth(t *testing.T) (*AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	signer, err := jwt.NewSigner("test-secret-key-for-unit-tests", "fertilizer-shop-test")
	require.NoError(t, err)
	uc := NewAuthUseCase(store.Users(), store.RefreshTokens(), store, signer,
		TokenConfig{AccessTTL: 30 * time.Minute, RefreshTTL: 14 * 24 * time.Hour}, logger.Nop())
	return uc, store
}

func register(t *testing.T, uc *AuthUseCase, email string) *dto.UserResponse {
	t.Helper()
	u, err := uc.Register(context.Background(), dto.RegisterRequest{Email: email, Password: testPassword})
	require.NoError(t, err)
	return u
}

func TestRegister_PrimerUsuarioEsAdmin(t *testing.T) {
	uc, _ := newTestAuth(t)

	first := register(t, uc, "Dueno@Tienda.com ")
	second := register(t, uc, "vendedor@tienda.com")

	assert.Equal(t, "admin", first.Role, "el primer usuario queda como admin")
	assert.Equal(t, "dueno@tienda.com", first.Email, "el email se normaliza")
	assert.Equal(t, "user", second.Role)
	assert.True(t, second.IsActive, "is_active por defecto true")
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newTestAuth(t)
	register(t, uc, "ana@tienda.com")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@tienda.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "no-es-email", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "b@tienda.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_GuardaHashBcrypt(t *testing.T) {
	uc, store := newTestAuth(t)
	register(t, uc, "ana@tienda.com")

	u, err := store.Users().GetByEmail(context.Background(), "ana@tienda.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, testPassword, u.HashedPassword, "el password nunca se guarda en claro")
	assert.Contains(t, u.HashedPassword, "$2a$")
}

func TestLogin_CredencialesYUsuarioInactivo(t *testing.T) {
	uc, store := newTestAuth(t)
	user := register(t, uc, "ana@tienda.com")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@tienda.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	tokens, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ANA@tienda.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, tokens.User.ID)

	me, err := uc.Authenticate(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@tienda.com", me.Email)

	_, err = uc.Authenticate(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un refresh token no autentica peticiones")

	require.NoError(t, store.Users().UpdateActive(context.Background(), user.ID, false))
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un usuario inactivo no inicia sesión")
}

func TestRefresh_RotaLaSesion(t *testing.T) {
	uc, _ := newTestAuth(t)
	register(t, uc, "ana@tienda.com")
	first, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: testPassword})
	require.NoError(t, err)

	second, err := uc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = uc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el refresh token anterior queda revocado")

	_, err = uc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: second.RefreshToken})
	assert.NoError(t, err)
}

// lateRevokeTokens devuelve la sesión todavía vigente y, antes de que el llamador la revoque,
// la consume como lo haría otra rotación concurrente con el mismo refresh token.
type lateRevokeTokens struct {
	repository.RefreshTokenRepository
}

func (w lateRevokeTokens) GetByJTI(ctx context.Context, jti string) (*entity.RefreshToken, error) {
	session, err := w.RefreshTokenRepository.GetByJTI(ctx, jti)
	if err == nil && session != nil {
		err = w.RefreshTokenRepository.Revoke(ctx, jti)
	}
	return session, err
}

type lateRevokeRunner struct {
	store *memory.Store
}

func (r lateRevokeRunner) RunSession(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
) error) error {
	return r.store.RunSession(ctx, func(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository) error {
		return fn(userRepo, lateRevokeTokens{tokenRepo})
	})
}

func TestRefresh_SesionConsumidaPorOtraRotacion_Retorna401(t *testing.T) {
	uc, store := newTestAuth(t)
	register(t, uc, "ana@tienda.com")
	tokens, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: testPassword})
	require.NoError(t, err)

	uc.txRunner = lateRevokeRunner{store: store}
	_, err = uc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "sólo una rotación puede consumir la sesión")
}

func TestRevokeActive_SoloUnaVez(t *testing.T) {
	uc, store := newTestAuth(t)
	register(t, uc, "ana@tienda.com")
	tokens, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: testPassword})
	require.NoError(t, err)
	signer, err := jwt.NewSigner("test-secret-key-for-unit-tests", "fertilizer-shop-test")
	require.NoError(t, err)
	claims, err := signer.Parse(tokens.RefreshToken, jwt.TypeRefresh)
	require.NoError(t, err)

	ok, err := store.RefreshTokens().RevokeActive(context.Background(), claims.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.RefreshTokens().RevokeActive(context.Background(), claims.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "una sesión ya revocada no se consume de nuevo")
}

func TestRefresh_SesionVencida_Retorna401(t *testing.T) {
	uc, _ := newTestAuth(t)
	register(t, uc, "ana@tienda.com")
	tokens, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: testPassword})
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Now().Add(15 * 24 * time.Hour) }
	_, err = uc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_RevocaLaSesion(t *testing.T) {
	uc, _ := newTestAuth(t)
	register(t, uc, "ana@tienda.com")
	tokens, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken}))
	_, err = uc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, uc.Logout(context.Background(), dto.RefreshRequest{RefreshToken: "basura"}), domain.ErrUnauthorized)
}

func TestCreateAdmin_CreaOPromueve(t *testing.T) {
	uc, _ := newTestAuth(t)
	register(t, uc, "primero@tienda.com")

	admin, err := uc.CreateAdmin(context.Background(), "ops@tienda.com", testPassword, "Operador")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)

	_, err = uc.CreateAdmin(context.Background(), "ops@tienda.com", testPassword, "")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
