package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jhoicas/fertilizer-shop/internal/application/dto"
	"github.com/jhoicas/fertilizer-shop/internal/domain"
	"github.com/jhoicas/fertilizer-shop/internal/domain/entity"
	"github.com/jhoicas/fertilizer-shop/internal/domain/repository"
	"github.com/jhoicas/fertilizer-shop/pkg/jwt"
	"github.com/jhoicas/fertilizer-shop/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// TokenConfig vigencia de los tokens emitidos.
type TokenConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthUseCase casos de uso de autenticación: registro, login, rotación de sesión y logout.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	txRunner  SessionTxRunner
	signer    *jwt.Signer
	cfg       TokenConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	txRunner SessionTxRunner,
	signer *jwt.Signer,
	cfg TokenConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		txRunner:  txRunner,
		signer:    signer,
		cfg:       cfg,
		log:       log.Component("auth"),
		now:       time.Now,
	}
}

// Register crea un usuario con password hasheado con bcrypt. El primer usuario de la tabla queda como admin.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	count, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := entity.RoleUser
	if count == 0 {
		role = entity.RoleAdmin
	}
	user, err := uc.create(ctx, email, in.Password, in.FullName, role)
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// CreateAdmin crea un administrador sin pasar por la regla del primer usuario (herramienta de operador).
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, email, password, fullName string) (*dto.UserResponse, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := uc.create(ctx, normalized, password, fullName, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

func (uc *AuthUseCase) create(ctx context.Context, email, password, fullName string, role entity.Role) (*entity.User, error) {
	if len(password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := entity.NewUser(email, string(hash), strings.TrimSpace(fullName))
	user.Role = role
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("usuario registrado")
	return user, nil
}

// Login verifica email/password y emite access + refresh token. La sesión queda registrada por su jti.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	out, err := uc.issue(ctx, uc.tokenRepo, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("login")
	return out, nil
}

// Refresh valida el refresh token contra su fila y rota la sesión: revoca la anterior y emite un par nuevo.
// Token inválido, revocado, vencido o desconocido → ErrUnauthorized.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := uc.signer.Parse(in.RefreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	var out *dto.TokenResponse
	err = uc.txRunner.RunSession(ctx, func(
		userRepo repository.UserRepository,
		tokenRepo repository.RefreshTokenRepository,
	) error {
		session, err := tokenRepo.GetByJTI(ctx, claims.ID)
		if err != nil {
			return err
		}
		if session == nil || !session.Usable(uc.now()) {
			return domain.ErrUnauthorized
		}
		user, err := userRepo.GetByID(ctx, session.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUnauthorized
		}
		if !user.IsActive {
			return domain.ErrForbidden
		}
		// Sólo una rotación puede consumir la sesión; una repetición concurrente no obtiene filas.
		revoked, err := tokenRepo.RevokeActive(ctx, session.JTI, uc.now())
		if err != nil {
			return err
		}
		if !revoked {
			return domain.ErrUnauthorized
		}
		out, err = uc.issue(ctx, tokenRepo, user)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			uc.log.Error().Err(err).Msg("no se pudo rotar la sesión")
		}
		return nil, err
	}
	return out, nil
}

// Logout revoca la sesión del refresh token. Un token inválido → ErrUnauthorized.
func (uc *AuthUseCase) Logout(ctx context.Context, in dto.RefreshRequest) error {
	claims, err := uc.signer.Parse(in.RefreshToken, jwt.TypeRefresh)
	if err != nil {
		return domain.ErrUnauthorized
	}
	return uc.tokenRepo.Revoke(ctx, claims.ID)
}

// Authenticate valida un access token y devuelve al usuario activo que representa.
func (uc *AuthUseCase) Authenticate(ctx context.Context, accessToken string) (*dto.UserResponse, error) {
	claims, err := uc.signer.Parse(accessToken, jwt.TypeAccess)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.Me(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// Me devuelve el usuario por ID.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.FromUser(user)
	return &out, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, tokenRepo repository.RefreshTokenRepository, user *entity.User) (*dto.TokenResponse, error) {
	access, err := uc.signer.GenerateAccess(user.ID, string(user.Role), uc.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := uc.signer.GenerateRefresh(user.ID, string(user.Role), uc.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	session := &entity.RefreshToken{UserID: user.ID, JTI: refresh.JTI, ExpiresAt: refresh.ExpiresAt}
	if err := tokenRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		TokenType:    "bearer",
		ExpiresAt:    access.ExpiresAt,
		User:         dto.FromUser(user),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidInput
	}
	return email, nil
}
