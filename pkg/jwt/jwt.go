package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongType el token es válido pero no del tipo esperado.
var ErrWrongType = errors.New("jwt: tipo de token inesperado")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Subject lleva el ID del usuario y ID el jti que identifica la sesión.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"` // "user" | "admin"
	Type string `json:"typ"`  // "access" | "refresh"
}

// UserID devuelve el ID numérico del usuario (claim sub).
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Issued token firmado junto con su jti y vencimiento.
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Signer firma y valida tokens HS256.
type Signer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewSigner construye el firmador. El secreto no puede estar vacío.
func NewSigner(secret, issuer string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	return &Signer{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// GenerateAccess emite un access token que vence en ttl.
func (s *Signer) GenerateAccess(userID int64, role string, ttl time.Duration) (*Issued, error) {
	return s.generate(userID, role, TypeAccess, ttl)
}

// GenerateRefresh emite un refresh token; su jti es la clave de la fila en refresh_tokens.
func (s *Signer) GenerateRefresh(userID int64, role string, ttl time.Duration) (*Issued, error) {
	return s.generate(userID, role, TypeRefresh, ttl)
}

func (s *Signer) generate(userID int64, role, typ string, ttl time.Duration) (*Issued, error) {
	now := s.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
		Type: typ,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Issued{Token: token, JTI: jti, ExpiresAt: exp}, nil
}

// Parse valida firma, emisor, vencimiento y tipo del token y devuelve sus claims.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta, otro emisor o es de otro tipo.
func (s *Signer) Parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired(), jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Type != wantType {
		return nil, ErrWrongType
	}
	return claims, nil
}
