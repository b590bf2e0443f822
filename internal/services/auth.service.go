package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/session"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims is the JWT payload a salesperson carries between requests.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates salesperson bearer tokens.
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

func (m *TokenManager) Generate(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:    user.ID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type AdminReader interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
}

type SessionStore interface {
	Create(sess session.Session) (string, error)
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

// AuthService authenticates salespeople against bcrypt hashes and issues
// JWTs, and runs the cookie-backed admin sessions.
type AuthService struct {
	users    UserReader
	admins   AdminReader
	tokens   *TokenManager
	sessions SessionStore
}

func NewAuthService(users UserReader, admins AdminReader, tokens *TokenManager, sessions SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		admins:   admins,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Login verifies a salesperson's credentials and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Verify decodes a bearer token back into its claims.
func (s *AuthService) Verify(token string) (*Claims, error) {
	return s.tokens.Validate(token)
}

// AdminLogin verifies an admin's credentials and opens a server-side session.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *model.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(session.Session{
		AdminID:     admin.ID,
		Email:       admin.Email,
		Permissions: admin.Permissions,
	})
	if err != nil {
		return "", nil, err
	}
	return sessionID, admin, nil
}

// AdminSession resolves a session cookie back to the logged-in admin.
func (s *AuthService) AdminSession(sessionID string) (*session.Session, error) {
	return s.sessions.Get(sessionID)
}

// AdminLogout revokes the session server side.
func (s *AuthService) AdminLogout(sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// HashPassword wraps bcrypt for user creation paths.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
