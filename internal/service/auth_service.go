package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

var (
	ErrInvalidNickname = errors.New("invalid nickname")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

const maxNicknameLen = 20

// AuthService issues and validates player tokens. A token asserts a nickname
// for the session, nothing more: there are no accounts and no passwords.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}
	return &AuthService{jwtSecret: []byte(secret)}
}

// Login registers a nickname and returns its session token.
func (s *AuthService) Login(nickname string) (*model.LoginResponse, error) {
	if nickname == "" || len(nickname) > maxNicknameLen {
		return nil, ErrInvalidNickname
	}

	claims := &model.PlayerClaims{
		Nickname:  nickname,
		SessionID: uuid.New().String()[:8],
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    tokenString,
		Nickname: nickname,
	}, nil
}

// ValidatePlayerToken validates a player JWT and returns claims
func (s *AuthService) ValidatePlayerToken(tokenString string) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
