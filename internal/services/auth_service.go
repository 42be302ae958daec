package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/redis"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword is returned when the shared store passphrase does not
// match.
var ErrWrongPassword = errors.New("パスワードが正しくありません")

// AuthService is the single-passphrase gate in front of the staff screens.
// A correct passphrase yields a session token held in redis with a TTL.
type AuthService interface {
	Login(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, token string) bool
	Logout(ctx context.Context, token string) error
}

type authService struct {
	redisClient  *redis.Client
	passwordHash string
	sessionTTL   time.Duration
}

func NewAuthService(redisClient *redis.Client, passwordHash string, sessionTTL time.Duration) AuthService {
	return &authService{
		redisClient:  redisClient,
		passwordHash: passwordHash,
		sessionTTL:   sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := &redis.StaffSession{CreatedAt: now, UpdatedAt: now}
	if err := s.redisClient.SetSession(ctx, token, session, s.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *authService) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := s.redisClient.GetSession(ctx, token)
	return err == nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.redisClient.DeleteSession(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
