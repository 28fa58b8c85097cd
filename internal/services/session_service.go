package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallery-backend/internal/models"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrUnauthenticated = errors.New("not authenticated")

// SessionLifetime is the absolute session expiry: both the JWT exp claim
// and the redis key TTL, so a token can never outlive its session record.
const SessionLifetime = 24 * time.Hour

// Session is a resolved, still-valid login.
type Session struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Username string
}

// SessionService mints HS256 tokens and tracks live sessions in redis.
// The token alone is not enough to stay logged in: its session id must
// still exist server-side, which is what makes logout effective.
type SessionService struct {
	rdb       *redis.Client
	jwtSecret string
}

func NewSessionService(rdb *redis.Client, jwtSecret string) *SessionService {
	return &SessionService{rdb: rdb, jwtSecret: jwtSecret}
}

func (s *SessionService) Start(ctx context.Context, user *models.User) (string, error) {
	sessionID := uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":      sessionID.String(),
		"userID":   user.ID.String(),
		"username": user.Username,
		"exp":      time.Now().Add(SessionLifetime).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(sessionID), user.ID.String(), SessionLifetime).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return tokenString, nil
}

func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	sessionID, err := claimUUID(mapClaims, "jti")
	if err != nil {
		return nil, ErrUnauthenticated
	}
	userID, err := claimUUID(mapClaims, "userID")
	if err != nil {
		return nil, ErrUnauthenticated
	}
	username, ok := mapClaims["username"].(string)
	if !ok {
		return nil, ErrUnauthenticated
	}

	storedUserID, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if storedUserID != userID.String() {
		return nil, ErrUnauthenticated
	}

	return &Session{ID: sessionID, UserID: userID, Username: username}, nil
}

func (s *SessionService) End(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

func claimUUID(claims jwt.MapClaims, name string) (uuid.UUID, error) {
	value, ok := claims[name].(string)
	if !ok {
		return uuid.Nil, jwt.ErrInvalidKey
	}
	return uuid.Parse(value)
}
