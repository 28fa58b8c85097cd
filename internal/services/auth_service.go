package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gallery-backend/internal/database"
	"gallery-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db *database.DB
}

func NewAuthService(db *database.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(username, password string) (*models.User, error) {
	var existing models.User
	err := s.db.Get(&existing, "select id from users where username = $1", username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(bytes),
	}

	query := `
		insert into users (id, username, password_hash)
		values ($1, $2, $3)
	`
	if _, err := s.db.Exec(query, user.ID, user.Username, user.PasswordHash); err != nil {
		// Backstop for the lookup/insert race: the unique constraint on
		// username turns the loser into the same duplicate error.
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

// Authenticate reports the same error for an unknown username and a wrong
// password, so callers cannot probe which usernames exist.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	query := "select id, username, password_hash from users where username = $1"

	if err := s.db.Get(&user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	query := "select id, username from users where id = $1"

	if err := s.db.Get(&user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
