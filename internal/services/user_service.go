package services

import (
	"context"
	"errors"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskapp/task-manager-api/internal/models"
	"github.com/taskapp/task-manager-api/internal/storage"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  storage.Users
	tokens *TokenManager
}

func NewUserService(
	logger zerolog.Logger,
	users storage.Users,
	tokens *TokenManager,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if utf8.RuneCountInString(params.Name) < minNameLength {
		return nil, NewValidationError("name should be at least 2 characters")
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, NewValidationError("invalid email format")
	}
	if utf8.RuneCountInString(params.Password) < minPasswordLength {
		return nil, NewValidationError("password should be at least 6 characters")
	}

	now := time.Now()
	user := models.User{
		Name:      params.Name,
		Email:     params.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	err = s.users.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			s.logger.Warn().
				Str("email", user.Email).
				Msg("email already registered")
			return nil, ErrEmailTaken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create user")
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("registered user")
	return &AuthResult{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  token,
	}, nil
}

func (s *userServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Same error as a password mismatch, so a caller
			// can't probe which emails are registered.
			s.logger.Warn().
				Str("email", params.Email).
				Msg("login with unknown email")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by email")
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("login with wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return &AuthResult{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  token,
	}, nil
}
