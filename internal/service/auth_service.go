package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/apperr"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns user registration and the bearer-token scheme: HS256 JWTs
// with the username as subject and a fixed expiry window. No refresh mechanism.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Verify(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
		tokenTTL:  time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, fmt.Errorf("username %q already registered: %w", username, apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(user); err != nil {
		// The uniqueIndex catches the race between the existence check and the insert.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Uint("userID", user.ID).Str("username", username).Msg("User registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *authService) Verify(ctx context.Context, tokenString string) (*model.User, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.ErrUnauthorized
	}

	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return nil, apperr.ErrUnauthorized
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// A valid signature over a vanished user is still unauthorized.
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}
