// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/models"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the payload for logging in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserService handles accounts and the author profiles behind them.
type UserService struct {
	users    UserRepository
	profiles ProfileRepository
}

// NewUserService creates a UserService.
func NewUserService(users UserRepository, profiles ProfileRepository) *UserService {
	return &UserService{users: users, profiles: profiles}
}

// Register creates a user and its profile.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Profile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}

	u, p, err := s.users.Create(ctx, in.Email, in.Password, in.Username)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("user registered", "username", p.Username)
	return u, p, nil
}

// Login verifies credentials and returns the matching user and profile.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, *models.Profile, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !s.users.CheckPassword(u, in.Password) {
		return nil, nil, apperr.Unauthorized("email or password is invalid")
	}

	p, err := s.profiles.FindByUserID(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, apperr.Unauthorized("account has no profile")
	}
	return u, p, nil
}

// Current returns the user and profile behind an authenticated session.
func (s *UserService) Current(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, apperr.Unauthorized("session user no longer exists")
	}
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, apperr.Unauthorized("account has no profile")
	}
	return u, p, nil
}

// Profile returns the public profile of username.
func (s *UserService) Profile(ctx context.Context, username string) (*models.Profile, error) {
	p, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("profile")
	}
	return p, nil
}
