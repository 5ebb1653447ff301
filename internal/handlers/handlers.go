// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Handlers decode requests,
// call the service layer, and render envelopes; business rules live in
// the service package.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"conduit/internal/models"
	"conduit/internal/service"
	"conduit/internal/session"
)

// CategoryService is the category behaviour the handlers depend on.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Tree(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, slug string, in service.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
	Articles(ctx context.Context, slug string) ([]models.Article, error)
}

// ArticleService is the article behaviour the handlers depend on.
type ArticleService interface {
	List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error)
	Get(ctx context.Context, slug string) (*models.Article, error)
	Create(ctx context.Context, authorID uuid.UUID, in service.ArticleInput) (*models.Article, error)
	CreateInCategory(ctx context.Context, authorID uuid.UUID, categorySlug string, in service.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, callerID uuid.UUID, slug string, in service.ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, callerID uuid.UUID, slug string) error
	Tags(ctx context.Context) ([]string, error)
}

// CommentService is the comment behaviour the handlers depend on.
type CommentService interface {
	List(ctx context.Context, articleSlug string) ([]models.Comment, error)
	Create(ctx context.Context, authorID uuid.UUID, articleSlug string, in service.CommentInput) (*models.Comment, error)
	Delete(ctx context.Context, callerID uuid.UUID, articleSlug string, id uuid.UUID) error
}

// UserService is the account behaviour the handlers depend on.
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, *models.Profile, error)
	Login(ctx context.Context, in service.LoginInput) (*models.User, *models.Profile, error)
	Current(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error)
	Profile(ctx context.Context, username string) (*models.Profile, error)
}

// SessionStore creates and destroys login sessions.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}
