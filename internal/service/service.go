// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the article platform's business rules: slug
// derivation and uniqueness, category hierarchy checks, author-only
// mutation, and input validation. Services depend on the repository
// interfaces below, which the store package implements against PostgreSQL.
package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/models"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Tree(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Subcategories(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	IsAncestor(ctx context.Context, ancestorID, id uuid.UUID) (bool, error)
	Slugs(ctx context.Context, base string) ([]string, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category, renames []models.SlugChange) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ArticleRepository persists articles and their tag links.
type ArticleRepository interface {
	List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Article, error)
	FindBySlug(ctx context.Context, slug string) (*models.Article, error)
	Slugs(ctx context.Context, base string) ([]string, error)
	Create(ctx context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error)
	Update(ctx context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository persists the tag vocabulary.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	Ensure(ctx context.Context, tags []models.Tag) ([]models.Tag, error)
}

// CommentRepository persists article comments.
type CommentRepository interface {
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository persists accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, email, password, username string) (*models.User, *models.Profile, error)
	CheckPassword(user *models.User, password string) bool
}

// ProfileRepository reads author profiles.
type ProfileRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// validate is shared by all services; it is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks struct tags on a request payload and converts
// failures into a field-level validation error.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return apperr.ValidationFields(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "max":
		return "is too long (maximum is " + fe.Param() + " characters)"
	case "min":
		return "is too short (minimum is " + fe.Param() + " characters)"
	default:
		return "is invalid"
	}
}

// trimPtr trims the string behind p in place.
func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

// without returns items minus every occurrence of s.
func without(items []string, s string) []string {
	out := items[:0:0]
	for _, it := range items {
		if it != s {
			out = append(out, it)
		}
	}
	return out
}
