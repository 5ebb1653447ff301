// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/models"
)

// CommentInput is the payload for adding a comment.
type CommentInput struct {
	Body string `json:"body" validate:"required,max=10000"`
}

// CommentService manages comments nested under articles.
type CommentService struct {
	comments CommentRepository
	articles ArticleRepository
}

// NewCommentService creates a CommentService.
func NewCommentService(comments CommentRepository, articles ArticleRepository) *CommentService {
	return &CommentService{comments: comments, articles: articles}
}

// List returns the comments of the article with the given slug.
func (s *CommentService) List(ctx context.Context, articleSlug string) ([]models.Comment, error) {
	a, err := s.article(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	items, err := s.comments.ListByArticle(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Comment{}
	}
	return items, nil
}

// Create adds a comment by authorID to the article.
func (s *CommentService) Create(ctx context.Context, authorID uuid.UUID, articleSlug string, in CommentInput) (*models.Comment, error) {
	in.Body = strings.TrimSpace(in.Body)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	a, err := s.article(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	return s.comments.Create(ctx, &models.Comment{
		Body:      in.Body,
		ArticleID: a.ID,
		AuthorID:  authorID,
	})
}

// Delete removes a comment. Only the comment's author may delete it.
func (s *CommentService) Delete(ctx context.Context, callerID uuid.UUID, articleSlug string, id uuid.UUID) error {
	a, err := s.article(ctx, articleSlug)
	if err != nil {
		return err
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil || c.ArticleID != a.ID {
		return apperr.NotFound("comment")
	}
	if !c.IsAuthoredBy(callerID) {
		return apperr.Forbidden("only the author can delete this comment")
	}
	return s.comments.Delete(ctx, c.ID)
}

func (s *CommentService) article(ctx context.Context, articleSlug string) (*models.Article, error) {
	a, err := s.articles.FindBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("article")
	}
	return a, nil
}
