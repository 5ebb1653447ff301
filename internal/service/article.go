// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/markdown"
	"conduit/internal/models"
	"conduit/internal/slug"
)

// ArticleInput is the payload for creating an article. Category is the
// slug of the category to file the article under, empty for none. The
// author is never part of the payload.
type ArticleInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=1000"`
	Body        string   `json:"body" validate:"max=100000"`
	TagList     []string `json:"tagList" validate:"max=20,dive,max=255"`
	Category    string   `json:"category" validate:"max=255"`
}

// ArticleUpdate is the payload for updating an article. Nil fields are
// left unchanged; a non-nil TagList replaces the tags and an empty
// Category removes the article from its category.
type ArticleUpdate struct {
	Title       *string  `json:"title" validate:"omitempty,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Body        *string  `json:"body" validate:"omitempty,max=100000"`
	TagList     []string `json:"tagList" validate:"omitempty,max=20,dive,max=255"`
	Category    *string  `json:"category" validate:"omitempty,max=255"`
}

// ArticleService implements article authoring and listing.
type ArticleService struct {
	articles   ArticleRepository
	categories CategoryRepository
	tags       TagRepository
}

// NewArticleService creates an ArticleService.
func NewArticleService(articles ArticleRepository, categories CategoryRepository, tags TagRepository) *ArticleService {
	return &ArticleService{articles: articles, categories: categories, tags: tags}
}

// List returns articles matching the filter. Category matches the category
// name exactly; Tag matches by tag slug; Author matches the username.
func (s *ArticleService) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Author = strings.TrimSpace(f.Author)
	if f.Tag != "" {
		f.Tag = slug.Generate(f.Tag)
	}
	items, err := s.articles.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return renderAll(items)
}

// Get returns the article with the given slug.
func (s *ArticleService) Get(ctx context.Context, articleSlug string) (*models.Article, error) {
	a, err := s.find(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	return render(a)
}

// Tags returns every tag name in use, ordered by name.
func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names, nil
}

// Create stores a new article written by authorID.
func (s *ArticleService) Create(ctx context.Context, authorID uuid.UUID, in ArticleInput) (*models.Article, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	a := &models.Article{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		AuthorID:    authorID,
	}

	if in.Category != "" {
		c, err := s.category(ctx, in.Category)
		if err != nil {
			return nil, err
		}
		a.CategoryID = &c.ID
	}

	var err error
	if a.Slug, err = s.uniqueSlug(ctx, a.Title, ""); err != nil {
		return nil, err
	}

	tagIDs, err := s.ensureTags(ctx, in.TagList)
	if err != nil {
		return nil, err
	}

	created, err := s.articles.Create(ctx, a, tagIDs)
	if err != nil {
		return nil, err
	}

	slog.Info("article created", "slug", created.Slug, "author_id", authorID)
	return render(created)
}

// CreateInCategory stores a new article filed under the category with the
// given slug, ignoring any category in the payload.
func (s *ArticleService) CreateInCategory(ctx context.Context, authorID uuid.UUID, categorySlug string, in ArticleInput) (*models.Article, error) {
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category")
	}
	in.Category = c.Slug
	return s.Create(ctx, authorID, in)
}

// Update changes an article. Only its author may update it; a new title
// re-derives the slug.
func (s *ArticleService) Update(ctx context.Context, callerID uuid.UUID, articleSlug string, in ArticleUpdate) (*models.Article, error) {
	trimPtr(in.Title)
	trimPtr(in.Category)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Title != nil && *in.Title == "" {
		return nil, apperr.Validation("title", "can't be blank")
	}

	a, err := s.find(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if !a.IsAuthoredBy(callerID) {
		return nil, apperr.Forbidden("only the author can change this article")
	}

	if in.Title != nil && *in.Title != a.Title {
		if a.Slug, err = s.uniqueSlug(ctx, *in.Title, a.Slug); err != nil {
			return nil, err
		}
		a.Title = *in.Title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Body != nil {
		a.Body = *in.Body
	}
	if in.Category != nil {
		if *in.Category == "" {
			a.CategoryID = nil
		} else {
			c, err := s.category(ctx, *in.Category)
			if err != nil {
				return nil, err
			}
			a.CategoryID = &c.ID
		}
	}

	var tagIDs []uuid.UUID
	if in.TagList != nil {
		if tagIDs, err = s.ensureTags(ctx, in.TagList); err != nil {
			return nil, err
		}
		if tagIDs == nil {
			tagIDs = []uuid.UUID{}
		}
	}

	updated, err := s.articles.Update(ctx, a, tagIDs)
	if err != nil {
		return nil, err
	}

	slog.Info("article updated", "slug", updated.Slug)
	return render(updated)
}

// Delete removes an article. Only its author may delete it.
func (s *ArticleService) Delete(ctx context.Context, callerID uuid.UUID, articleSlug string) error {
	a, err := s.find(ctx, articleSlug)
	if err != nil {
		return err
	}
	if !a.IsAuthoredBy(callerID) {
		return apperr.Forbidden("only the author can delete this article")
	}
	if err := s.articles.Delete(ctx, a.ID); err != nil {
		return err
	}
	slog.Info("article deleted", "slug", a.Slug)
	return nil
}

func (s *ArticleService) find(ctx context.Context, articleSlug string) (*models.Article, error) {
	a, err := s.articles.FindBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("article")
	}
	return a, nil
}

func (s *ArticleService) category(ctx context.Context, categorySlug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Validation("category", fmt.Sprintf("category %q does not exist", categorySlug))
	}
	return c, nil
}

// uniqueSlug derives a free slug from title. current is the article's own
// slug on update and never counts as taken.
func (s *ArticleService) uniqueSlug(ctx context.Context, title, current string) (string, error) {
	base := slug.Base(title, slug.FallbackArticle)
	taken, err := s.articles.Slugs(ctx, base)
	if err != nil {
		return "", err
	}
	return slug.Unique(base, without(taken, current)), nil
}

// ensureTags stores any new tags and returns the IDs of all given tags.
// Blank names are skipped and names that share a slug are collapsed.
func (s *ArticleService) ensureTags(ctx context.Context, names []string) ([]uuid.UUID, error) {
	seen := make(map[string]bool, len(names))
	var tags []models.Tag
	for _, name := range names {
		name = strings.TrimSpace(name)
		tagSlug := slug.Truncate(slug.Generate(name), slug.MaxLength)
		if tagSlug == "" || seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true
		tags = append(tags, models.Tag{Tag: name, Slug: tagSlug})
	}
	if len(tags) == 0 {
		return nil, nil
	}

	stored, err := s.tags.Ensure(ctx, tags)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(stored))
	for i, t := range stored {
		ids[i] = t.ID
	}
	return ids, nil
}

// render fills BodyHTML from the Markdown body.
func render(a *models.Article) (*models.Article, error) {
	html, err := markdown.ToHTML(a.Body)
	if err != nil {
		return nil, fmt.Errorf("render article %s: %w", a.Slug, err)
	}
	a.BodyHTML = html
	if a.TagList == nil {
		a.TagList = []string{}
	}
	return a, nil
}

func renderAll(items []models.Article) ([]models.Article, error) {
	if items == nil {
		return []models.Article{}, nil
	}
	for i := range items {
		if _, err := render(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}
