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
	"conduit/internal/models"
	"conduit/internal/slug"
)

// CategoryInput is the payload for creating a category. Supercategory is
// the slug of the parent category, empty for a root category.
type CategoryInput struct {
	Name          string `json:"name" validate:"required,max=150"`
	Supercategory string `json:"supercategory" validate:"max=255"`
}

// CategoryUpdate is the payload for updating a category. Nil fields are
// left unchanged; an empty Supercategory detaches the category from its parent.
type CategoryUpdate struct {
	Name          *string `json:"name" validate:"omitempty,max=150"`
	Supercategory *string `json:"supercategory" validate:"omitempty,max=255"`
}

// CategoryService implements the category hierarchy and its slug rules.
type CategoryService struct {
	categories CategoryRepository
	articles   ArticleRepository
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories CategoryRepository, articles ArticleRepository) *CategoryService {
	return &CategoryService{categories: categories, articles: articles}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}

// Tree returns the category forest with subcategories nested.
func (s *CategoryService) Tree(ctx context.Context) ([]models.Category, error) {
	items, err := s.categories.Tree(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}

// Get returns the category with the given slug.
func (s *CategoryService) Get(ctx context.Context, categorySlug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category")
	}
	return c, nil
}

// Create validates and stores a new category, deriving its slug from the
// supercategory name and its own name.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Supercategory = strings.TrimSpace(in.Supercategory)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if err := s.checkNameFree(ctx, in.Name, uuid.Nil); err != nil {
		return nil, err
	}

	var parent *models.Category
	if in.Supercategory != "" {
		var err error
		if parent, err = s.supercategory(ctx, in.Supercategory); err != nil {
			return nil, err
		}
	}

	c := &models.Category{Name: in.Name}
	parentName := ""
	if parent != nil {
		c.SupercategoryID = &parent.ID
		parentName = parent.Name
	}

	base := slug.Category(in.Name, parentName)
	taken, err := s.categories.Slugs(ctx, base)
	if err != nil {
		return nil, err
	}
	c.Slug = slug.Unique(base, taken)

	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		created.Supercategory = &parent.Slug
	}

	slog.Info("category created", "slug", created.Slug, "name", created.Name)
	return created, nil
}

// Update changes a category's name and/or supercategory. The slug is
// re-derived when either changes; a rename also re-derives the slugs of
// the direct subcategories, whose slugs embed this category's name.
func (s *CategoryService) Update(ctx context.Context, categorySlug string, in CategoryUpdate) (*models.Category, error) {
	trimPtr(in.Name)
	trimPtr(in.Supercategory)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Name != nil && *in.Name == "" {
		return nil, apperr.Validation("name", "can't be blank")
	}

	c, err := s.Get(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	newName := c.Name
	if in.Name != nil {
		newName = *in.Name
	}
	nameChanged := newName != c.Name
	if nameChanged {
		if err := s.checkNameFree(ctx, newName, c.ID); err != nil {
			return nil, err
		}
	}

	parentID := c.SupercategoryID
	var parent *models.Category
	if in.Supercategory != nil {
		if *in.Supercategory == "" {
			parentID = nil
		} else {
			if parent, err = s.supercategory(ctx, *in.Supercategory); err != nil {
				return nil, err
			}
			if err := s.checkNoCycle(ctx, c.ID, parent.ID); err != nil {
				return nil, err
			}
			parentID = &parent.ID
		}
	}
	parentChanged := !sameID(parentID, c.SupercategoryID)

	if !nameChanged && !parentChanged {
		return c, nil
	}

	if parent == nil && parentID != nil {
		if parent, err = s.categories.FindByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}
	parentName := ""
	if parent != nil {
		parentName = parent.Name
	}

	base := slug.Category(newName, parentName)
	taken, err := s.categories.Slugs(ctx, base)
	if err != nil {
		return nil, err
	}
	oldSlug := c.Slug
	c.Name = newName
	c.SupercategoryID = parentID
	c.Slug = slug.Unique(base, without(taken, oldSlug))

	var renames []models.SlugChange
	if nameChanged {
		if renames, err = s.subcategoryRenames(ctx, c); err != nil {
			return nil, err
		}
	}

	if err := s.categories.Update(ctx, c, renames); err != nil {
		return nil, err
	}

	c.Supercategory = nil
	if parent != nil {
		c.Supercategory = &parent.Slug
	}

	slog.Info("category updated",
		"old_slug", oldSlug,
		"slug", c.Slug,
		"subcategories_reslugged", len(renames),
	)
	return c, nil
}

// subcategoryRenames computes the new slugs of c's direct subcategories
// after c was renamed. Slugs handed out earlier in the batch count as taken.
func (s *CategoryService) subcategoryRenames(ctx context.Context, c *models.Category) ([]models.SlugChange, error) {
	children, err := s.categories.Subcategories(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	reserved := []string{c.Slug}
	var renames []models.SlugChange
	for _, child := range children {
		base := slug.Category(child.Name, c.Name)
		taken, err := s.categories.Slugs(ctx, base)
		if err != nil {
			return nil, err
		}
		next := slug.Unique(base, append(without(taken, child.Slug), reserved...))
		reserved = append(reserved, next)
		if next != child.Slug {
			renames = append(renames, models.SlugChange{ID: child.ID, Slug: next})
		}
	}
	return renames, nil
}

// Delete removes a category together with its subcategories and the
// articles filed under them.
func (s *CategoryService) Delete(ctx context.Context, categorySlug string) error {
	c, err := s.Get(ctx, categorySlug)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, c.ID); err != nil {
		return err
	}
	slog.Info("category deleted", "slug", c.Slug)
	return nil
}

// Articles returns the articles filed directly under the category.
// Articles of its subcategories are not included.
func (s *CategoryService) Articles(ctx context.Context, categorySlug string) ([]models.Article, error) {
	c, err := s.Get(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	items, err := s.articles.ListByCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return renderAll(items)
}

func (s *CategoryService) checkNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperr.Conflict("name", "category with this name already exists")
	}
	return nil
}

func (s *CategoryService) supercategory(ctx context.Context, parentSlug string) (*models.Category, error) {
	parent, err := s.categories.FindBySlug(ctx, parentSlug)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, apperr.Validation("supercategory", fmt.Sprintf("category %q does not exist", parentSlug))
	}
	return parent, nil
}

// checkNoCycle rejects making parentID the supercategory of id when id is
// parentID itself or one of parentID's ancestors.
func (s *CategoryService) checkNoCycle(ctx context.Context, id, parentID uuid.UUID) error {
	if id == parentID {
		return apperr.Validation("supercategory", "a category cannot be its own supercategory")
	}
	cycle, err := s.categories.IsAncestor(ctx, id, parentID)
	if err != nil {
		return err
	}
	if cycle {
		return apperr.Validation("supercategory", "a category cannot be placed under one of its subcategories")
	}
	return nil
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
