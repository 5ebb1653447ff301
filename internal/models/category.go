// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the category forest. A category optionally belongs
// to one supercategory; its slug is derived from the supercategory's name
// and its own name.
type Category struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	SupercategoryID *uuid.UUID `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Supercategory *string    `json:"supercategory"` // supercategory slug
	Subcategories []Category `json:"subcategories,omitempty"`
	ArticlesCount int        `json:"articlesCount"`
}

// IsRoot returns true if the category has no supercategory.
func (c *Category) IsRoot() bool {
	return c.SupercategoryID == nil
}

// SlugChange is a pending slug rewrite for one category.
type SlugChange struct {
	ID   uuid.UUID
	Slug string
}
