// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a piece of writing owned by exactly one author profile and
// optionally filed under one category.
type Article struct {
	ID          uuid.UUID  `json:"-"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Body        string     `json:"body"`
	BodyHTML    string     `json:"bodyHtml"`
	AuthorID    uuid.UUID  `json:"-"`
	CategoryID  *uuid.UUID `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Author   Profile  `json:"author"`
	Category *string  `json:"category"`
	TagList  []string `json:"tagList"`
}

// IsAuthoredBy returns true if the given profile owns the article.
func (a *Article) IsAuthoredBy(profileID uuid.UUID) bool {
	return a.AuthorID == profileID
}

// ArticleFilter narrows an article listing. Empty fields do not filter.
// Category matches the category name exactly.
type ArticleFilter struct {
	Category string
	Tag      string
	Author   string
}

// Tag labels articles. Tags are shared across articles and identified by slug.
type Tag struct {
	ID        uuid.UUID `json:"-"`
	Tag       string    `json:"tag"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Comment is a reply attached to an article.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Body      string    `json:"body"`
	ArticleID uuid.UUID `json:"-"`
	AuthorID  uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author Profile `json:"author"`
}

// IsAuthoredBy returns true if the given profile wrote the comment.
func (c *Comment) IsAuthoredBy(profileID uuid.UUID) bool {
	return c.AuthorID == profileID
}
