// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"conduit/internal/models"
)

// TagStore manages the shared tag vocabulary.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, tag, slug, created_at, updated_at`

// List returns all tags ordered by name.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	items := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Tag, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Ensure returns the stored tag for each given tag, inserting the ones
// whose slug does not exist yet. An existing tag keeps its original text.
func (s *TagStore) Ensure(ctx context.Context, tags []models.Tag) ([]models.Tag, error) {
	result := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		var stored models.Tag
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO tags (tag, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
			RETURNING `+tagColumns,
			t.Tag, t.Slug,
		).Scan(&stored.ID, &stored.Tag, &stored.Slug, &stored.CreatedAt, &stored.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("ensure tag %q: %w", t.Slug, err)
		}
		result = append(result, stored)
	}
	return result, nil
}
