// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"conduit/internal/models"
	"conduit/internal/slug"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, supercategory_id, created_at, updated_at`

// categorySelect joins the supercategory slug and the number of articles
// filed directly under each category.
const categorySelect = `
	SELECT c.id, c.name, c.slug, c.supercategory_id, c.created_at, c.updated_at,
	       p.slug AS supercategory_slug,
	       (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id) AS articles_count
	FROM categories c
	LEFT JOIN categories p ON p.id = c.supercategory_id`

// scanCategory scans a row selected with categoryColumns.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.SupercategoryID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCategoryDetail scans a row selected with categorySelect.
func scanCategoryDetail(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.SupercategoryID, &c.CreatedAt, &c.UpdatedAt,
		&c.Supercategory, &c.ArticlesCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+` ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategoryDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a forest: root categories with their
// subcategories nested below them.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree nests a flat category list under its roots. Categories whose
// supercategory is missing from flat are treated as roots.
func BuildTree(flat []models.Category) []models.Category {
	present := make(map[uuid.UUID]bool, len(flat))
	for _, c := range flat {
		present[c.ID] = true
	}
	var roots []models.Category
	for _, c := range flat {
		if c.SupercategoryID == nil || !present[*c.SupercategoryID] {
			c.Subcategories = buildTree(flat, c.ID, map[uuid.UUID]bool{c.ID: true})
			roots = append(roots, c)
		}
	}
	return roots
}

// buildTree recursively collects the children of parentID. seen guards
// against cycles, which the schema does not rule out.
func buildTree(flat []models.Category, parentID uuid.UUID, seen map[uuid.UUID]bool) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if c.SupercategoryID != nil && *c.SupercategoryID == parentID && !seen[c.ID] {
			seen[c.ID] = true
			c.Subcategories = buildTree(flat, c.ID, seen)
			result = append(result, c)
		}
	}
	return result
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+` WHERE c.slug = $1`, categorySlug)
	c, err := scanCategoryDetail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+` WHERE c.id = $1`, id)
	c, err := scanCategoryDetail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName retrieves a category by its exact name. Returns nil if not found.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// Subcategories returns the direct children of a category.
func (s *CategoryStore) Subcategories(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE supercategory_id = $1
		ORDER BY name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// IsAncestor reports whether ancestorID is id itself or one of its
// supercategories, walking the parent chain upwards.
func (s *CategoryStore) IsAncestor(ctx context.Context, ancestorID, id uuid.UUID) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx, `
		WITH RECURSIVE chain AS (
			SELECT id, supercategory_id FROM categories WHERE id = $1
			UNION
			SELECT c.id, c.supercategory_id
			FROM categories c JOIN chain ON c.id = chain.supercategory_id
		)
		SELECT EXISTS (SELECT 1 FROM chain WHERE id = $2)
	`, id, ancestorID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("category ancestry: %w", err)
	}
	return found, nil
}

// Slugs returns the existing category slugs equal to base or carrying a
// numeric suffix on it.
func (s *CategoryStore) Slugs(ctx context.Context, base string) ([]string, error) {
	return slugsLike(ctx, s.db, "categories", base)
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, supercategory_id)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.SupercategoryID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, wrap("create category", err)
	}
	return result, nil
}

// Update modifies an existing category and applies the given slug changes
// to its subcategories in the same transaction.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category, renames []models.SlugChange) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, supercategory_id = $3, updated_at = $4
		WHERE id = $5
	`, c.Name, c.Slug, c.SupercategoryID, now, c.ID); err != nil {
		return wrap("update category", err)
	}

	for _, r := range renames {
		if _, err := tx.ExecContext(ctx, `
			UPDATE categories SET slug = $1, updated_at = $2 WHERE id = $3
		`, r.Slug, now, r.ID); err != nil {
			return wrap(fmt.Sprintf("reslug category %s", r.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category update: %w", err)
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes a category by ID. Subcategories and the articles filed
// under any removed category go with it (ON DELETE CASCADE).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// slugsLike collects slugs in table that equal base or extend it with a
// numeric suffix. Slugs only contain [a-z0-9-], so base is safe inside LIKE.
func slugsLike(ctx context.Context, db *sql.DB, table, base string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT slug FROM `+table+` WHERE slug = $1 OR slug LIKE $2`,
		base, base+slug.Separator+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list %s slugs: %w", table, err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan %s slug: %w", table, err)
		}
		if slug.HasBase(s, base) {
			slugs = append(slugs, s)
		}
	}
	return slugs, rows.Err()
}
