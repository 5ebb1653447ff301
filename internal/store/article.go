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
)

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// articleSelect joins the author profile and the category name.
const articleSelect = `
	SELECT a.id, a.slug, a.title, a.description, a.body, a.author_id, a.category_id,
	       a.created_at, a.updated_at,
	       p.id, p.username, p.bio, p.image,
	       c.name
	FROM articles a
	JOIN profiles p ON p.id = a.author_id
	LEFT JOIN categories c ON c.id = a.category_id`

func scanArticle(row scanner) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.AuthorID, &a.CategoryID,
		&a.CreatedAt, &a.UpdatedAt,
		&a.Author.ID, &a.Author.Username, &a.Author.Bio, &a.Author.Image,
		&a.Category,
	)
	if err != nil {
		return nil, err
	}
	a.TagList = []string{}
	return &a, nil
}

// List returns articles matching the filter, newest first. The category
// filter is an exact match on the category name; subcategories do not match.
func (s *ArticleStore) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	return s.query(ctx, "list articles", articleSelect+`
		WHERE ($1 = '' OR c.name = $1)
		  AND ($2 = '' OR EXISTS (
		        SELECT 1 FROM article_tags at
		        JOIN tags t ON t.id = at.tag_id
		        WHERE at.article_id = a.id AND t.slug = $2))
		  AND ($3 = '' OR p.username = $3)
		ORDER BY a.created_at DESC`,
		f.Category, f.Tag, f.Author,
	)
}

// ListByCategory returns the articles filed directly under a category.
func (s *ArticleStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Article, error) {
	return s.query(ctx, "list category articles", articleSelect+`
		WHERE a.category_id = $1
		ORDER BY a.created_at DESC`,
		categoryID,
	)
}

func (s *ArticleStore) query(ctx context.Context, op, q string, args ...any) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.attachTags(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachTags fills TagList for each article with one query.
func (s *ArticleStore) attachTags(ctx context.Context, items []models.Article) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for i, a := range items {
		ids[i] = a.ID.String()
		index[a.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT at.article_id, t.tag
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id = ANY($1::uuid[])
		ORDER BY t.tag
	`, ids)
	if err != nil {
		return fmt.Errorf("list article tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID uuid.UUID
		var tag string
		if err := rows.Scan(&articleID, &tag); err != nil {
			return fmt.Errorf("scan article tag: %w", err)
		}
		if i, ok := index[articleID]; ok {
			items[i].TagList = append(items[i].TagList, tag)
		}
	}
	return rows.Err()
}

// FindBySlug retrieves an article by slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(ctx context.Context, articleSlug string) (*models.Article, error) {
	return s.findOne(ctx, "find article by slug", articleSelect+` WHERE a.slug = $1`, articleSlug)
}

// FindByID retrieves an article by ID. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return s.findOne(ctx, "find article by id", articleSelect+` WHERE a.id = $1`, id)
}

func (s *ArticleStore) findOne(ctx context.Context, op, q string, arg any) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, q, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items := []models.Article{*a}
	if err := s.attachTags(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Slugs returns the existing article slugs equal to base or carrying a
// numeric suffix on it.
func (s *ArticleStore) Slugs(ctx context.Context, base string) ([]string, error) {
	return slugsLike(ctx, s.db, "articles", base)
}

// Create inserts an article with its tag links and returns the stored row.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO articles (slug, title, description, body, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, a.Slug, a.Title, a.Description, a.Body, a.AuthorID, a.CategoryID).Scan(&id)
	if err != nil {
		return nil, wrap("create article", err)
	}

	if err := linkTags(ctx, tx, id, tagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article create: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update saves the editable fields of an article. When tagIDs is non-nil
// the article's tag links are replaced with it.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE articles SET
			slug = $1, title = $2, description = $3, body = $4,
			category_id = $5, updated_at = $6
		WHERE id = $7
	`, a.Slug, a.Title, a.Description, a.Body, a.CategoryID, time.Now(), a.ID)
	if err != nil {
		return nil, wrap("update article", err)
	}

	if tagIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, a.ID); err != nil {
			return nil, fmt.Errorf("clear article tags: %w", err)
		}
		if err := linkTags(ctx, tx, a.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article update: %w", err)
	}
	return s.FindByID(ctx, a.ID)
}

func linkTags(ctx context.Context, tx *sql.Tx, articleID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, articleID, tagID); err != nil {
			return fmt.Errorf("link tag %s: %w", tagID, err)
		}
	}
	return nil
}

// Delete removes an article by ID. Its comments and tag links cascade.
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}
