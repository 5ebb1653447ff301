// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/models"
	"conduit/internal/slug"
)

// memDB is an in-memory stand-in for the PostgreSQL stores. It keeps the
// same cascade and uniqueness rules as the schema.
type memDB struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*models.Category
	articles   map[uuid.UUID]*models.Article
	tags       map[string]*models.Tag // by slug
	articleTag map[uuid.UUID][]uuid.UUID
	comments   map[uuid.UUID]*models.Comment
	profiles   map[uuid.UUID]*models.Profile
}

func newMemDB() *memDB {
	return &memDB{
		categories: map[uuid.UUID]*models.Category{},
		articles:   map[uuid.UUID]*models.Article{},
		tags:       map[string]*models.Tag{},
		articleTag: map[uuid.UUID][]uuid.UUID{},
		comments:   map[uuid.UUID]*models.Comment{},
		profiles:   map[uuid.UUID]*models.Profile{},
	}
}

func (db *memDB) addProfile(username string) *models.Profile {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := &models.Profile{ID: uuid.New(), UserID: uuid.New(), Username: username}
	db.profiles[p.ID] = p
	return p
}

// --- categories ---

type memCategories struct{ db *memDB }

func (r memCategories) hydrate(c models.Category) models.Category {
	if c.SupercategoryID != nil {
		if p, ok := r.db.categories[*c.SupercategoryID]; ok {
			s := p.Slug
			c.Supercategory = &s
		}
	}
	c.ArticlesCount = 0
	for _, a := range r.db.articles {
		if a.CategoryID != nil && *a.CategoryID == c.ID {
			c.ArticlesCount++
		}
	}
	return c
}

func (r memCategories) List(_ context.Context) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Category
	for _, c := range r.db.categories {
		out = append(out, r.hydrate(*c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	children := map[uuid.UUID][]models.Category{}
	var roots []models.Category
	for _, c := range flat {
		if c.SupercategoryID == nil {
			roots = append(roots, c)
		} else {
			children[*c.SupercategoryID] = append(children[*c.SupercategoryID], c)
		}
	}
	var attach func(c *models.Category)
	attach = func(c *models.Category) {
		c.Subcategories = children[c.ID]
		for i := range c.Subcategories {
			attach(&c.Subcategories[i])
		}
	}
	for i := range roots {
		attach(&roots[i])
	}
	return roots, nil
}

func (r memCategories) find(match func(*models.Category) bool) *models.Category {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.categories {
		if match(c) {
			h := r.hydrate(*c)
			return &h
		}
	}
	return nil
}

func (r memCategories) FindBySlug(_ context.Context, s string) (*models.Category, error) {
	return r.find(func(c *models.Category) bool { return c.Slug == s }), nil
}

func (r memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	return r.find(func(c *models.Category) bool { return c.ID == id }), nil
}

func (r memCategories) FindByName(_ context.Context, name string) (*models.Category, error) {
	return r.find(func(c *models.Category) bool { return c.Name == name }), nil
}

func (r memCategories) Subcategories(_ context.Context, id uuid.UUID) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Category
	for _, c := range r.db.categories {
		if c.SupercategoryID != nil && *c.SupercategoryID == id {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) IsAncestor(_ context.Context, ancestorID, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.categories[id]
	for ok && cur.SupercategoryID != nil {
		if *cur.SupercategoryID == ancestorID {
			return true, nil
		}
		cur, ok = r.db.categories[*cur.SupercategoryID]
	}
	return false, nil
}

func (r memCategories) Slugs(_ context.Context, base string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, c := range r.db.categories {
		if slug.HasBase(c.Slug, base) {
			out = append(out, c.Slug)
		}
	}
	return out, nil
}

func (r memCategories) checkUnique(c *models.Category) error {
	for _, other := range r.db.categories {
		if other.ID == c.ID {
			continue
		}
		if other.Name == c.Name {
			return apperr.Conflict("name", "has already been taken")
		}
		if other.Slug == c.Slug {
			return apperr.Conflict("slug", "has already been taken")
		}
	}
	return nil
}

func (r memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = uuid.New()
	if err := r.checkUnique(c); err != nil {
		return nil, err
	}
	stored := *c
	r.db.categories[c.ID] = &stored
	out := stored
	return &out, nil
}

func (r memCategories) Update(_ context.Context, c *models.Category, renames []models.SlugChange) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rn := range renames {
		r.db.categories[rn.ID].Slug = rn.Slug
	}
	if err := r.checkUnique(c); err != nil {
		return err
	}
	stored := *c
	stored.Supercategory = nil
	r.db.categories[c.ID] = &stored
	return nil
}

func (r memCategories) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.deleteCategory(id)
	return nil
}

func (db *memDB) deleteCategory(id uuid.UUID) {
	for cid, c := range db.categories {
		if c.SupercategoryID != nil && *c.SupercategoryID == id {
			db.deleteCategory(cid)
		}
	}
	for aid, a := range db.articles {
		if a.CategoryID != nil && *a.CategoryID == id {
			db.deleteArticle(aid)
		}
	}
	delete(db.categories, id)
}

// --- articles ---

type memArticles struct{ db *memDB }

func (r memArticles) hydrate(a models.Article) models.Article {
	if p, ok := r.db.profiles[a.AuthorID]; ok {
		a.Author = *p
	}
	a.Category = nil
	if a.CategoryID != nil {
		if c, ok := r.db.categories[*a.CategoryID]; ok {
			name := c.Name
			a.Category = &name
		}
	}
	a.TagList = []string{}
	for _, tid := range r.db.articleTag[a.ID] {
		for _, t := range r.db.tags {
			if t.ID == tid {
				a.TagList = append(a.TagList, t.Tag)
			}
		}
	}
	sort.Strings(a.TagList)
	return a
}

func (r memArticles) List(_ context.Context, f models.ArticleFilter) ([]models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Article
	for _, a := range r.db.articles {
		h := r.hydrate(*a)
		if f.Category != "" && (h.Category == nil || *h.Category != f.Category) {
			continue
		}
		if f.Author != "" && h.Author.Username != f.Author {
			continue
		}
		if f.Tag != "" && !r.hasTagSlug(a.ID, f.Tag) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r memArticles) hasTagSlug(articleID uuid.UUID, tagSlug string) bool {
	t, ok := r.db.tags[tagSlug]
	if !ok {
		return false
	}
	for _, tid := range r.db.articleTag[articleID] {
		if tid == t.ID {
			return true
		}
	}
	return false
}

func (r memArticles) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Article
	for _, a := range r.db.articles {
		if a.CategoryID != nil && *a.CategoryID == categoryID {
			out = append(out, r.hydrate(*a))
		}
	}
	return out, nil
}

func (r memArticles) FindBySlug(_ context.Context, s string) (*models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.articles {
		if a.Slug == s {
			h := r.hydrate(*a)
			return &h, nil
		}
	}
	return nil, nil
}

func (r memArticles) Slugs(_ context.Context, base string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, a := range r.db.articles {
		if slug.HasBase(a.Slug, base) {
			out = append(out, a.Slug)
		}
	}
	return out, nil
}

func (r memArticles) save(a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	for _, other := range r.db.articles {
		if other.ID != a.ID && other.Slug == a.Slug {
			return nil, apperr.Conflict("slug", "has already been taken")
		}
	}
	stored := *a
	r.db.articles[a.ID] = &stored
	if tagIDs != nil {
		r.db.articleTag[a.ID] = append([]uuid.UUID(nil), tagIDs...)
	}
	h := r.hydrate(stored)
	return &h, nil
}

func (r memArticles) Create(_ context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = uuid.New()
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return r.save(a, tagIDs)
}

func (r memArticles) Update(_ context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.save(a, tagIDs)
}

func (r memArticles) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.deleteArticle(id)
	return nil
}

func (db *memDB) deleteArticle(id uuid.UUID) {
	for cid, c := range db.comments {
		if c.ArticleID == id {
			delete(db.comments, cid)
		}
	}
	delete(db.articleTag, id)
	delete(db.articles, id)
}

// --- tags ---

type memTags struct{ db *memDB }

func (r memTags) List(_ context.Context) ([]models.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Tag
	for _, t := range r.db.tags {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (r memTags) Ensure(_ context.Context, tags []models.Tag) ([]models.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		t := t
		existing, ok := r.db.tags[t.Slug]
		if !ok {
			t.ID = uuid.New()
			existing = &t
			r.db.tags[t.Slug] = existing
		}
		out = append(out, *existing)
	}
	return out, nil
}

// --- comments ---

type memComments struct{ db *memDB }

func (r memComments) ListByArticle(_ context.Context, articleID uuid.UUID) ([]models.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []models.Comment
	for _, c := range r.db.comments {
		if c.ArticleID == articleID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r memComments) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r memComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = uuid.New()
	if p, ok := r.db.profiles[c.AuthorID]; ok {
		c.Author = *p
	}
	stored := *c
	r.db.comments[c.ID] = &stored
	out := stored
	return &out, nil
}

func (r memComments) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.comments, id)
	return nil
}

// --- profiles ---

type memProfiles struct{ db *memDB }

func (r memProfiles) FindByUsername(_ context.Context, username string) (*models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if strings.EqualFold(p.Username, username) {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (r memProfiles) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if p.UserID == userID {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

// fixture wires all services to one memDB.
type fixture struct {
	db         *memDB
	categories *CategoryService
	articles   *ArticleService
	comments   *CommentService
}

func newFixture() *fixture {
	db := newMemDB()
	cats, arts := memCategories{db}, memArticles{db}
	return &fixture{
		db:         db,
		categories: NewCategoryService(cats, arts),
		articles:   NewArticleService(arts, cats, memTags{db}),
		comments:   NewCommentService(memComments{db}, arts),
	}
}
