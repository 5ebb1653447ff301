// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// stub services, request builders, and response decoding helpers.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/service"
	"conduit/internal/session"
)

// stubCategories implements CategoryService with per-test overrides.
type stubCategories struct {
	list     func(ctx context.Context) ([]models.Category, error)
	tree     func(ctx context.Context) ([]models.Category, error)
	get      func(ctx context.Context, slug string) (*models.Category, error)
	create   func(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	update   func(ctx context.Context, slug string, in service.CategoryUpdate) (*models.Category, error)
	del      func(ctx context.Context, slug string) error
	articles func(ctx context.Context, slug string) ([]models.Article, error)
}

func (s *stubCategories) List(ctx context.Context) ([]models.Category, error) { return s.list(ctx) }
func (s *stubCategories) Tree(ctx context.Context) ([]models.Category, error) { return s.tree(ctx) }
func (s *stubCategories) Get(ctx context.Context, slug string) (*models.Category, error) {
	return s.get(ctx, slug)
}
func (s *stubCategories) Create(ctx context.Context, in service.CategoryInput) (*models.Category, error) {
	return s.create(ctx, in)
}
func (s *stubCategories) Update(ctx context.Context, slug string, in service.CategoryUpdate) (*models.Category, error) {
	return s.update(ctx, slug, in)
}
func (s *stubCategories) Delete(ctx context.Context, slug string) error { return s.del(ctx, slug) }
func (s *stubCategories) Articles(ctx context.Context, slug string) ([]models.Article, error) {
	return s.articles(ctx, slug)
}

// stubArticles implements ArticleService with per-test overrides.
type stubArticles struct {
	list             func(ctx context.Context, f models.ArticleFilter) ([]models.Article, error)
	get              func(ctx context.Context, slug string) (*models.Article, error)
	create           func(ctx context.Context, authorID uuid.UUID, in service.ArticleInput) (*models.Article, error)
	createInCategory func(ctx context.Context, authorID uuid.UUID, categorySlug string, in service.ArticleInput) (*models.Article, error)
	update           func(ctx context.Context, callerID uuid.UUID, slug string, in service.ArticleUpdate) (*models.Article, error)
	del              func(ctx context.Context, callerID uuid.UUID, slug string) error
	tags             func(ctx context.Context) ([]string, error)
}

func (s *stubArticles) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	return s.list(ctx, f)
}
func (s *stubArticles) Get(ctx context.Context, slug string) (*models.Article, error) {
	return s.get(ctx, slug)
}
func (s *stubArticles) Create(ctx context.Context, authorID uuid.UUID, in service.ArticleInput) (*models.Article, error) {
	return s.create(ctx, authorID, in)
}
func (s *stubArticles) CreateInCategory(ctx context.Context, authorID uuid.UUID, categorySlug string, in service.ArticleInput) (*models.Article, error) {
	return s.createInCategory(ctx, authorID, categorySlug, in)
}
func (s *stubArticles) Update(ctx context.Context, callerID uuid.UUID, slug string, in service.ArticleUpdate) (*models.Article, error) {
	return s.update(ctx, callerID, slug, in)
}
func (s *stubArticles) Delete(ctx context.Context, callerID uuid.UUID, slug string) error {
	return s.del(ctx, callerID, slug)
}
func (s *stubArticles) Tags(ctx context.Context) ([]string, error) { return s.tags(ctx) }

// stubComments implements CommentService with per-test overrides.
type stubComments struct {
	list   func(ctx context.Context, articleSlug string) ([]models.Comment, error)
	create func(ctx context.Context, authorID uuid.UUID, articleSlug string, in service.CommentInput) (*models.Comment, error)
	del    func(ctx context.Context, callerID uuid.UUID, articleSlug string, id uuid.UUID) error
}

func (s *stubComments) List(ctx context.Context, articleSlug string) ([]models.Comment, error) {
	return s.list(ctx, articleSlug)
}
func (s *stubComments) Create(ctx context.Context, authorID uuid.UUID, articleSlug string, in service.CommentInput) (*models.Comment, error) {
	return s.create(ctx, authorID, articleSlug, in)
}
func (s *stubComments) Delete(ctx context.Context, callerID uuid.UUID, articleSlug string, id uuid.UUID) error {
	return s.del(ctx, callerID, articleSlug, id)
}

// stubUsers implements UserService with per-test overrides.
type stubUsers struct {
	register func(ctx context.Context, in service.RegisterInput) (*models.User, *models.Profile, error)
	login    func(ctx context.Context, in service.LoginInput) (*models.User, *models.Profile, error)
	current  func(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error)
	profile  func(ctx context.Context, username string) (*models.Profile, error)
}

func (s *stubUsers) Register(ctx context.Context, in service.RegisterInput) (*models.User, *models.Profile, error) {
	return s.register(ctx, in)
}
func (s *stubUsers) Login(ctx context.Context, in service.LoginInput) (*models.User, *models.Profile, error) {
	return s.login(ctx, in)
}
func (s *stubUsers) Current(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error) {
	return s.current(ctx, userID)
}
func (s *stubUsers) Profile(ctx context.Context, username string) (*models.Profile, error) {
	return s.profile(ctx, username)
}

// stubSessions records created sessions instead of talking to Valkey.
type stubSessions struct {
	created   []*session.Data
	destroyed int
	err       error
}

func (s *stubSessions) Create(_ context.Context, _ http.ResponseWriter, data *session.Data) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, data)
	return "test-token", nil
}

func (s *stubSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	s.destroyed++
	return s.err
}

// testSession creates a session.Data for testing.
func testSession(username string) *session.Data {
	return &session.Data{
		UserID:    uuid.New(),
		ProfileID: uuid.New(),
		Username:  username,
		Email:     username + "@conduit.local",
	}
}

// newRequest builds a request with an optional JSON body, chi URL params
// given as key/value pairs, and an optional session.
func newRequest(method, target, body string, sess *session.Data, params ...string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = middleware.WithSession(ctx, sess)
	}
	return req.WithContext(ctx)
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

// errorFields extracts the {"errors": {...}} map from a response.
func errorFields(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	errs, ok := decodeBody(t, rec)["errors"].(map[string]any)
	if !ok {
		t.Fatalf("response has no errors object: %s", rec.Body.String())
	}
	return errs
}
