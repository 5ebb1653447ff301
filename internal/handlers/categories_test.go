package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/models"
	"conduit/internal/service"
)

func TestCategoriesList(t *testing.T) {
	flat := []models.Category{{Name: "News", Slug: "news"}, {Name: "Local", Slug: "news-local"}}
	tree := []models.Category{{Name: "News", Slug: "news", Subcategories: flat[1:]}}
	h := NewCategories(&stubCategories{
		list: func(context.Context) ([]models.Category, error) { return flat, nil },
		tree: func(context.Context) ([]models.Category, error) { return tree, nil },
	}, nil)

	tests := []struct {
		target    string
		wantCount float64
	}{
		{"/api/categories", 2},
		{"/api/categories?tree=true", 1},
		{"/api/categories?tree=nonsense", 2},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.List(rec, newRequest(http.MethodGet, tt.target, "", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			body := decodeBody(t, rec)
			if got := body["categoriesCount"]; got != tt.wantCount {
				t.Errorf("categoriesCount: got %v, want %v", got, tt.wantCount)
			}
		})
	}
}

func TestCategoriesGet(t *testing.T) {
	h := NewCategories(&stubCategories{
		get: func(_ context.Context, slug string) (*models.Category, error) {
			if slug != "testcase" {
				return nil, apperr.NotFound("category")
			}
			return &models.Category{Name: "TestCase", Slug: "testcase", ArticlesCount: 1}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/categories/testcase", "", nil, "slug", "testcase"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	c := decodeBody(t, rec)["category"].(map[string]any)
	if c["slug"] != "testcase" || c["articlesCount"] != float64(1) {
		t.Errorf("category: got %v", c)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/categories/missing", "", nil, "slug", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestCategoriesCreate(t *testing.T) {
	var got service.CategoryInput
	h := NewCategories(&stubCategories{
		create: func(_ context.Context, in service.CategoryInput) (*models.Category, error) {
			got = in
			if in.Name == "News" {
				return nil, apperr.Conflict("name", "category with this name already exists")
			}
			parent := in.Supercategory
			return &models.Category{Name: in.Name, Slug: "testcase-test", Supercategory: &parent}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/categories",
		`{"category":{"name":"Test","supercategory":"testcase"}}`, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if got.Name != "Test" || got.Supercategory != "testcase" {
		t.Errorf("service input: got %+v", got)
	}
	c := decodeBody(t, rec)["category"].(map[string]any)
	if c["slug"] != "testcase-test" || c["supercategory"] != "testcase" {
		t.Errorf("category: got %v", c)
	}

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/categories", `{"category":{"name":"News"}}`, nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
	if _, ok := errorFields(t, rec)["name"]; !ok {
		t.Errorf("expected name error, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/categories", `not json`, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestCategoriesUpdate(t *testing.T) {
	var gotSlug string
	var got service.CategoryUpdate
	h := NewCategories(&stubCategories{
		update: func(_ context.Context, slug string, in service.CategoryUpdate) (*models.Category, error) {
			gotSlug, got = slug, in
			return &models.Category{Name: *in.Name, Slug: "sports"}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/api/categories/sport", `{"category":{"name":"Sports"}}`, nil, "slug", "sport"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if gotSlug != "sport" || got.Name == nil || *got.Name != "Sports" {
		t.Errorf("service call: slug %q, input %+v", gotSlug, got)
	}
	if got.Supercategory != nil {
		t.Error("absent supercategory should decode as nil")
	}
}

func TestCategoriesDelete(t *testing.T) {
	deleted := ""
	h := NewCategories(&stubCategories{
		del: func(_ context.Context, slug string) error { deleted = slug; return nil },
	}, nil)

	rec := httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/api/categories/news", "", nil, "slug", "news"))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
	if deleted != "news" {
		t.Errorf("deleted: got %q, want news", deleted)
	}
}

func TestCategoriesArticles(t *testing.T) {
	h := NewCategories(&stubCategories{
		articles: func(context.Context, string) ([]models.Article, error) {
			return []models.Article{{Slug: "one", TagList: []string{}}}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Articles(rec, newRequest(http.MethodGet, "/api/categories/news/articles", "", nil, "slug", "news"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if got := decodeBody(t, rec)["articlesCount"]; got != float64(1) {
		t.Errorf("articlesCount: got %v, want 1", got)
	}
}

func TestCategoriesCreateArticle(t *testing.T) {
	sess := testSession("jake")
	var gotAuthor uuid.UUID
	var gotCategory string
	h := NewCategories(nil, &stubArticles{
		createInCategory: func(_ context.Context, authorID uuid.UUID, categorySlug string, in service.ArticleInput) (*models.Article, error) {
			gotAuthor, gotCategory = authorID, categorySlug
			return &models.Article{Slug: "first", Title: in.Title, TagList: []string{}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.CreateArticle(rec, newRequest(http.MethodPost, "/api/categories/testcase/articles",
		`{"article":{"title":"First"}}`, sess, "slug", "testcase"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if gotAuthor != sess.ProfileID {
		t.Errorf("author: got %s, want caller profile %s", gotAuthor, sess.ProfileID)
	}
	if gotCategory != "testcase" {
		t.Errorf("category: got %q, want testcase", gotCategory)
	}

	rec = httptest.NewRecorder()
	h.CreateArticle(rec, newRequest(http.MethodPost, "/api/categories/testcase/articles",
		`{"article":{"title":"First"}}`, nil, "slug", "testcase"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status: got %d, want 401", rec.Code)
	}
}
