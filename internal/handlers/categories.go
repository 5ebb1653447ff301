// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"conduit/internal/render"
	"conduit/internal/service"
)

// Categories groups the category endpoints, including the nested
// article listing and creation under a category.
type Categories struct {
	categories CategoryService
	articles   ArticleService
}

// NewCategories creates a Categories handler group.
func NewCategories(categories CategoryService, articles ArticleService) *Categories {
	return &Categories{categories: categories, articles: articles}
}

// List returns all categories. With ?tree=true the categories are nested
// under their supercategories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	tree, _ := strconv.ParseBool(r.URL.Query().Get("tree"))

	list := h.categories.List
	if tree {
		list = h.categories.Tree
	}
	items, err := list(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, render.Envelope{
		"categories":      items,
		"categoriesCount": len(items),
	})
}

// Get returns a single category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"category": c})
}

// Create adds a category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := decode(w, r, "category", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.categories.Create(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, render.Envelope{"category": c})
}

// Update renames or moves a category.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryUpdate
	if err := decode(w, r, "category", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.categories.Update(r.Context(), chi.URLParam(r, "slug"), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"category": c})
}

// Delete removes a category with its subcategories and their articles.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// Articles lists the articles filed directly under a category.
func (h *Categories) Articles(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.Articles(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		"articles":      items,
		"articlesCount": len(items),
	})
}

// CreateArticle adds an article under a category, authored by the caller.
func (h *Categories) CreateArticle(w http.ResponseWriter, r *http.Request) {
	sess, err := caller(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in service.ArticleInput
	if err := decode(w, r, "article", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	a, err := h.articles.CreateInCategory(r.Context(), sess.ProfileID, chi.URLParam(r, "slug"), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, render.Envelope{"article": a})
}
