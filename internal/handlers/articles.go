// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"conduit/internal/models"
	"conduit/internal/render"
	"conduit/internal/service"
)

// Articles groups the article and tag endpoints.
type Articles struct {
	articles ArticleService
}

// NewArticles creates an Articles handler group.
func NewArticles(articles ArticleService) *Articles {
	return &Articles{articles: articles}
}

// List returns articles, optionally filtered by ?category= (category
// name), ?tag= and ?author= (username).
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.articles.List(r.Context(), models.ArticleFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Author:   q.Get("author"),
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		"articles":      items,
		"articlesCount": len(items),
	})
}

// Get returns a single article.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"article": a})
}

// Create adds an article authored by the caller. An author in the
// payload is ignored.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.articles.Create(r.Context(), sess.ProfileID, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, render.Envelope{"article": a})
}

// Update changes an article owned by the caller.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	sess, err := caller(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in service.ArticleUpdate
	if err := decode(w, r, "article", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	a, err := h.articles.Update(r.Context(), sess.ProfileID, chi.URLParam(r, "slug"), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"article": a})
}

// Delete removes an article owned by the caller.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	sess, err := caller(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.articles.Delete(r.Context(), sess.ProfileID, chi.URLParam(r, "slug")); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// Tags returns every tag in use.
func (h *Articles) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.articles.Tags(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"tags": tags})
}
