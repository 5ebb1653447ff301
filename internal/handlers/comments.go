// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"conduit/internal/apperr"
	"conduit/internal/render"
	"conduit/internal/service"
)

// Comments groups the endpoints nested under /articles/{slug}/comments.
type Comments struct {
	comments CommentService
}

// NewComments creates a Comments handler group.
func NewComments(comments CommentService) *Comments {
	return &Comments{comments: comments}
}

// List returns the comments on an article.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.comments.List(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"comments": items})
}

// Create adds a comment by the caller.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := caller(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in service.CommentInput
	if err := decode(w, r, "comment", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	c, err := h.comments.Create(r.Context(), sess.ProfileID, chi.URLParam(r, "slug"), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, render.Envelope{"comment": c})
}

// Delete removes a comment written by the caller.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	sess, err := caller(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, r, apperr.NotFound("comment"))
		return
	}

	if err := h.comments.Delete(r.Context(), sess.ProfileID, chi.URLParam(r, "slug"), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}
