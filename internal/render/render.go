// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes JSON responses for the API. Payloads are wrapped
// under a named root key and errors use the {"errors": {field: [msg]}}
// shape that clients expect.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"conduit/internal/apperr"
)

// Envelope is a JSON object keyed by resource name, e.g. {"article": {...}}.
type Envelope map[string]any

// JSON writes v as the response body with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as an error envelope. Internal errors are logged and
// their details withheld from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	JSON(w, e.Status(), Envelope{"errors": errorBody(e)})
}

// Status writes a bare error envelope for failures raised outside the
// service layer, such as authentication or rate limiting.
func Status(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{"errors": map[string][]string{"body": {message}}})
}

func errorBody(e *apperr.Error) map[string][]string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	msg := e.Message
	if e.Kind == apperr.KindInternal {
		msg = "internal server error"
	}
	return map[string][]string{"body": {msg}}
}
