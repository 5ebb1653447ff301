// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"conduit/internal/session"
)

// apiCSP forbids every resource type and framing. Responses are JSON,
// so a browser never needs to load anything on their behalf.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecureHeaders adds the response headers a JSON API needs. Responses to
// requests that carry credentials are marked no-store so shared caches
// and the browser never keep per-user data.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", apiCSP)
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")

		// The same URL answers differently per caller once credentials
		// are involved.
		h.Add("Vary", "Authorization")
		h.Add("Vary", "Cookie")
		if session.Token(r) != "" {
			h.Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}
