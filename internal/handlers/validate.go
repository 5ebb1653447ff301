package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"conduit/internal/apperr"
	"conduit/internal/middleware"
	"conduit/internal/session"
)

// maxBodyBytes caps request bodies; article bodies are the largest payload.
const maxBodyBytes = 1 << 20

// decode reads a request body of the form {"<root>": {...}} into dst.
// Fields the payload type does not declare, such as an article author,
// are ignored.
func decode(w http.ResponseWriter, r *http.Request, root string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.BadRequest(fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
		}
		return apperr.BadRequest("request body must be a JSON object")
	}

	raw, ok := envelope[root]
	if !ok || string(raw) == "null" {
		return apperr.Validation(root, "can't be blank")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.BadRequest(fmt.Sprintf("%s: malformed JSON: %v", root, err))
	}
	return nil
}

// caller returns the authenticated session. Routes that call it sit
// behind RequireAuth, so a missing session means a wiring mistake.
func caller(r *http.Request) (*session.Data, error) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	return sess, nil
}
