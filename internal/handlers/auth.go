package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"conduit/internal/models"
	"conduit/internal/render"
	"conduit/internal/service"
	"conduit/internal/session"
)

// Auth groups account, login session and profile endpoints.
type Auth struct {
	users    UserService
	sessions SessionStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(users UserService, sessions SessionStore) *Auth {
	return &Auth{users: users, sessions: sessions}
}

// userResponse is the authenticated user as returned to its owner.
type userResponse struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

func newUserResponse(u *models.User, p *models.Profile, token string) userResponse {
	return userResponse{
		Email:    u.Email,
		Token:    token,
		Username: p.Username,
		Bio:      p.Bio,
		Image:    p.Image,
	}
}

// Register creates an account and logs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decode(w, r, "user", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	u, p, err := a.users.Register(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	a.startSession(w, r, http.StatusCreated, u, p)
}

// Login verifies credentials and starts a session. The token is returned
// in the body and set as a cookie.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decode(w, r, "user", &in); err != nil {
		render.Error(w, r, err)
		return
	}

	u, p, err := a.users.Login(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	a.startSession(w, r, http.StatusOK, u, p)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, status int, u *models.User, p *models.Profile) {
	token, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    u.ID,
		ProfileID: p.ID,
		Username:  p.Username,
		Email:     u.Email,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	slog.Info("session started", "username", p.Username)
	render.JSON(w, status, render.Envelope{"user": newUserResponse(u, p, token)})
}

// Logout destroys the caller's session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// Current returns the authenticated user.
func (a *Auth) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := caller(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	u, p, err := a.users.Current(r.Context(), sess.UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"user": newUserResponse(u, p, session.Token(r))})
}

// Profile returns a public author profile.
func (a *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := a.users.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{"profile": p})
}
