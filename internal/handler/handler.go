package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/acourtin/thefeed/internal/config"
	"github.com/acourtin/thefeed/internal/forms"
	"github.com/acourtin/thefeed/internal/integrations/rss"
	"github.com/acourtin/thefeed/internal/middleware"
	"github.com/acourtin/thefeed/internal/models"
	"github.com/acourtin/thefeed/internal/repository"
	"github.com/acourtin/thefeed/internal/service"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger files spill to temp storage.
const maxMultipartMemory = 1 << 20

// Handler is the HTTP boundary. Workflows return explicit results; the
// handler decides how to relay them (JSON body, flash, redirect).
type Handler struct {
	users  *service.UserManager
	feed   *service.FeedService
	policy *service.PasswordPolicy
	rss    *rss.Renderer
	cfg    *config.Config
	log    *logrus.Logger
}

// NewHandler wires the HTTP boundary.
func NewHandler(users *service.UserManager, feed *service.FeedService, policy *service.PasswordPolicy, renderer *rss.Renderer, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{users: users, feed: feed, policy: policy, rss: renderer, cfg: cfg, log: log}
}

// Feed lists every publication, most recent first. Open to anonymous
// visitors.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	publications, err := h.feed.List(r.Context())
	if err != nil {
		h.serverError(w, "failed to list publications", err)
		return
	}
	resp := map[string]any{
		"publications": publications,
		"flashes":      popFlashes(w, r),
	}
	if identity := middleware.CurrentIdentity(r.Context()); identity != nil {
		resp["identity"] = identity
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// CreatePublication handles a new publication submission. The gate runs
// before any form or entity processing: anonymous writers are rejected
// up front.
func (h *Handler) CreatePublication(w http.ResponseWriter, r *http.Request) {
	identity := middleware.CurrentIdentity(r.Context())
	if service.AuthorizationGate(identity, service.ActionCreatePublication) != service.Allow {
		h.writeErrors(w, http.StatusUnauthorized, "You must be logged in to publish.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeErrors(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	var invalid *service.ValidationError
	_, err := h.feed.Publish(r.Context(), *identity, r.PostFormValue("message"))
	if errors.As(err, &invalid) {
		h.writeErrors(w, http.StatusBadRequest, invalid.Messages...)
		return
	}
	if err != nil {
		h.serverError(w, "failed to create publication", err)
		return
	}

	// Redirect so a refresh never resubmits.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage serves the registration form context. Authenticated users
// are bounced back to the feed.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"form": "register", "flashes": popFlashes(w, r)})
}

// Register handles a registration submission: multipart form with login,
// email, password and an optional profile image.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.writeErrors(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	form := forms.RegisterForm{
		Login:    strings.TrimSpace(r.PostFormValue("login")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	var image *multipart.FileHeader
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["profile_image"]; len(files) > 0 {
			image = files[0]
		}
	}

	msgs := form.Validate()
	if form.Password != "" {
		msgs = append(msgs, h.policy.Validate(form.Password)...)
	}
	msgs = append(msgs, forms.ValidateProfileImage(image)...)
	if len(msgs) > 0 {
		h.writeErrors(w, http.StatusBadRequest, msgs...)
		return
	}

	// Explicit DTO to entity mapping: the plaintext password and the
	// upload never touch the persisted record.
	user := &models.User{
		Login: form.Login,
		Email: form.Email,
		Roles: []string{models.RoleUser},
	}
	err := h.users.Register(r.Context(), user, form.Password, image)
	switch {
	case errors.Is(err, repository.ErrDuplicateLogin):
		h.writeErrors(w, http.StatusConflict, "This login is already taken.")
		return
	case errors.Is(err, repository.ErrDuplicateEmail):
		h.writeErrors(w, http.StatusConflict, "This email address is already registered.")
		return
	case err != nil:
		h.serverError(w, "failed to register user", err)
		return
	}

	setFlashes(w, "success", "Registration successful!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage serves the login form context. Authenticated users are
// bounced back to the feed.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"form": "login", "flashes": popFlashes(w, r)})
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeErrors(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	login := strings.TrimSpace(r.PostFormValue("login"))
	password := r.PostFormValue("password")

	user, err := h.users.Authenticate(r.Context(), login, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		setFlashes(w, "error", "Invalid login and/or password!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.serverError(w, "failed to login", err)
		return
	}

	token, err := middleware.IssueToken(h.cfg, user)
	if err != nil {
		h.serverError(w, "failed to open session", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(middleware.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	setFlashes(w, "success", "Login successful!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout closes the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	setFlashes(w, "success", "Logout successful!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ProfilePage lists one author's publications. An unknown login is an
// informational flash plus a redirect, never a hard failure.
func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	login := mux.Vars(r)["login"]
	user, publications, err := h.feed.ListByAuthor(r.Context(), login)
	if errors.Is(err, repository.ErrNotFound) {
		setFlashes(w, "error", "Unknown user.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.serverError(w, "failed to load profile", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"login":         user.Login,
			"profile_image": user.ProfileImage,
		},
		"publications": publications,
	})
}

// RSS exports the feed as RSS 2.0.
func (h *Handler) RSS(w http.ResponseWriter, r *http.Request) {
	publications, err := h.feed.List(r.Context())
	if err != nil {
		h.serverError(w, "failed to list publications", err)
		return
	}
	body, err := h.rss.Render(publications)
	if err != nil {
		h.serverError(w, "failed to render feed", err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(body)
}

// redirectAuthenticated applies the visit-auth-page gate rule. Returns
// true when the response is already written.
func (h *Handler) redirectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	identity := middleware.CurrentIdentity(r.Context())
	if service.AuthorizationGate(identity, service.ActionVisitAuthPage) == service.RedirectToFeed {
		http.Redirect(w, r, "/", http.StatusFound)
		return true
	}
	return false
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}

func (h *Handler) writeErrors(w http.ResponseWriter, status int, messages ...string) {
	h.writeJSON(w, status, map[string]any{"errors": messages})
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.log.Errorf("%s: %v", msg, err)
	http.Error(w, msg, http.StatusInternalServerError)
}
