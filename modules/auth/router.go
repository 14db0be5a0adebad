package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authforge/authforge/pkg/auth"
	"github.com/authforge/authforge/pkg/logger"
)

// Module bundles the auth HTTP surface: route handlers plus the bearer-token
// middleware that protects them.
type Module struct {
	session      *auth.SessionService
	verification *auth.VerificationService
	log          *slog.Logger
}

// NewModule creates the auth HTTP module.
func NewModule(session *auth.SessionService, verification *auth.VerificationService, log *slog.Logger) *Module {
	if log == nil {
		log = logger.Discard()
	}
	return &Module{session: session, verification: verification, log: log}
}

// Router returns the module's route tree, meant to be mounted under a
// versioned prefix such as /api/v1/auth.
func (m *Module) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", m.handleRegister)
	r.Post("/login", m.handleLogin)
	r.Post("/refresh", m.handleRefresh)
	r.Get("/verify-email/{token}", m.handleVerifyEmail)
	r.Post("/forgot-password", m.handleForgotPassword)
	r.Post("/reset-password/{token}", m.handleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(m.Middleware)
		r.Get("/me", m.handleMe)
		r.Post("/logout", m.handleLogout)
		r.Post("/resend-verification", m.handleResendVerification)
		r.Post("/change-password", m.handleChangePassword)
	})

	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (m *Module) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	user, err := m.session.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		m.respondMapped(w, r, err)
		return
	}
	respond(w, http.StatusCreated, user.Profile())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         auth.Profile `json:"user"`
}

func (m *Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, user, err := m.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		m.respondMapped(w, r, err)
		return
	}
	respond(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Profile(),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (m *Module) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := m.session.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		m.respondMapped(w, r, err)
		return
	}
	respond(w, http.StatusOK, auth.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (m *Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := m.session.Logout(r.Context(), user.ID); err != nil {
		m.respondMapped(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (m *Module) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respond(w, http.StatusOK, user.Profile())
}

func (m *Module) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := m.verification.ConsumeVerification(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		m.respondMapped(w, r, err)
		return
	}
	respond(w, http.StatusOK, user.Profile())
}

func (m *Module) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := m.verification.Resend(r.Context(), user.ID); err != nil {
		m.respondMapped(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (m *Module) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := m.verification.RequestPasswordReset(r.Context(), req.Email); err != nil {
		m.respondMapped(w, r, err)
		return
	}
	// Always 202: the response must not reveal whether the address exists.
	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (m *Module) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := m.verification.ConsumePasswordReset(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		m.respondMapped(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (m *Module) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new password is required")
		return
	}

	if err := m.session.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		m.respondMapped(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondMapped translates service errors to HTTP statuses. Unrecognized
// errors are logged and surface as opaque 500s.
func (m *Module) respondMapped(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUserAlreadyExists),
		errors.Is(err, auth.ErrEmailAlreadyVerified):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalidOrExpired):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		m.log.ErrorContext(r.Context(), "request failed",
			logger.Error(err),
			logger.Component("auth.http"),
			slog.String("path", r.URL.Path),
		)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, errorResponse{Error: msg})
}
