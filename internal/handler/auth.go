package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/service"
)

// AuthHandler manages signup, login, logout and the current-user endpoint.
//
// Tokens travel two ways at once: the JSON body carries the JWT for
// clients that store it themselves and send it as a Bearer header, and an
// HttpOnly "jwt" cookie covers browser clients without exposing the token
// to scripts. The auth middleware accepts either.
type AuthHandler struct {
	authService *service.AuthService
	tokens      *auth.TokenService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		logger:      logger,
	}
}

// authResponse is the body returned by signup and login.
type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
// Body: {"email": "...", "password": "..."}
// 201 {token, user} on success, 400 on invalid input or duplicate email.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signup JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/auth/login
// 200 {token, user} on success, 401 on bad credentials.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /api/auth/logout (auth required)
//
// Logout is stateless: the server keeps no session to invalidate, so the
// token itself stays valid until it expires. Clearing the cookie plus the
// client discarding its stored copy is the whole operation.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully. Please remove token on the client side.",
	})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/auth/me (auth required)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireAuth-protected route, but be safe.
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}

// setTokenCookie issues the HttpOnly session cookie. Max-Age tracks the
// token TTL so the cookie and the token expire together.
// Secure is left off for local development; set it behind HTTPS.
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
