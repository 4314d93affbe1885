package handlers

import (
	"net/http"
	"time"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/services"
)

// AuthHandler serves registration, login and account self-management.
type AuthHandler struct {
	users      services.UserProvider
	tokens     *auth.TokenManager
	rules      *config.Rules
	production bool
}

func NewAuthHandler(users services.UserProvider, tokens *auth.TokenManager, rules *config.Rules, production bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, rules: rules, production: production}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// identifierValue accepts the identifier under any of the three accepted
// field names.
func (req loginRequest) identifierValue() string {
	if req.Identifier != "" {
		return req.Identifier
	}
	if req.Email != "" {
		return req.Email
	}
	return req.Username
}

// Register creates an account and signs the caller in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}
	h.setTokenCookie(w, token)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
		"data": map[string]interface{}{
			"user":  user,
			"token": token,
		},
	})
}

// Login authenticates by email or username and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.identifierValue(), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}
	h.setTokenCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"data": map[string]interface{}{
			"user":  user,
			"token": token,
		},
	})
}

// Logout clears the token cookie. The bearer token itself stays valid
// until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"user": identity},
	})
}

type profileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
}

// UpdateProfile replaces the caller's profile block.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity.ID, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"data":    map[string]interface{}{"user": user},
	})
}

type preferencesRequest struct {
	Theme        string `json:"theme"`
	Timezone     string `json:"timezone"`
	ReminderTime string `json:"reminderTime"`
}

// UpdatePreferences replaces the caller's preferences block.
func (h *AuthHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req preferencesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UpdatePreferences(r.Context(), identity.ID, services.PreferencesInput{
		Theme:        req.Theme,
		Timezone:     req.Timezone,
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Preferences updated successfully",
		"data":    map[string]interface{}{"user": user},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword verifies the current password before storing a new one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed successfully",
	})
}

// setTokenCookie sets the fallback cookie for browser clients. The cookie
// lifetime is deliberately shorter than the token's own expiry.
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.rules.CookieTTL),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	})
}
