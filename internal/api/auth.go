package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthCookieName is the session cookie set after a successful password check.
const AuthCookieName = "aichorus-auth"

type AuthRequest struct {
	Password string `json:"password"`
}

// HandleAuth checks the shared-secret password and sets the session cookie.
func (h *Handler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.cfg.AccessPassword == "" {
		h.writeError(w, http.StatusInternalServerError, "Access password not configured")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AccessPassword)) != 1 {
		h.logger.Warn("failed login attempt", zap.String("remote", r.RemoteAddr))
		h.writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    h.cfg.AuthSecret,
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Gate protects the UI pages behind the password cookie. API routes, the
// login page and the favicon pass through untouched, and the whole gate is
// disabled when no access password is configured.
func (h *Handler) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.AccessPassword == "" ||
			strings.HasPrefix(r.URL.Path, "/api/") ||
			r.URL.Path == "/login" ||
			r.URL.Path == "/favicon.ico" {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(AuthCookieName)
		if err != nil || cookie.Value != h.cfg.AuthSecret {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
