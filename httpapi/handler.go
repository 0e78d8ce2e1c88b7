package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/classdesk/authcore"
)

// Handler serves the auth core's wire endpoints. Register mounts:
//
//	POST /login                   — credentials in, identity + token out
//	POST /logout                  — revoke one persisted session token
//	POST /password-reset          — create a single-use reset token
//	POST /password-reset/confirm  — consume it and set the new password
type Handler struct {
	engine *authcore.Engine
	logger *log.Logger
}

// NewHandler wraps engine. logger may be nil; it receives full detail for
// internal errors whose responses are generic.
func NewHandler(engine *authcore.Engine, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// Register mounts all endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /logout", h.handleLogout)
	mux.HandleFunc("POST /password-reset", h.handleCreateReset)
	mux.HandleFunc("POST /password-reset/confirm", h.handleConfirmReset)
}

type loginRequest struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Remember    bool   `json:"remember"`
}

type loginResponse struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Token        string `json:"token"`
	SessionToken string `json:"session_token,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Malformed request body"))
		return
	}

	role, err := authcore.ParseRole(req.Role)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing or invalid field: role"))
		return
	}

	result, err := h.engine.Login(requestContext(r), authcore.LoginInput{
		Role:        role,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Remember:    req.Remember,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		UserID:       result.Identity.UserID,
		Role:         result.Identity.Role.String(),
		Email:        result.Identity.Email,
		DisplayName:  result.Identity.DisplayName,
		Token:        result.Token,
		SessionToken: result.SessionToken,
	})
}

type logoutRequest struct {
	SessionToken string `json:"session_token"`
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing or invalid field: session_token"))
		return
	}

	// Revocation is idempotent: logging out an already-dead session is
	// still a successful logout.
	if err := h.engine.RevokeSession(requestContext(r), req.SessionToken); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type createResetRequest struct {
	Role  string `json:"role"`
	Email string `json:"email"`
}

type createResetResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) handleCreateReset(w http.ResponseWriter, r *http.Request) {
	var req createResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Malformed request body"))
		return
	}

	role, err := authcore.ParseRole(req.Role)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing or invalid field: role"))
		return
	}

	ticket, err := h.engine.CreatePasswordReset(requestContext(r), role, req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createResetResponse{
		Token:     ticket.Token,
		ExpiresAt: ticket.ExpiresAt,
	})
}

type confirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) handleConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing or invalid field: token"))
		return
	}

	if err := h.engine.ResetPassword(requestContext(r), req.Token, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeError is the single conversion point from tagged engine errors to
// wire responses. Unexpected errors are logged in full here and answered
// with a generic body.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authcore.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, authcore.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody("Invalid credentials"))
	case errors.Is(err, authcore.ErrMissingToken),
		errors.Is(err, authcore.ErrTokenSignature),
		errors.Is(err, authcore.ErrTokenExpired),
		errors.Is(err, authcore.ErrTokenPayload):
		writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, authcore.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorBody("Forbidden"))
	case errors.Is(err, authcore.ErrResetInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid or expired token"))
	case errors.Is(err, authcore.ErrPasswordPolicy):
		writeJSON(w, http.StatusBadRequest, errorBody("Password does not meet policy"))
	case errors.Is(err, authcore.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("Not found"))
	case errors.Is(err, authcore.ErrSessionExpired):
		writeJSON(w, http.StatusUnauthorized, errorBody("Session expired"))
	default:
		h.logger.Printf("httpapi: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Internal error"))
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestContext tags the request context with the client IP for audit.
func requestContext(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return authcore.WithClientIP(r.Context(), host)
}
