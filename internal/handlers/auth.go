package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"lms-engagement-client/internal/catalog"
	"lms-engagement-client/internal/middleware"
	"lms-engagement-client/internal/models"
	"lms-engagement-client/internal/session"
	"lms-engagement-client/internal/status"
)

// LMSClient is the part of the LMS API the shell handlers use.
type LMSClient interface {
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
}

type AuthHandler struct {
	lms      LMSClient
	sessions *session.Store
	catalog  *catalog.Catalog
	jwt      *middleware.JWTAuth
	sink     status.Sink
}

func NewAuthHandler(lms LMSClient, sessions *session.Store, cat *catalog.Catalog, jwt *middleware.JWTAuth, sink status.Sink) *AuthHandler {
	return &AuthHandler{lms: lms, sessions: sessions, catalog: cat, jwt: jwt, sink: sink}
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	Session     models.Session `json:"session"`
	Label       string         `json:"label"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	fields := make(map[string]string)
	if req.Username == "" {
		fields["username"] = "Username is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	result, err := h.lms.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("LOGIN_FAILED", "Login failed: "+err.Error(), r))
		return
	}

	sess := h.sessions.Login(*result)
	token, err := h.jwt.GenerateAccessToken(sess.UserID, sess.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue access token", r))
		return
	}

	h.sink.Notify(r.Context(), sess.UserID, "Login successful. Click a course on the left.")
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		Session:     sess,
		Label:       sess.Label(),
	})
}

// Logout drops the session and the course selection.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	h.catalog.Clear()
	h.sink.Notify(r.Context(), middleware.GetUserID(r.Context()), "Logged out.")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		},
	}
}
