package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ethmumbai-maxi/internal/infra/twitter"
	"ethmumbai-maxi/internal/profile"
	"go.uber.org/zap"
)

// UserFetcher is the upstream the proxy consults.
type UserFetcher interface {
	Configured() bool
	UserByUsername(ctx context.Context, username string) (twitter.User, error)
}

// TwitterHandler serves /api/twitter-user, keeping the bearer token server side.
type TwitterHandler struct {
	users UserFetcher
	log   *zap.Logger
}

func NewTwitterHandler(users UserFetcher, log *zap.Logger) *TwitterHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TwitterHandler{users: users, log: log}
}

type userResponse struct {
	Handle          string `json:"handle"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type proxyError struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (h *TwitterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(r.URL.Query().Get("handle"))
	if handle == "" {
		writeJSON(w, http.StatusBadRequest, proxyError{Error: "Handle parameter is required"})
		return
	}
	if h.users == nil || !h.users.Configured() {
		writeJSON(w, http.StatusInternalServerError, proxyError{Error: "Twitter Bearer Token not configured"})
		return
	}

	user, err := h.users.UserByUsername(r.Context(), handle)
	var apiErr *twitter.APIError
	switch {
	case err == nil:
		name := user.Name
		if name == "" {
			name = handle
		}
		writeJSON(w, http.StatusOK, userResponse{
			Handle:          strings.ToLower(handle),
			Name:            name,
			ProfileImageURL: profile.NormalizeAvatarURL(user.ProfileImageURL),
		})
	case errors.As(err, &apiErr):
		h.log.Warn("twitter api error", zap.String("handle", handle), zap.Int("status", apiErr.Status))
		writeJSON(w, apiErr.Status, proxyError{Error: "Twitter API error", Details: apiErr.Details})
	case errors.Is(err, twitter.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, proxyError{Error: "User not found"})
	default:
		h.log.Error("fetch twitter user", zap.String("handle", handle), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, proxyError{Error: "Failed to fetch user data"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
