package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ethmumbai-maxi/internal/infra/twitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	configured bool
	user       twitter.User
	err        error
}

func (f fakeUsers) Configured() bool { return f.configured }

func (f fakeUsers) UserByUsername(context.Context, string) (twitter.User, error) {
	return f.user, f.err
}

func serveProxy(t *testing.T, users UserFetcher, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	proxyCORS(NewTwitterHandler(users, nil)).ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestProxyPreflight(t *testing.T) {
	rec, body := serveProxy(t, fakeUsers{}, http.MethodOptions, "/api/twitter-user")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestProxyMissingHandle(t *testing.T) {
	rec, body := serveProxy(t, fakeUsers{configured: true}, http.MethodGet, "/api/twitter-user")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Handle parameter is required", body["error"])
}

func TestProxyNoToken(t *testing.T) {
	rec, body := serveProxy(t, fakeUsers{}, http.MethodGet, "/api/twitter-user?handle=a")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Twitter Bearer Token not configured", body["error"])
}

func TestProxySuccess(t *testing.T) {
	users := fakeUsers{configured: true, user: twitter.User{Name: "", ProfileImageURL: "http://x/a_normal.jpg"}}
	rec, body := serveProxy(t, users, http.MethodGet, "/api/twitter-user?handle=ETHMumbai")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ethmumbai", body["handle"])
	assert.Equal(t, "ETHMumbai", body["name"])
	assert.Equal(t, "https://x/a_400x400.jpg", body["profileImageUrl"])
}

func TestProxyUpstreamFailures(t *testing.T) {
	rec, body := serveProxy(t, fakeUsers{configured: true, err: &twitter.APIError{Status: 429, Details: json.RawMessage(`{"title":"slow"}`)}},
		http.MethodGet, "/api/twitter-user?handle=a")
	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, "Twitter API error", body["error"])
	assert.Equal(t, map[string]any{"title": "slow"}, body["details"])

	rec, body = serveProxy(t, fakeUsers{configured: true, err: twitter.ErrUserNotFound}, http.MethodGet, "/api/twitter-user?handle=a")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["error"])

	rec, body = serveProxy(t, fakeUsers{configured: true, err: errors.New("dial tcp")}, http.MethodGet, "/api/twitter-user?handle=a")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch user data", body["error"])
}
