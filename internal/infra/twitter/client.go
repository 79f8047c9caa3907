// Package twitter talks to the X v2 users API.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoToken is returned when no bearer token is configured.
var ErrNoToken = errors.New("twitter bearer token not configured")

// ErrUserNotFound is returned when the upstream response carries no user.
var ErrUserNotFound = errors.New("user not found")

// APIError is a non-2xx upstream response.
type APIError struct {
	Status  int
	Details json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter api status %d", e.Status)
}

// User is the subset of the upstream user object we request.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Client fetches users by username.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a Client for baseURL (e.g. https://api.twitter.com).
func NewClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: hc}
}

// Configured reports whether a bearer token is set.
func (c *Client) Configured() bool { return c.token != "" }

// UserByUsername looks up username with name and profile_image_url fields.
func (c *Client) UserByUsername(ctx context.Context, username string) (User, error) {
	if !c.Configured() {
		return User{}, ErrNoToken
	}
	endpoint := fmt.Sprintf("%s/2/users/by/username/%s?user.fields=name,profile_image_url",
		c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return User{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := json.RawMessage(body)
		if !json.Valid(body) {
			quoted, _ := json.Marshal(string(body))
			details = quoted
		}
		return User{}, &APIError{Status: resp.StatusCode, Details: details}
	}

	var payload struct {
		Data *User `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	if payload.Data == nil {
		return User{}, ErrUserNotFound
	}
	return *payload.Data, nil
}
