package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ethmumbai-maxi/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// proxyPayloadSchema describes the body the proxy endpoint returns on success.
var proxyPayloadSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"handle": {"type": "string", "minLength": 1},
		"name": {"type": "string"},
		"profileImageUrl": {"type": "string"},
		"error": {"type": "string"}
	},
	"required": ["handle"],
	"not": {"required": ["error"]}
}`)

var compiledProxySchema = mustSchema(proxyPayloadSchema)

func mustSchema(l gojsonschema.JSONLoader) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(l)
	if err != nil {
		panic(err)
	}
	return s
}

type proxyPayload struct {
	Handle          string `json:"handle"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// ProxyTier calls the service's own /api/twitter-user endpoint, which holds
// the upstream credentials.
type ProxyTier struct {
	BaseURL string
	Client  *http.Client
}

func (t *ProxyTier) Name() string { return "proxy" }

func (t *ProxyTier) Resolve(ctx context.Context, h string) (domain.SocialProfile, error) {
	if t.BaseURL == "" {
		return domain.SocialProfile{}, errors.New("proxy base url not configured")
	}
	endpoint := strings.TrimRight(t.BaseURL, "/") + "/api/twitter-user?handle=" + url.QueryEscape(h)
	body, err := getJSON(ctx, httpClient(t.Client), endpoint)
	if err != nil {
		return domain.SocialProfile{}, err
	}

	result, err := compiledProxySchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return domain.SocialProfile{}, fmt.Errorf("validate proxy payload: %w", err)
	}
	if !result.Valid() {
		return domain.SocialProfile{}, fmt.Errorf("proxy payload rejected: %v", result.Errors())
	}

	var p proxyPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.SocialProfile{}, fmt.Errorf("decode proxy payload: %w", err)
	}
	name := p.Name
	if name == "" {
		name = p.Handle
	}
	return domain.SocialProfile{
		Handle:      p.Handle,
		DisplayName: name,
		AvatarURL:   NormalizeAvatarURL(p.ProfileImageURL),
	}, nil
}

// OEmbedTier uses the public oEmbed endpoint, which needs no credentials but
// exposes only the author name.
type OEmbedTier struct {
	Endpoint string
	Client   *http.Client
}

func (t *OEmbedTier) Name() string { return "oembed" }

func (t *OEmbedTier) Resolve(ctx context.Context, h string) (domain.SocialProfile, error) {
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = "https://publish.twitter.com/oembed"
	}
	q := url.Values{"url": {"https://twitter.com/" + h}}
	body, err := getJSON(ctx, httpClient(t.Client), endpoint+"?"+q.Encode())
	if err != nil {
		return domain.SocialProfile{}, err
	}

	var payload struct {
		AuthorName string `json:"author_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.SocialProfile{}, fmt.Errorf("decode oembed payload: %w", err)
	}
	if strings.TrimSpace(payload.AuthorName) == "" {
		return domain.SocialProfile{}, errors.New("oembed payload has no author_name")
	}
	return domain.SocialProfile{Handle: h, DisplayName: payload.AuthorName}, nil
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}

// getJSON issues a GET and returns the body of a 2xx response.
func getJSON(ctx context.Context, c *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
