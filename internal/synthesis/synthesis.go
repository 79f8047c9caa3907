// Package synthesis produces the personalized title/description pair shown on
// the result card.
package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/llm"
	"ethmumbai-maxi/internal/metrics"
	"go.uber.org/zap"
)

// DefaultScale is the score scale of the built-in bank.
const DefaultScale = 100

var profileSchema = &llm.Schema{
	Name:        "maxi-profile",
	Description: "A Web3 title and one-line vibe check for an ETHMumbai quiz taker",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A cool title like 'Mumbai Mainnet Maverick' or 'Vada Pav Validator'",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "A punchy one-liner combining Mumbai culture and Web3",
			},
		},
		"required":             []string{"title", "description"},
		"additionalProperties": false,
	},
}

var (
	topFallback = domain.Profile{
		Title:       "GIGA CHAD VALIDATOR",
		Description: "Your nodes run faster than a Virar local. Pure Mumbai mainnet energy.",
	}
	midFallback = domain.Profile{
		Title:       "BANDRA BUILDER",
		Description: "Shipping code from a cafe while waiting for the next bull run. WAGMI.",
	}
	lowFallback = domain.Profile{
		Title:       "TESTNET TOURIST",
		Description: "Just landed at CST. Time to start your journey into the Mumbai ecosystem.",
	}
)

// Client asks a generative provider for a profile and falls back to fixed
// score-banded strings on any failure.
type Client struct {
	provider llm.Provider
	scale    int
	timeout  time.Duration
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithScale sets the maximum score the bands are measured against.
func WithScale(scale int) Option {
	return func(c *Client) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithTimeout bounds the provider call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient returns a Client. A nil provider makes every call use the fallback.
func NewClient(provider llm.Provider, opts ...Option) *Client {
	c := &Client{provider: provider, scale: DefaultScale, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scale returns the score scale in use.
func (c *Client) Scale() int { return c.scale }

// Synthesize returns a profile for score. It never fails: errors are logged
// and replaced by the band fallback. Single attempt, no retry.
func (c *Client) Synthesize(ctx context.Context, score int, keywords []string) domain.Profile {
	start := time.Now()
	defer func() { metrics.SynthesisDuration.Observe(time.Since(start).Seconds()) }()

	profile, err := c.generate(ctx, score, keywords)
	if err != nil {
		c.log.Warn("profile synthesis failed, using fallback", zap.Int("score", score), zap.Error(err))
		metrics.SynthesisResults.WithLabelValues("fallback").Inc()
		return Fallback(score, c.scale)
	}
	metrics.SynthesisResults.WithLabelValues("model").Inc()
	return profile
}

func (c *Client) generate(ctx context.Context, score int, keywords []string) (domain.Profile, error) {
	if c.provider == nil {
		return domain.Profile{}, errors.New("no provider configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		Prompt:      Prompt(score, c.scale, keywords),
		Schema:      profileSchema,
		MaxTokens:   256,
		Temperature: 0.9,
	})
	if err != nil {
		return domain.Profile{}, err
	}
	if resp == nil || len(resp.Content) == 0 {
		return domain.Profile{}, errors.New("empty response")
	}
	if err := profileSchema.Validate(resp.Content); err != nil {
		return domain.Profile{}, err
	}

	var out domain.Profile
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	out.Title = strings.TrimSpace(out.Title)
	out.Description = strings.TrimSpace(out.Description)
	if out.Title == "" || out.Description == "" {
		return domain.Profile{}, errors.New("blank title or description")
	}
	return out, nil
}

// Prompt builds the generation prompt.
func Prompt(score, scale int, keywords []string) string {
	return fmt.Sprintf("User scored %d/%d in an ETHMumbai loyalty quiz. Topics included: %s. "+
		"Generate a highly creative, futuristic Web3 title and a one-sentence vibe-check description. "+
		"The description should mention 'Mumbai' or 'vada pav' or 'local trains' mixed with 'Ethereum' or 'degen' terminology.",
		score, scale, strings.Join(keywords, ", "))
}

// Fallback picks the fixed profile for score: above 80% of scale, above 50%,
// or the rest.
func Fallback(score, scale int) domain.Profile {
	if scale <= 0 {
		scale = DefaultScale
	}
	switch {
	case score*100 > scale*80:
		return topFallback
	case score*100 > scale*50:
		return midFallback
	default:
		return lowFallback
	}
}
