// Package profile resolves an X handle to a display profile through an
// ordered chain of lookup tiers that degrades to a synthesized default.
package profile

import (
	"context"
	"errors"
	"fmt"

	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/handle"
)

// Tier is one lookup strategy. Resolve receives an already normalized handle.
type Tier interface {
	Name() string
	Resolve(ctx context.Context, h string) (domain.SocialProfile, error)
}

// ErrNoTier is returned by an empty chain.
var ErrNoTier = errors.New("no lookup tier succeeded")

// Attempt records the outcome of one tier call.
type Attempt struct {
	Tier string
	Err  error
}

// Chain tries tiers in order and returns the first success. Each tier gets a
// context bounded by timeout when timeout is positive.
type Chain struct {
	tiers   []Tier
	observe func(Attempt)
}

// NewChain builds a chain over tiers. observe, if non-nil, sees every attempt.
func NewChain(observe func(Attempt), tiers ...Tier) *Chain {
	return &Chain{tiers: tiers, observe: observe}
}

// Resolve runs the tiers in order. A panic inside a tier is recovered and
// counted as that tier's failure.
func (c *Chain) Resolve(ctx context.Context, h string) (domain.SocialProfile, error) {
	var errs []error
	for _, t := range c.tiers {
		p, err := safeResolve(ctx, t, h)
		if c.observe != nil {
			c.observe(Attempt{Tier: t.Name(), Err: err})
		}
		if err == nil {
			return p, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
	}
	if len(errs) == 0 {
		return domain.SocialProfile{}, ErrNoTier
	}
	return domain.SocialProfile{}, errors.Join(append([]error{ErrNoTier}, errs...)...)
}

func safeResolve(ctx context.Context, t Tier, h string) (p domain.SocialProfile, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tier panicked: %v", r)
		}
	}()
	return t.Resolve(ctx, h)
}

// DefaultTier synthesizes a profile from the handle alone. It never fails.
type DefaultTier struct{}

func (DefaultTier) Name() string { return "default" }

func (DefaultTier) Resolve(_ context.Context, h string) (domain.SocialProfile, error) {
	return domain.SocialProfile{Handle: h, DisplayName: handle.Capitalize(h)}, nil
}
