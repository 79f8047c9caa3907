package profile

import (
	"context"
	"time"

	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/handle"
	"ethmumbai-maxi/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service validates handles and resolves them through a tier chain.
type Service struct {
	tiers   []Tier
	timeout time.Duration
	log     *zap.Logger
	group   singleflight.Group
}

// NewService builds a Service. DefaultTier is always appended so Lookup
// yields a profile for every well-formed handle.
func NewService(log *zap.Logger, timeout time.Duration, tiers ...Tier) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	all := append([]Tier{}, tiers...)
	all = append(all, DefaultTier{})
	return &Service{tiers: all, timeout: timeout, log: log}
}

type boundedTier struct {
	Tier
	timeout time.Duration
}

func (b boundedTier) Resolve(ctx context.Context, h string) (domain.SocialProfile, error) {
	if b.timeout <= 0 {
		return b.Tier.Resolve(ctx, h)
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.Tier.Resolve(ctx, h)
}

// Lookup returns the profile for raw. ok is false only when raw is not a
// well-formed handle, in which case no network call is made.
func (s *Service) Lookup(ctx context.Context, raw string) (domain.SocialProfile, bool) {
	if !handle.Validate(raw) {
		return domain.SocialProfile{}, false
	}
	h := handle.Normalize(raw)

	v, _, _ := s.group.Do(h, func() (any, error) {
		return s.resolve(ctx, h), nil
	})
	return v.(domain.SocialProfile), true
}

func (s *Service) resolve(ctx context.Context, h string) domain.SocialProfile {
	bounded := make([]Tier, 0, len(s.tiers))
	for _, t := range s.tiers {
		bounded = append(bounded, boundedTier{Tier: t, timeout: s.timeout})
	}
	chain := NewChain(func(a Attempt) {
		outcome := "ok"
		if a.Err != nil {
			outcome = "error"
			s.log.Warn("profile lookup tier failed", zap.String("tier", a.Tier), zap.String("handle", h), zap.Error(a.Err))
		}
		metrics.LookupAttempts.WithLabelValues(a.Tier, outcome).Inc()
	}, bounded...)

	p, err := chain.Resolve(ctx, h)
	if err != nil {
		s.log.Error("all lookup tiers failed", zap.String("handle", h), zap.Error(err))
		p, _ = DefaultTier{}.Resolve(ctx, h)
	}
	if p.Handle == "" {
		p.Handle = h
	}
	return p
}
