package app

import (
	"context"

	"ethmumbai-maxi/internal/card"
	"ethmumbai-maxi/internal/domain"
)

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// SnapshotStore abstracts durable key-value storage of client state
// (in-memory, Redis, SQLite). Get returns domain.ErrNotFound for absent keys.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// ProfileLookup resolves a raw handle to a profile; ok is false only for a
// malformed handle.
type ProfileLookup interface {
	Lookup(ctx context.Context, raw string) (domain.SocialProfile, bool)
}

// Synthesizer produces the result title/description. It never fails.
type Synthesizer interface {
	Synthesize(ctx context.Context, score int, keywords []string) domain.Profile
}

// CardExporter captures and delivers result cards.
type CardExporter interface {
	Capture(ctx context.Context, v *card.View) (*card.Image, error)
	Download(ctx context.Context, v *card.View, stats domain.UserStats, s card.Surface) error
	Share(ctx context.Context, v *card.View, stats domain.UserStats, s card.Surface) error
}

// Policy holds behavior switches that differ between deployments.
type Policy struct {
	// RequireProfile gates Start on a linked profile.
	RequireProfile bool
	// ClearProfileOnReset unlinks the profile when the quiz is reset.
	ClearProfileOnReset bool
}
