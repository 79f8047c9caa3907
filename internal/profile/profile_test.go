package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ethmumbai-maxi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNormalizeAvatarURL(t *testing.T) {
	tests := map[string]string{
		"http://pbs.twimg.com/a_normal.jpg":   "https://pbs.twimg.com/a_400x400.jpg",
		"https://pbs.twimg.com/a_200x200.png": "https://pbs.twimg.com/a_400x400.png",
		"https://pbs.twimg.com/a.png":         "https://pbs.twimg.com/a.png",
		"":                                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeAvatarURL(in), in)
	}
}

func TestProxyTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/twitter-user", r.URL.Path)
		switch r.URL.Query().Get("handle") {
		case "ethmumbai":
			w.Write([]byte(`{"handle":"ethmumbai","name":"ETHMumbai","profileImageUrl":"http://x/a_normal.jpg"}`))
		case "noname":
			w.Write([]byte(`{"handle":"noname"}`))
		case "errored":
			w.Write([]byte(`{"handle":"errored","error":"nope"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"User not found"}`))
		}
	}))
	defer srv.Close()

	tier := &ProxyTier{BaseURL: srv.URL, Client: srv.Client()}
	ctx := context.Background()

	p, err := tier.Resolve(ctx, "ethmumbai")
	require.NoError(t, err)
	assert.Equal(t, domain.SocialProfile{Handle: "ethmumbai", DisplayName: "ETHMumbai", AvatarURL: "https://x/a_400x400.jpg"}, p)

	p, err = tier.Resolve(ctx, "noname")
	require.NoError(t, err)
	assert.Equal(t, "noname", p.DisplayName)

	_, err = tier.Resolve(ctx, "errored")
	assert.Error(t, err)

	_, err = tier.Resolve(ctx, "missing")
	assert.Error(t, err)

	_, err = (&ProxyTier{}).Resolve(ctx, "x")
	assert.Error(t, err)
}

func TestOEmbedTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "https://twitter.com/vitalik" {
			w.Write([]byte(`{"author_name":"vitalik.eth"}`))
			return
		}
		w.Write([]byte(`{"author_name":""}`))
	}))
	defer srv.Close()

	tier := &OEmbedTier{Endpoint: srv.URL, Client: srv.Client()}
	p, err := tier.Resolve(context.Background(), "vitalik")
	require.NoError(t, err)
	assert.Equal(t, domain.SocialProfile{Handle: "vitalik", DisplayName: "vitalik.eth"}, p)

	_, err = tier.Resolve(context.Background(), "ghost")
	assert.Error(t, err)
}

type stubTier struct {
	name  string
	calls atomic.Int32
	fn    func(context.Context, string) (domain.SocialProfile, error)
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Resolve(ctx context.Context, h string) (domain.SocialProfile, error) {
	s.calls.Add(1)
	return s.fn(ctx, h)
}

func failingTier(name string) *stubTier {
	return &stubTier{name: name, fn: func(context.Context, string) (domain.SocialProfile, error) {
		return domain.SocialProfile{}, errors.New("down")
	}}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	proxy, oembed := failingTier("proxy"), failingTier("oembed")
	svc := NewService(zaptest.NewLogger(t), time.Second, proxy, oembed)

	p, ok := svc.Lookup(context.Background(), "@NewUser ")
	require.True(t, ok)
	assert.Equal(t, domain.SocialProfile{Handle: "newuser", DisplayName: "Newuser"}, p)
	assert.Equal(t, int32(1), proxy.calls.Load())
	assert.Equal(t, int32(1), oembed.calls.Load())
}

func TestLookupStopsAtFirstSuccess(t *testing.T) {
	proxy := &stubTier{name: "proxy", fn: func(_ context.Context, h string) (domain.SocialProfile, error) {
		return domain.SocialProfile{Handle: h, DisplayName: "Real Name"}, nil
	}}
	oembed := failingTier("oembed")
	svc := NewService(nil, 0, proxy, oembed)

	p, ok := svc.Lookup(context.Background(), "someone")
	require.True(t, ok)
	assert.Equal(t, "Real Name", p.DisplayName)
	assert.Zero(t, oembed.calls.Load())
}

func TestLookupRejectsInvalidHandleWithoutNetwork(t *testing.T) {
	proxy := failingTier("proxy")
	svc := NewService(nil, 0, proxy)

	for _, raw := range []string{"", "@", "bad handle", "waytoolonghandle16"} {
		_, ok := svc.Lookup(context.Background(), raw)
		assert.False(t, ok, raw)
	}
	assert.Zero(t, proxy.calls.Load())
}

func TestLookupRecoversPanickingTier(t *testing.T) {
	boom := &stubTier{name: "boom", fn: func(context.Context, string) (domain.SocialProfile, error) {
		panic("kaboom")
	}}
	p, ok := NewService(nil, 0, boom).Lookup(context.Background(), "abc")
	require.True(t, ok)
	assert.Equal(t, "Abc", p.DisplayName)
}

func TestLookupTimeoutBoundsSlowTier(t *testing.T) {
	slow := &stubTier{name: "slow", fn: func(ctx context.Context, _ string) (domain.SocialProfile, error) {
		<-ctx.Done()
		return domain.SocialProfile{}, ctx.Err()
	}}
	start := time.Now()
	p, ok := NewService(nil, 20*time.Millisecond, slow).Lookup(context.Background(), "slowpoke")
	require.True(t, ok)
	assert.Equal(t, "Slowpoke", p.DisplayName)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestChainEmpty(t *testing.T) {
	_, err := NewChain(nil).Resolve(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoTier)
}
