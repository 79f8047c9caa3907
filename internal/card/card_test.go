package card

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ethmumbai-maxi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingRasterizer struct {
	err      error
	seen     map[string]Element
	panicMsg string
}

func (r *recordingRasterizer) Rasterize(_ context.Context, root *Element, _ string, _ Options) (*Image, error) {
	r.seen = map[string]Element{}
	root.Walk(func(e *Element) { r.seen[e.ID] = *e })
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &Image{PNG: []byte("png"), Width: 1, Height: 1}, nil
}

func sampleStats() domain.UserStats {
	return domain.UserStats{Score: 85, TotalQuestions: 10, Answers: make([]int, 10), AITitle: "Vada Pav  Validator", AIDescription: "desc"}
}

func TestRevealCountsUp(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	r := NewReveal(100, clock.Now)
	assert.Equal(t, 0, r.Value())
	assert.False(t, r.Settled())

	clock.Advance(time.Second)
	assert.InDelta(t, 50, r.Value(), 1)

	clock.Advance(time.Second)
	assert.Equal(t, 100, r.Value())
	assert.True(t, r.Settled())
	assert.Zero(t, r.Remaining())
}

func TestCaptureNoTarget(t *testing.T) {
	e := NewExporter(&recordingRasterizer{})
	img, err := e.Capture(context.Background(), nil)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrNoTarget)

	img, err = e.Capture(context.Background(), &View{})
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestCaptureWritesFinalsAndRestores(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	view := Build(sampleStats(), &domain.SocialProfile{Handle: "kash", DisplayName: "Kash"}, NewReveal(85, clock.Now))
	before := snapshot(view.Root)

	raster := &recordingRasterizer{}
	e := NewExporter(raster, WithSettleTimeout(0))
	img, err := e.Capture(context.Background(), view)
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "85", raster.seen["score"].Text)
	assert.Equal(t, "ULTRA", raster.seen["rank"].Text)
	assert.True(t, raster.seen["badge.live"].Style.Hidden)
	assert.Equal(t, "none", raster.seen["card"].Style.Transform)
	assert.Equal(t, "none", raster.seen["card"].Style.Transition)

	assert.Equal(t, before, snapshot(view.Root))
	assert.Equal(t, "0", view.Root.Find("score").Text)
}

func TestCaptureRestoresOnFailure(t *testing.T) {
	for name, raster := range map[string]*recordingRasterizer{
		"error": {err: errors.New("canvas tainted")},
		"panic": {panicMsg: "boom"},
	} {
		t.Run(name, func(t *testing.T) {
			view := Build(sampleStats(), nil, nil)
			before := snapshot(view.Root)

			img, err := NewExporter(raster).Capture(context.Background(), view)
			assert.Nil(t, img)
			assert.Error(t, err)
			assert.Equal(t, before, snapshot(view.Root))
		})
	}
}

func TestCaptureWaitsForReveal(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	view := Build(sampleStats(), nil, NewReveal(85, clock.Now))

	var waited time.Duration
	wait := func(_ context.Context, d time.Duration) error {
		waited += d
		clock.Advance(d)
		return nil
	}
	_, err := NewExporter(&recordingRasterizer{}, WithWait(wait), WithSettleTimeout(5*time.Second)).Capture(context.Background(), view)
	require.NoError(t, err)
	assert.True(t, view.Reveal.Settled())
	assert.Equal(t, 2*time.Second, waited)
}

func TestCaptureWaitIsBounded(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	view := Build(sampleStats(), nil, NewReveal(85, clock.Now))

	var waited time.Duration
	wait := func(_ context.Context, d time.Duration) error {
		waited += d
		clock.Advance(d)
		return nil
	}
	_, err := NewExporter(&recordingRasterizer{}, WithWait(wait), WithSettleTimeout(300*time.Millisecond)).Capture(context.Background(), view)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, waited)
}

func TestFileNameAndShareText(t *testing.T) {
	assert.Equal(t, "ETHMumbai-Maxi-Vada-Pav-Validator.png", FileName("Vada Pav  Validator"))
	assert.Equal(t, "ETHMumbai-Maxi-Card.png", FileName(""))

	text := ShareText(domain.RankUltra, 85)
	assert.Equal(t, "I just checked my ETHMumbai Maxi Status! I'm an ULTRA with a score of 85/100. Check yours at ETHMumbai! #ETHMumbai #Web3 #Ethereum", text)
	assert.Equal(t, "https://twitter.com/intent/tweet?text=I%20just%20checked%20my%20ETHMumbai%20Maxi%20Status%21%20I%27m%20an%20ULTRA%20with%20a%20score%20of%2085%2F100.%20Check%20yours%20at%20ETHMumbai%21%20%23ETHMumbai%20%23Web3%20%23Ethereum", IntentURL(text))
}

type fakeSurface struct {
	share, clipboard bool
	shareErr         error
	clipErr          error
	downloadErr      error

	calls     []string
	downloads []string
	alerts    []string
	opened    []string
}

func (s *fakeSurface) CanShareFiles() bool { return s.share }
func (s *fakeSurface) ShareFiles(context.Context, ShareRequest) error {
	s.calls = append(s.calls, "share")
	return s.shareErr
}
func (s *fakeSurface) CanWriteClipboard() bool { return s.clipboard }
func (s *fakeSurface) WriteClipboard(context.Context, *Image) error {
	s.calls = append(s.calls, "clipboard")
	return s.clipErr
}
func (s *fakeSurface) Download(_ context.Context, name string, _ *Image) error {
	s.calls = append(s.calls, "download")
	s.downloads = append(s.downloads, name)
	return s.downloadErr
}
func (s *fakeSurface) Open(_ context.Context, url string) error {
	s.calls = append(s.calls, "open")
	s.opened = append(s.opened, url)
	return nil
}
func (s *fakeSurface) Alert(_ context.Context, msg string) { s.alerts = append(s.alerts, msg) }

func TestShareFallthrough(t *testing.T) {
	tests := []struct {
		name     string
		surface  *fakeSurface
		calls    []string
		alerts   []string
		download []string
	}{
		{"native", &fakeSurface{share: true, clipboard: true}, []string{"share", "open"}, nil, nil},
		{"native fails to clipboard", &fakeSurface{share: true, shareErr: errors.New("abort"), clipboard: true}, []string{"share", "clipboard", "open"}, []string{ClipboardMessage}, nil},
		{"clipboard fails to download", &fakeSurface{clipboard: true, clipErr: errors.New("denied")}, []string{"clipboard", "download", "open"}, []string{DownloadMessage}, []string{ShareFileName}},
		{"nothing supported", &fakeSurface{}, []string{"download", "open"}, []string{DownloadMessage}, []string{ShareFileName}},
		{"every path fails", &fakeSurface{share: true, shareErr: errors.New("x"), clipboard: true, clipErr: errors.New("y"), downloadErr: errors.New("z")}, []string{"share", "clipboard", "download", "open"}, nil, []string{ShareFileName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := sampleStats()
			err := NewExporter(&recordingRasterizer{}).Share(context.Background(), Build(stats, nil, nil), stats, tt.surface)
			require.NoError(t, err)
			assert.Equal(t, tt.calls, tt.surface.calls)
			assert.Equal(t, tt.alerts, tt.surface.alerts)
			assert.Equal(t, tt.download, tt.surface.downloads)
			require.Len(t, tt.surface.opened, 1)
			assert.Equal(t, IntentURL(ShareText(domain.RankUltra, 85)), tt.surface.opened[0])
		})
	}
}

func TestCaptureFailureAlertsAndAborts(t *testing.T) {
	stats := sampleStats()
	surface := &fakeSurface{share: true}
	e := NewExporter(&recordingRasterizer{err: errors.New("boom")})

	assert.Error(t, e.Share(context.Background(), Build(stats, nil, nil), stats, surface))
	assert.Equal(t, []string{CaptureFailedMessage}, surface.alerts)
	assert.Empty(t, surface.calls)

	surface = &fakeSurface{}
	assert.Error(t, e.Download(context.Background(), Build(stats, nil, nil), stats, surface))
	assert.Equal(t, []string{CaptureFailedMessage}, surface.alerts)
	assert.Empty(t, surface.downloads)
}

func TestDownloadUsesTitle(t *testing.T) {
	stats := sampleStats()
	surface := &fakeSurface{}
	require.NoError(t, NewExporter(&recordingRasterizer{}).Download(context.Background(), Build(stats, nil, nil), stats, surface))
	assert.Equal(t, []string{"ETHMumbai-Maxi-Vada-Pav-Validator.png"}, surface.downloads)
}

func TestPNGRasterizer(t *testing.T) {
	avatar := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{0xff, 0, 0, 0xff}
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			avatar.Set(x, y, red)
		}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, avatar)
	}))
	defer srv.Close()

	root := &Element{ID: "card", Children: []*Element{{ID: "avatar", Role: RoleImage, Src: srv.URL}}}
	r := &PNGRasterizer{Client: srv.Client()}

	img, err := r.Rasterize(context.Background(), root, "ultra", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 700, img.Width)
	assert.Equal(t, 1200, img.Height)
	assert.Contains(t, img.DataURL(), "data:image/png;base64,")

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x62, 0x7e, 0xea, 0xff}, color.RGBAModel.Convert(decoded.At(2, 2)))
	assert.Equal(t, color.RGBA{0x0f, 0x05, 0x05, 0xff}, color.RGBAModel.Convert(decoded.At(350, 1150)))
	assert.Equal(t, red, color.RGBAModel.Convert(decoded.At(120, 120)))
}

func TestPNGRasterizerSkipsRemoteImagesWithoutCrossOrigin(t *testing.T) {
	root := &Element{ID: "card", Children: []*Element{{ID: "avatar", Role: RoleImage, Src: "http://127.0.0.1:1/a.png"}}}
	opts := DefaultOptions()
	opts.CrossOrigin = false
	img, err := (&PNGRasterizer{}).Rasterize(context.Background(), root, "default", opts)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x0f, 0x05, 0x05, 0xff}, color.RGBAModel.Convert(decoded.At(120, 120)))
}

func TestPNGRasterizerRejectsBadColor(t *testing.T) {
	_, err := (&PNGRasterizer{}).Rasterize(context.Background(), &Element{}, "", Options{Background: "nope"})
	assert.Error(t, err)
}
