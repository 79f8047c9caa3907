package card

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"ethmumbai-maxi/internal/metrics"
	"go.uber.org/zap"
)

// ErrNoTarget is returned when there is no card to capture.
var ErrNoTarget = errors.New("no card to capture")

// CaptureFailedMessage is the alert shown when capture fails.
const CaptureFailedMessage = "Failed to generate image. Please try again."

// Options are handed to the Rasterizer.
type Options struct {
	Background  string
	Scale       float64
	CrossOrigin bool
}

// DefaultOptions match the dark card background at 2x.
func DefaultOptions() Options {
	return Options{Background: "#0f0505", Scale: 2, CrossOrigin: true}
}

// Image is a captured PNG.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// Base64 returns the standard base64 encoding of the PNG bytes.
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.PNG)
}

// DataURL returns the image as a data: URL.
func (i *Image) DataURL() string {
	return "data:image/png;base64," + i.Base64()
}

// Rasterizer turns an element tree into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, root *Element, theme string, opts Options) (*Image, error)
}

// Exporter captures card views.
type Exporter struct {
	raster        Rasterizer
	opts          Options
	settleTimeout time.Duration
	wait          func(ctx context.Context, d time.Duration) error
	log           *zap.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithOptions overrides the rasterizer options.
func WithOptions(o Options) ExporterOption {
	return func(e *Exporter) { e.opts = o }
}

// WithSettleTimeout bounds how long Capture waits for the reveal.
func WithSettleTimeout(d time.Duration) ExporterOption {
	return func(e *Exporter) { e.settleTimeout = d }
}

// WithWait replaces the delay function used while waiting for the reveal.
func WithWait(fn func(ctx context.Context, d time.Duration) error) ExporterOption {
	return func(e *Exporter) { e.wait = fn }
}

func WithExportLogger(l *zap.Logger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

func NewExporter(r Rasterizer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		raster:        r,
		opts:          DefaultOptions(),
		settleTimeout: 2500 * time.Millisecond,
		wait:          sleep,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Capture rasterizes v with animated values at their finals. Every style and
// text change made for the capture is undone before Capture returns.
func (e *Exporter) Capture(ctx context.Context, v *View) (img *Image, err error) {
	if v == nil || v.Root == nil {
		return nil, ErrNoTarget
	}
	if e.raster == nil {
		metrics.CaptureFailures.Inc()
		return nil, errors.New("no rasterizer available")
	}
	e.awaitReveal(ctx, v)

	v.Tick()
	saved := snapshot(v.Root)
	defer restore(saved)

	v.Root.Walk(func(el *Element) {
		el.Style.Transform = "none"
		el.Style.Transition = "none"
		switch el.Role {
		case RoleDisplay:
			el.Text = el.Final
		case RoleDecoration:
			el.Style.Hidden = true
		}
	})

	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("rasterizer panicked: %v", r)
		}
		if err != nil {
			metrics.CaptureFailures.Inc()
			e.log.Error("card capture failed", zap.Error(err))
		}
	}()

	img, err = e.raster.Rasterize(ctx, v.Root, v.Theme, e.opts)
	if err != nil {
		return nil, fmt.Errorf("rasterize card: %w", err)
	}
	return img, nil
}

func (e *Exporter) awaitReveal(ctx context.Context, v *View) {
	if v.Reveal == nil || e.settleTimeout <= 0 {
		return
	}
	deadline := e.settleTimeout
	for !v.Reveal.Settled() && deadline > 0 {
		d := v.Reveal.Remaining()
		if d > deadline {
			d = deadline
		}
		if err := e.wait(ctx, d); err != nil {
			return
		}
		deadline -= d
	}
}
