package card

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cardWidth   = 350
	cardHeight  = 600
	cardPadding = 20
	borderWidth = 6
	lineHeight  = 16
	avatarSize  = 96
)

var (
	textColor    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	accentColor  = color.RGBA{0xff, 0xd2, 0x00, 0xff}
	borderColors = map[string]color.RGBA{
		"ultra":   {0x62, 0x7e, 0xea, 0xff},
		"default": {0x3a, 0x1e, 0x1e, 0xff},
	}
)

// PNGRasterizer draws the card tree into a PNG with a fixed bitmap font.
// Remote images are fetched only when cross-origin images are allowed.
type PNGRasterizer struct {
	Client *http.Client
}

func (p *PNGRasterizer) Rasterize(ctx context.Context, root *Element, theme string, opts Options) (*Image, error) {
	if root == nil {
		return nil, ErrNoTarget
	}
	bg, err := parseHexColor(opts.Background)
	if err != nil {
		return nil, err
	}
	border, ok := borderColors[theme]
	if !ok {
		border = borderColors["default"]
	}

	base := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(base, base.Bounds(), &image.Uniform{border}, image.Point{}, draw.Src)
	inner := base.Bounds().Inset(borderWidth)
	draw.Draw(base, inner, &image.Uniform{bg}, image.Point{}, draw.Src)

	c := &canvas{dst: base, y: cardPadding + borderWidth, ctx: ctx, client: p.client(), crossOrigin: opts.CrossOrigin}
	c.draw(root)

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h := int(float64(cardWidth)*scale), int(float64(cardHeight)*scale)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Image{PNG: buf.Bytes(), Width: w, Height: h}, nil
}

func (p *PNGRasterizer) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

type canvas struct {
	dst         *image.RGBA
	y           int
	ctx         context.Context
	client      *http.Client
	crossOrigin bool
}

func (c *canvas) draw(e *Element) {
	if e.Style.Hidden {
		return
	}
	switch e.Role {
	case RoleDisplay:
		c.text(e.Text, accentColor)
	case RoleText, RoleDecoration:
		c.text(e.Text, textColor)
	case RoleImage:
		c.image(e.Src)
	}
	for _, child := range e.Children {
		c.draw(child)
	}
}

func (c *canvas) text(s string, col color.Color) {
	if strings.TrimSpace(s) == "" {
		return
	}
	maxChars := (cardWidth - 2*(cardPadding+borderWidth)) / basicfont.Face7x13.Advance
	for _, line := range wrap(s, maxChars) {
		d := &font.Drawer{
			Dst:  c.dst,
			Src:  image.NewUniform(col),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(cardPadding+borderWidth, c.y+basicfont.Face7x13.Ascent),
		}
		d.DrawString(line)
		c.y += lineHeight
	}
	c.y += lineHeight / 2
}

// image draws a remote avatar. A failed fetch leaves the slot empty, the way
// a browser skips an image it may not read.
func (c *canvas) image(src string) {
	if src == "" || !c.crossOrigin {
		return
	}
	img, err := fetchImage(c.ctx, c.client, src)
	if err != nil {
		return
	}
	x := cardPadding + borderWidth
	slot := image.Rect(x, c.y, x+avatarSize, c.y+avatarSize)
	xdraw.BiLinear.Scale(c.dst, slot, img, img.Bounds(), draw.Over, nil)
	c.y += avatarSize + lineHeight/2
}

func fetchImage(ctx context.Context, client *http.Client, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, 4<<20))
	return img, err
}

func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func parseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
