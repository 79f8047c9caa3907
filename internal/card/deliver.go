package card

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/metrics"
	"go.uber.org/zap"
)

const (
	// ShareFileName is used for every share-path delivery.
	ShareFileName = "ethmumbai-maxi.png"
	shareTitle    = "ETHMumbai Maxi Card"
	intentBase    = "https://twitter.com/intent/tweet?text="

	ClipboardMessage = "Card image copied to clipboard! Paste (Ctrl+V) it in your tweet."
	DownloadMessage  = "Card image downloaded. Please attach it to your tweet!"
)

// ShareRequest is what a native share sheet receives.
type ShareRequest struct {
	Title    string
	Text     string
	FileName string
	Image    *Image
}

// Surface is the client the card is delivered to. Capability checks decide
// which share paths are attempted.
type Surface interface {
	CanShareFiles() bool
	ShareFiles(ctx context.Context, req ShareRequest) error
	CanWriteClipboard() bool
	WriteClipboard(ctx context.Context, img *Image) error
	Download(ctx context.Context, fileName string, img *Image) error
	Open(ctx context.Context, url string) error
	Alert(ctx context.Context, message string)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName is the download name for a card with the given synthesized title.
func FileName(title string) string {
	if title == "" {
		return "ETHMumbai-Maxi-Card.png"
	}
	return "ETHMumbai-Maxi-" + whitespace.ReplaceAllString(title, "-") + ".png"
}

// ShareText is the pre-filled post for a score.
func ShareText(rank domain.Rank, score int) string {
	return fmt.Sprintf("I just checked my ETHMumbai Maxi Status! I'm an %s with a score of %d/100. Check yours at ETHMumbai! #ETHMumbai #Web3 #Ethereum",
		rank.Code(), score)
}

// IntentURL is the compose-post URL carrying text, with spaces as %20.
func IntentURL(text string) string {
	return intentBase + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Download captures v and hands it to s as a file named after the title.
func (e *Exporter) Download(ctx context.Context, v *View, stats domain.UserStats, s Surface) error {
	img, err := e.Capture(ctx, v)
	if err != nil {
		s.Alert(ctx, CaptureFailedMessage)
		return err
	}
	if err := s.Download(ctx, FileName(stats.AITitle), img); err != nil {
		return fmt.Errorf("deliver download: %w", err)
	}
	metrics.CardExports.WithLabelValues("download", "download").Inc()
	return nil
}

// Share captures v, delivers the image by the first working path (native
// share, clipboard, download) and then always opens the compose intent.
func (e *Exporter) Share(ctx context.Context, v *View, stats domain.UserStats, s Surface) error {
	img, err := e.Capture(ctx, v)
	if err != nil {
		s.Alert(ctx, CaptureFailedMessage)
		return err
	}
	text := ShareText(v.Rank, stats.Score)

	method := e.deliverShare(ctx, img, text, s)
	metrics.CardExports.WithLabelValues("share", method).Inc()

	return s.Open(ctx, IntentURL(text))
}

func (e *Exporter) deliverShare(ctx context.Context, img *Image, text string, s Surface) string {
	if s.CanShareFiles() {
		err := s.ShareFiles(ctx, ShareRequest{Title: shareTitle, Text: text, FileName: ShareFileName, Image: img})
		if err == nil {
			return "native"
		}
		e.log.Warn("native share failed", zap.Error(err))
	}
	if s.CanWriteClipboard() {
		err := s.WriteClipboard(ctx, img)
		if err == nil {
			s.Alert(ctx, ClipboardMessage)
			return "clipboard"
		}
		e.log.Warn("clipboard write failed", zap.Error(err))
	}
	if err := s.Download(ctx, ShareFileName, img); err != nil {
		e.log.Warn("share download failed", zap.Error(err))
		return "none"
	}
	s.Alert(ctx, DownloadMessage)
	return "download"
}
