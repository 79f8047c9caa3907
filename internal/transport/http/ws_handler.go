package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"ethmumbai-maxi/internal/app"
	"ethmumbai-maxi/internal/card"
	"ethmumbai-maxi/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	apps     *app.Manager
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(apps *app.Manager, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		apps: apps,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type handlePayload struct {
	Handle string `json:"handle"`
}

type selectPayload struct {
	Index int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type helloPayload struct {
	ClientID string `json:"clientId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type downloadPayload struct {
	FileName string `json:"fileName"`
	DataURL  string `json:"dataUrl"`
}

type sharePayload struct {
	FileName string `json:"fileName"`
	DataURL  string `json:"dataUrl"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

type clipboardPayload struct {
	DataURL string `json:"dataUrl"`
}

type openPayload struct {
	URL string `json:"url"`
}

// ServeWS upgrades the request and binds the connection to the client's App.
// Query: clientId (generated when absent), share=1 and clipboard=1 advertise
// the browser's native share and clipboard image support.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID := q.Get("clientId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	a, updates, cancel, err := h.apps.Subscribe(r.Context(), clientID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	metrics.ActiveClients.Inc()
	defer metrics.ActiveClients.Dec()
	log := h.log.With(zap.String("client", clientID))

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var work sync.WaitGroup

	emit := func(typ string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
		case <-closeSignals:
		}
	}
	surface := &wsSurface{emit: emit, share: q.Get("share") == "1", clipboard: q.Get("clipboard") == "1"}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	emit("hello", helloPayload{ClientID: clientID})

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				emit("state", snap)
			case <-closeSignals:
				return
			}
		}
	}()

	// async runs slow operations off the read loop so other messages are
	// still answered, with ErrBusy where a gate applies.
	async := func(fn func(ctx context.Context) error) {
		work.Add(1)
		go func() {
			defer work.Done()
			if err := fn(context.WithoutCancel(r.Context())); err != nil {
				emit("error", errorPayload{Message: err.Error()})
			}
		}()
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var opErr error
		switch inbound.Type {
		case "handle":
			var payload handlePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				opErr = errInvalidPayload
				break
			}
			async(func(ctx context.Context) error { return a.SubmitHandle(ctx, payload.Handle) })
		case "start":
			opErr = a.Start()
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				opErr = errInvalidPayload
				break
			}
			opErr = a.SelectOption(payload.Index)
		case "advance":
			opErr = a.Advance()
		case "reset":
			a.Reset()
		case "home":
			a.GoHome()
		case "download":
			async(func(ctx context.Context) error { return a.Download(ctx, surface) })
		case "share":
			async(func(ctx context.Context) error { return a.Share(ctx, surface) })
		default:
			opErr = errUnsupported
		}
		if opErr != nil {
			emit("error", errorPayload{Message: opErr.Error()})
		}
	}

	close(closeSignals)
	<-updatesDone
	work.Wait()
	close(send)
	<-writerDone
}

// wsSurface delivers card exports as messages the browser acts on.
type wsSurface struct {
	emit      func(typ string, payload any)
	share     bool
	clipboard bool
}

func (s *wsSurface) CanShareFiles() bool { return s.share }

func (s *wsSurface) ShareFiles(_ context.Context, req card.ShareRequest) error {
	s.emit("share.native", sharePayload{FileName: req.FileName, DataURL: req.Image.DataURL(), Title: req.Title, Text: req.Text})
	return nil
}

func (s *wsSurface) CanWriteClipboard() bool { return s.clipboard }

func (s *wsSurface) WriteClipboard(_ context.Context, img *card.Image) error {
	s.emit("clipboard", clipboardPayload{DataURL: img.DataURL()})
	return nil
}

func (s *wsSurface) Download(_ context.Context, fileName string, img *card.Image) error {
	s.emit("download", downloadPayload{FileName: fileName, DataURL: img.DataURL()})
	return nil
}

func (s *wsSurface) Open(_ context.Context, url string) error {
	s.emit("open", openPayload{URL: url})
	return nil
}

func (s *wsSurface) Alert(_ context.Context, message string) {
	s.emit("alert", errorPayload{Message: message})
}
