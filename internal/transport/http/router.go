package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts every HTTP and websocket route.
func NewRouter(ws *WSHandler, api *APIHandler, proxy *TwitterHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.With(proxyCORS).Method(http.MethodGet, "/twitter-user", proxy)
		r.With(proxyCORS).Method(http.MethodOptions, "/twitter-user", proxy)
		r.Get("/questions", api.Questions)
		r.Get("/card.png", api.CardPNG)
	})
	return r
}
