package http

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"ethmumbai-maxi/internal/app"
	"ethmumbai-maxi/internal/domain"
	"go.uber.org/zap"
)

// APIHandler serves the read-only REST endpoints.
type APIHandler struct {
	apps   *app.Manager
	banks  app.BankRepository
	bankID string
	log    *zap.Logger
}

func NewAPIHandler(apps *app.Manager, banks app.BankRepository, bankID string, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{apps: apps, banks: banks, bankID: bankID, log: log}
}

type questionDTO struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// Questions lists the bank without option points.
func (h *APIHandler) Questions(w http.ResponseWriter, r *http.Request) {
	bank, err := h.banks.GetBank(r.Context(), h.bankID)
	if err != nil {
		h.log.Error("load bank", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, proxyError{Error: "Failed to load questions"})
		return
	}
	out := make([]questionDTO, 0, len(bank.Questions))
	for _, q := range bank.Questions {
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = o.Text
		}
		out = append(out, questionDTO{ID: q.ID, Prompt: q.Prompt, Options: opts})
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": bank.ID, "questions": out})
}

// CardPNG returns the client's captured result card as an attachment.
func (h *APIHandler) CardPNG(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		writeJSON(w, http.StatusBadRequest, proxyError{Error: "clientId parameter is required"})
		return
	}
	a, err := h.apps.Get(r.Context(), clientID)
	if err != nil {
		h.log.Error("load client", zap.String("client", clientID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, proxyError{Error: "Failed to load client"})
		return
	}
	// unknown or disconnected clients must not stay resident after the request
	defer h.apps.ReleaseIdle(clientID)

	img, name, err := a.CaptureCard(r.Context())
	switch {
	case errors.Is(err, domain.ErrWrongScreen):
		writeJSON(w, http.StatusNotFound, proxyError{Error: "No result card available"})
		return
	case errors.Is(err, domain.ErrBusy):
		writeJSON(w, http.StatusConflict, proxyError{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, proxyError{Error: "Failed to generate image. Please try again."})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", attachment(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(img.PNG)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.PNG)
}

// attachment formats a Content-Disposition value, quoting or RFC 2231
// encoding the file name as needed.
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
