package httpx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pmdelacruz/artifact-market/internal/registry"
)

// RegistryHandler serves the published catalog and the dashboard
// passthrough to the upstream registry.
type RegistryHandler struct {
	Gateway *registry.Gateway
	Client  *registry.Client
}

func (h *RegistryHandler) Register(r *chi.Mux) {
	r.Get("/published", h.listPublished)
	r.Get("/proxy", h.proxyGet)
	r.Post("/proxy", h.proxyPost)
}

type publishedResponse struct {
	Items []registry.Artifact `json:"items"`
	Error string              `json:"error,omitempty"`
}

func (h *RegistryHandler) listPublished(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, errMsg := h.Gateway.ListPublished(ctx, r.Header.Get("x-api-key"))
	items = registry.SearchByName(items, r.URL.Query().Get("q"))

	code := http.StatusOK
	if errMsg == registry.MsgUnreachable {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, publishedResponse{Items: items, Error: errMsg})
}

func (h *RegistryHandler) proxyGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, ok, err := h.Client.FetchFirst(ctx, r.Header.Get("x-api-key"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, registry.MsgUnreachable)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(item))
}

func (h *RegistryHandler) proxyPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	code, resp, err := h.Client.Forward(ctx, r.Header.Get("x-api-key"), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, registry.MsgUnreachable)
		return
	}
	// relay the upstream response untouched
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(resp)
}
