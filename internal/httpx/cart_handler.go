package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pmdelacruz/artifact-market/internal/cart"
	"github.com/pmdelacruz/artifact-market/internal/registry"
)

type CartHandler struct {
	Cart *cart.Service
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{cartID}", h.setQuantity)
	r.Delete("/cart/items/{cartID}", h.removeItem)
}

type cartResponse struct {
	Items       []cart.Line `json:"items"`
	Total       int64       `json:"total"`
	ArtifactIDs []string    `json:"artifactIds"`
}

func (h *CartHandler) respondCart(ctx context.Context, w http.ResponseWriter, sid string) {
	lines, err := h.Cart.Lines(ctx, sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{
		Items:       lines,
		Total:       cart.Total(lines),
		ArtifactIDs: cart.ArtifactIDs(lines),
	})
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	h.respondCart(ctx, w, sessionID(w, r))
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var artifact registry.Artifact
	if err := json.NewDecoder(r.Body).Decode(&artifact); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if artifact.ID == "" || artifact.Name == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	if artifact.Value < 0 {
		writeError(w, http.StatusBadRequest, "value must be non-negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	line, err := h.Cart.Add(ctx, sessionID(w, r), artifact)
	if errors.Is(err, cart.ErrRevoked) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid := sessionID(w, r)
	if err := h.Cart.SetQuantity(ctx, sid, chi.URLParam(r, "cartID"), req.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondCart(ctx, w, sid)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// removing an absent line is still a 204
	if err := h.Cart.Remove(ctx, sessionID(w, r), chi.URLParam(r, "cartID")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
