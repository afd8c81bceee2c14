package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pmdelacruz/artifact-market/internal/orders"
)

type OrdersHandler struct {
	Orders *orders.Service
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.list)
	r.Get("/orders/{id}/cancellation", h.previewCancellation)
	r.Delete("/orders/{id}", h.confirmCancellation)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Orders.List(ctx, sessionID(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (h *OrdersHandler) previewCancellation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	preview, err := h.Orders.RequestCancellation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if preview == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *OrdersHandler) confirmCancellation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	receipt, err := h.Orders.ConfirmCancellation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if receipt == nil {
		// cancelling an absent order is a silent no-op
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
