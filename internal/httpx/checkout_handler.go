package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pmdelacruz/artifact-market/internal/cart"
	"github.com/pmdelacruz/artifact-market/internal/checkout"
	"github.com/pmdelacruz/artifact-market/internal/shipping"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Get("/checkout", h.getState)
	r.Put("/checkout/shipping", h.putShipping)
	r.Post("/checkout/order", h.placeOrder)
}

type checkoutStateResponse struct {
	Step     checkout.Step     `json:"step"`
	Items    []cart.Line       `json:"items"`
	Total    int64             `json:"total"`
	Shipping *shipping.Address `json:"shipping,omitempty"`
}

func (h *CheckoutHandler) getState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	step, lines, addr, err := h.Checkout.State(ctx, sessionID(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, checkoutStateResponse{
		Step:     step,
		Items:    lines,
		Total:    cart.Total(lines),
		Shipping: addr,
	})
}

func (h *CheckoutHandler) putShipping(w http.ResponseWriter, r *http.Request) {
	var addr shipping.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Checkout.SaveShipping(ctx, sessionID(w, r), addr)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrIncompleteShipping):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type placeOrderReq struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// generous timeout: the simulated processor sleeps before authorizing
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Checkout.PlaceOrder(ctx, sessionID(w, r), req.PaymentMethod)
	switch {
	case errors.Is(err, checkout.ErrInvalidMethod):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrIncompleteShipping):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, order)
	}
}
