package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"printshop/m/internal/storefront"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.storefront.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.storefront.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, product)
}

func (h *Handler) quoteCart(w http.ResponseWriter, r *http.Request) {
	var req storefront.CartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	quote, err := h.storefront.QuoteCart(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, quote)
}

func (h *Handler) submitPrintOrder(w http.ResponseWriter, r *http.Request) {
	var req storefront.PrintOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.storefront.SubmitPrintOrder(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, order)
}

func (h *Handler) listPrintOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.storefront.ListPrintOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, orders)
}

func (h *Handler) setPrintOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storefront.SetPrintOrderStatus(r.Context(), id, payload.Status); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "status updated"})
}
