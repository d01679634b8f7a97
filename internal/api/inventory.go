package api

import (
	"net/http"
	"strings"

	"printshop/m/internal/apperr"
	"printshop/m/internal/inventory"
)

type paginatedResponse struct {
	Success    bool                 `json:"success"`
	Data       any                  `json:"data"`
	Pagination inventory.Pagination `json:"pagination"`
}

func pageOpts(r *http.Request) inventory.PageOpts {
	return inventory.PageOpts{
		Page:  intQuery(r, "page", inventory.DefaultPage),
		Limit: intQuery(r, "limit", inventory.DefaultLimit),
	}
}

func sortOpts(r *http.Request) inventory.SortOpts {
	q := r.URL.Query()
	return inventory.SortOpts{Sort: q.Get("sort"), Order: q.Get("order")}
}

func respondPage(w http.ResponseWriter, page inventory.Page) {
	respondJSON(w, http.StatusOK, paginatedResponse{Success: true, Data: page.Items, Pagination: page.Pagination})
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	page, err := h.inventory.List(r.Context(), inventory.ListQuery{Page: pageOpts(r), Sort: sortOpts(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondPage(w, page)
}

func (h *Handler) filterInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minQty, err := floatQuery(r, "min_quantity")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	maxQty, err := floatQuery(r, "max_quantity")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filter := inventory.Filter{
		Provider:        strings.TrimSpace(q.Get("provider")),
		MeasurementUnit: strings.TrimSpace(q.Get("measurement_unit")),
		MinQuantity:     minQty,
		MaxQuantity:     maxQty,
		DateFrom:        strings.TrimSpace(q.Get("date_from")),
		DateTo:          strings.TrimSpace(q.Get("date_to")),
	}
	page, err := h.inventory.List(r.Context(), inventory.ListQuery{Filter: filter, Page: pageOpts(r), Sort: sortOpts(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondPage(w, page)
}

func (h *Handler) searchInventory(w http.ResponseWriter, r *http.Request) {
	query := inventory.ListQuery{
		Filter: inventory.Filter{Search: r.URL.Query().Get("q")},
		Page:   pageOpts(r),
		Sort:   sortOpts(r),
	}
	page, err := h.inventory.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondPage(w, page)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := h.inventory.LowStockThreshold()
	v, err := floatQuery(r, "threshold")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if v != nil {
		if *v <= 0 {
			h.fail(w, r, apperr.Invalid("threshold must be a positive number"))
			return
		}
		threshold = *v
	}
	items, err := h.inventory.LowStock(r.Context(), threshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": items, "count": len(items), "threshold": threshold})
}

func (h *Handler) inventoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventory.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

func (h *Handler) createInventory(w http.ResponseWriter, r *http.Request) {
	var req inventory.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.inventory.Create(r.Context(), req, callerID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, item)
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.inventory.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, item)
}

func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.inventory.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "inventory item deleted"})
}

type quantityRequest struct {
	Quantity  *float64 `json:"quantity"`
	Operation string   `json:"operation"`
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.inventory.AdjustQuantity(r.Context(), id, req.Quantity, req.Operation, callerID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, item)
}

type batchRequest struct {
	Items []inventory.BatchItem `json:"items"`
}

func (h *Handler) batchUpdate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := h.inventory.BatchAdjust(r.Context(), req.Items, callerID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "updated": len(items), "data": items})
}

func (h *Handler) inventoryHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	history, err := h.inventory.History(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, http.StatusOK, history)
}
