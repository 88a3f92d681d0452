package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/divinetrims/orderdesk/internal/httpx"
	"github.com/divinetrims/orderdesk/internal/services"
	"github.com/divinetrims/orderdesk/internal/validation"
)

type OrderHandler struct {
	Svc *services.OrderService
}

func NewOrderHandler(svc *services.OrderService) *OrderHandler {
	return &OrderHandler{Svc: svc}
}

func (h *OrderHandler) Register(mux *http.ServeMux, path string) {
	mux.HandleFunc("GET "+path, h.List)
	mux.HandleFunc("POST "+path, h.Create)
	mux.HandleFunc("GET "+path+"/{id}", h.Get)
	mux.HandleFunc("PUT "+path+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+path+"/{id}", h.Delete)
}

// List returns every order fully expanded, newest first. ?q= filters by
// substring over order number, party name and design name.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "order_lookup_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	order, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "order_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	order, err := h.Svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "order_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "order_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *OrderHandler) decodeInput(w http.ResponseWriter, r *http.Request) (services.OrderInput, bool) {
	var in services.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return in, false
	}
	v := validation.Violations{}
	validation.Required("orderNumber", in.OrderNumber, v)
	validation.Required("partyId", in.PartyID, v)
	validation.Required("designId", in.DesignID, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return in, false
	}
	return in, true
}
