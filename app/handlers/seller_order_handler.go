package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type SellerOrderHandler struct {
	sellerOrderSvc *services.SellerOrderService
	render         *render.Render
}

func NewSellerOrderHandler(sellerOrderSvc *services.SellerOrderService, render *render.Render) *SellerOrderHandler {
	return &SellerOrderHandler{sellerOrderSvc: sellerOrderSvc, render: render}
}

func (h *SellerOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)

	orders, err := h.sellerOrderSvc.ListOrders(r.Context(), sellerID)
	if err != nil {
		log.Printf("SellerOrderHandler.ListOrders: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *SellerOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["id"]

	order, err := h.sellerOrderSvc.GetOrder(r.Context(), orderID, sellerID)
	if err != nil {
		h.writeSellerOrderError(w, err, "failed to load order")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"order": order})
}

// ContinueOrder advances the order lifecycle one step for this seller.
func (h *SellerOrderHandler) ContinueOrder(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["id"]

	order, err := h.sellerOrderSvc.ContinueOrder(r.Context(), orderID, sellerID)
	if err != nil {
		h.writeSellerOrderError(w, err, "failed to advance order")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"order": order})
}

// CancelItems removes this seller's items from the order.
func (h *SellerOrderHandler) CancelItems(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["id"]

	order, err := h.sellerOrderSvc.CancelItems(r.Context(), orderID, sellerID)
	if err != nil {
		h.writeSellerOrderError(w, err, "failed to cancel items")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"order": order})
}

func (h *SellerOrderHandler) writeSellerOrderError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		writeError(h.render, w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotSellerOrder):
		writeError(h.render, w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrOrderNotContinuable), errors.Is(err, services.ErrItemsAlreadyShipped):
		writeError(h.render, w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("SellerOrderHandler: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, fallback)
	}
}
