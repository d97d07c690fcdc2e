package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CartHandler struct {
	cartSvc *services.CartService
	render  *render.Render
}

func NewCartHandler(cartSvc *services.CartService, render *render.Render) *CartHandler {
	return &CartHandler{cartSvc: cartSvc, render: render}
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := helpers.CartIDFromContext(r)
	if !ok {
		writeError(h.render, w, http.StatusInternalServerError, "no cart session")
		return
	}

	cart, err := h.cartSvc.GetCart(r.Context(), cartID)
	if err != nil {
		log.Printf("CartHandler.GetCart: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"cart": cart})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := helpers.CartIDFromContext(r)
	if !ok {
		writeError(h.render, w, http.StatusInternalServerError, "no cart session")
		return
	}

	var req cartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductID == "" || req.Qty <= 0 {
		writeError(h.render, w, http.StatusUnprocessableEntity, "product_id and a positive qty are required")
		return
	}

	cart, err := h.cartSvc.AddItem(r.Context(), cartID, req.ProductID, req.Qty)
	if err != nil {
		h.writeCartError(w, err, "failed to add item to cart")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"cart": cart})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := helpers.CartIDFromContext(r)
	if !ok {
		writeError(h.render, w, http.StatusInternalServerError, "no cart session")
		return
	}
	productID := mux.Vars(r)["productID"]

	var req cartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}

	cart, err := h.cartSvc.UpdateItemQty(r.Context(), cartID, productID, req.Qty)
	if err != nil {
		h.writeCartError(w, err, "failed to update cart item")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"cart": cart})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := helpers.CartIDFromContext(r)
	if !ok {
		writeError(h.render, w, http.StatusInternalServerError, "no cart session")
		return
	}
	productID := mux.Vars(r)["productID"]

	cart, err := h.cartSvc.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		h.writeCartError(w, err, "failed to remove cart item")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"cart": cart})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := helpers.CartIDFromContext(r)
	if !ok {
		writeError(h.render, w, http.StatusInternalServerError, "no cart session")
		return
	}

	if err := h.cartSvc.ClearCart(r.Context(), cartID); err != nil {
		log.Printf("CartHandler.ClearCart: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrCartItemNotFound):
		writeError(h.render, w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrProductUnavailable), errors.Is(err, repositories.ErrInsufficientStock):
		writeError(h.render, w, http.StatusConflict, err.Error())
	default:
		log.Printf("CartHandler: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, fallback)
	}
}
