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

type OrderHandler struct {
	checkoutSvc *services.CheckoutService
	couponSvc   *services.CouponService
	render      *render.Render
}

func NewOrderHandler(checkoutSvc *services.CheckoutService, couponSvc *services.CouponService, render *render.Render) *OrderHandler {
	return &OrderHandler{
		checkoutSvc: checkoutSvc,
		couponSvc:   couponSvc,
		render:      render,
	}
}

const (
	addressOptionUser = "user_address"
	addressOptionNew  = "new_address"
)

type placeOrderRequest struct {
	CouponCode    string                    `json:"coupon_code"`
	Notes         string                    `json:"notes"`
	AddressOption string                    `json:"address_option"`
	NewAddress    *services.ShippingAddress `json:"new_address"`
}

// Preview shows the order as it would be placed: lines, totals, the freight
// estimate with its per-seller route, and the effect of a coupon code if one
// is passed as a query parameter.
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := helpers.UserIDFromContext(r)
	cartID, _ := helpers.CartIDFromContext(r)

	draft, err := h.checkoutSvc.BuildDraft(ctx, userID, cartID)
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			writeError(h.render, w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("OrderHandler.Preview: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to build order preview")
		return
	}

	travel := h.checkoutSvc.EstimateFreight(ctx, draft)

	response := map[string]interface{}{
		"items_total": draft.TotalAmount,
		"total_items": draft.TotalItems,
		"travel":      travel,
		"total":       draft.TotalAmount.Add(travel.TotalFreightCost),
	}

	if code := r.URL.Query().Get("coupon_code"); code != "" {
		couponResult, err := h.couponSvc.ApplyCoupon(ctx, code, userID, draft.TotalAmount.Add(travel.TotalFreightCost))
		if err != nil {
			log.Printf("OrderHandler.Preview: coupon check failed: %v", err)
		} else {
			response["coupon"] = couponResult
			if couponResult.Success {
				response["total"] = draft.TotalAmount.Add(travel.TotalFreightCost).Sub(couponResult.DiscountAmount)
			}
		}
	}

	writeJSON(h.render, w, http.StatusOK, response)
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := helpers.UserIDFromContext(r)
	cartID, _ := helpers.CartIDFromContext(r)

	var req placeOrderRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(h.render, w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var shipping *services.ShippingAddress
	switch req.AddressOption {
	case "", addressOptionUser:
	case addressOptionNew:
		if req.NewAddress == nil {
			writeError(h.render, w, http.StatusBadRequest, "new_address is required when address_option is new_address")
			return
		}
		shipping = req.NewAddress
	default:
		writeError(h.render, w, http.StatusBadRequest, "address_option must be user_address or new_address")
		return
	}

	result, err := h.checkoutSvc.PlaceOrder(ctx, userID, cartID, req.CouponCode, req.Notes, shipping)
	if err != nil {
		h.writeOrderError(w, err, "failed to place order")
		return
	}

	writeJSON(h.render, w, http.StatusCreated, result)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)

	orders, err := h.checkoutSvc.ListOrders(r.Context(), userID)
	if err != nil {
		log.Printf("OrderHandler.ListOrders: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["id"]

	order, err := h.checkoutSvc.GetOrder(r.Context(), orderID, userID)
	if err != nil {
		h.writeOrderError(w, err, "failed to load order")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"order": order})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["id"]

	order, err := h.checkoutSvc.CancelOrder(r.Context(), orderID, userID)
	if err != nil {
		h.writeOrderError(w, err, "failed to cancel order")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"order": order})
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrOrderNotPending),
		errors.Is(err, services.ErrShippingAddressInvalid),
		errors.Is(err, services.ErrCouponNotApplied):
		writeError(h.render, w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrOrderNotFound):
		writeError(h.render, w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrOrderNotOwned):
		writeError(h.render, w, http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrInsufficientStock):
		writeError(h.render, w, http.StatusConflict, err.Error())
	default:
		log.Printf("OrderHandler: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, fallback)
	}
}
