package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type CouponHandler struct {
	couponSvc  *services.CouponService
	couponRepo repositories.CouponRepository
	render     *render.Render
}

func NewCouponHandler(couponSvc *services.CouponService, couponRepo repositories.CouponRepository, render *render.Render) *CouponHandler {
	return &CouponHandler{
		couponSvc:  couponSvc,
		couponRepo: couponRepo,
		render:     render,
	}
}

type validateCouponRequest struct {
	Code       string          `json:"code"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

type createCouponRequest struct {
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	MinOrderAmount     decimal.Decimal  `json:"min_order_amount"`
	UserID             *string          `json:"user_id"`
	ExpiresAt          *time.Time       `json:"expires_at"`
	Reason             string           `json:"reason"`
}

// Validate checks a code against the caller's session and a hypothetical
// order total, without consuming the coupon.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)

	var req validateCouponRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Code == "" {
		writeError(h.render, w, http.StatusUnprocessableEntity, "code is required")
		return
	}

	result, err := h.couponSvc.ApplyCoupon(r.Context(), req.Code, userID, req.OrderTotal)
	if err != nil {
		log.Printf("CouponHandler.Validate: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to validate coupon")
		return
	}
	writeJSON(h.render, w, http.StatusOK, result)
}

// Mine lists the caller's still-usable coupons.
func (h *CouponHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)

	coupons, err := h.couponSvc.GetUserCoupons(r.Context(), userID)
	if err != nil {
		log.Printf("CouponHandler.Mine: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list coupons")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"coupons": coupons})
}

func (h *CouponHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}

	coupon, err := h.couponSvc.CreateCoupon(r.Context(), services.CreateCouponInput{
		DiscountAmount:     req.DiscountAmount,
		DiscountPercentage: req.DiscountPercentage,
		MinOrderAmount:     req.MinOrderAmount,
		UserID:             req.UserID,
		ExpiresAt:          req.ExpiresAt,
		Reason:             req.Reason,
	})
	if err != nil {
		writeError(h.render, w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(h.render, w, http.StatusCreated, map[string]interface{}{"coupon": coupon})
}

func (h *CouponHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	coupons, total, err := h.couponRepo.ListPaginated(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Printf("CouponHandler.AdminList: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list coupons")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{
		"coupons": coupons,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (h *CouponHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	couponID := mux.Vars(r)["id"]

	coupon, err := h.couponRepo.GetByID(r.Context(), couponID)
	if err != nil {
		log.Printf("CouponHandler.AdminDelete: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to delete coupon")
		return
	}
	if coupon == nil {
		writeError(h.render, w, http.StatusNotFound, "coupon not found")
		return
	}
	if coupon.IsUsed {
		writeError(h.render, w, http.StatusUnprocessableEntity, "used coupons cannot be deleted")
		return
	}

	if err := h.couponRepo.Delete(r.Context(), couponID); err != nil {
		log.Printf("CouponHandler.AdminDelete: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to delete coupon")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]string{"message": "coupon deleted"})
}

func (h *CouponHandler) AdminStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.couponRepo.Statistics(r.Context())
	if err != nil {
		log.Printf("CouponHandler.AdminStatistics: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"statistics": stats})
}
