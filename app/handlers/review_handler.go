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

type ReviewHandler struct {
	reviewSvc *services.ReviewService
	render    *render.Render
}

func NewReviewHandler(reviewSvc *services.ReviewService, render *render.Render) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc, render: render}
}

type postReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

type answerReviewRequest struct {
	Answer string `json:"answer"`
}

func (h *ReviewHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["orderID"]

	var req postReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewSvc.PostReview(r.Context(), userID, orderID, req.Rating, req.Title, req.Comment)
	if err != nil {
		h.writeReviewError(w, err, "failed to post review")
		return
	}
	writeJSON(h.render, w, http.StatusCreated, map[string]interface{}{"review": review})
}

func (h *ReviewHandler) GetOrderReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	orderID := mux.Vars(r)["orderID"]

	review, err := h.reviewSvc.GetOrderReview(r.Context(), userID, orderID)
	if err != nil {
		log.Printf("ReviewHandler.GetOrderReview: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to load review")
		return
	}
	if review == nil {
		writeError(h.render, w, http.StatusNotFound, "review not found")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"review": review})
}

func (h *ReviewHandler) AnswerReview(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)
	reviewID := mux.Vars(r)["id"]

	var req answerReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewSvc.AnswerReview(r.Context(), reviewID, sellerID, req.Answer)
	if err != nil {
		h.writeReviewError(w, err, "failed to answer review")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"review": review})
}

func (h *ReviewHandler) writeReviewError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrReviewNotFound):
		writeError(h.render, w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrOrderNotOwned), errors.Is(err, services.ErrNotSellerOrder):
		writeError(h.render, w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrOrderNotDelivered),
		errors.Is(err, services.ErrReviewExists),
		errors.Is(err, services.ErrReviewAlreadyAnswered),
		errors.Is(err, services.ErrInvalidRating):
		writeError(h.render, w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("ReviewHandler: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, fallback)
	}
}
