package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

const defaultPageSize = 12

type ProductHandler struct {
	productRepo repositories.ProductRepository
	render      *render.Render
	validate    *validator.Validate
}

func NewProductHandler(productRepo repositories.ProductRepository, render *render.Render) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		render:      render,
		validate:    validator.New(),
	}
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=100"`
	Status      string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}

	products, total, err := h.productRepo.GetPaginated(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Printf("ProductHandler.List: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list products")
		return
	}

	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	productSlug := mux.Vars(r)["slug"]

	product, err := h.productRepo.GetBySlug(r.Context(), productSlug)
	if err != nil {
		log.Printf("ProductHandler.GetBySlug: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if product == nil {
		writeError(h.render, w, http.StatusNotFound, "product not found")
		return
	}

	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"product": product})
}

// SellerList returns the authenticated seller's own catalog, inactive
// products included.
func (h *ProductHandler) SellerList(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)

	products, err := h.productRepo.GetBySellerID(r.Context(), sellerID)
	if err != nil {
		log.Printf("ProductHandler.SellerList: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			writeJSON(h.render, w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "validation failed",
				Fields: helpers.FormatValidationErrors(validationErrs),
			})
			return
		}
		writeError(h.render, w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		writeError(h.render, w, http.StatusUnprocessableEntity, "price must be positive")
		return
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	product := &models.Product{
		UserID:      sellerID,
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Status:      status,
	}

	if err := h.productRepo.Create(r.Context(), product); err != nil {
		log.Printf("ProductHandler.Create: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(h.render, w, http.StatusCreated, map[string]interface{}{"product": product})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)
	productID := mux.Vars(r)["id"]

	product, err := h.loadOwnProduct(w, r, productID, sellerID)
	if product == nil || err != nil {
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(h.render, w, http.StatusUnprocessableEntity, "validation failed")
		return
	}

	product.Name = req.Name
	product.Slug = slug.Make(req.Name)
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.Category = req.Category
	if req.Status != "" {
		product.Status = req.Status
	}

	if err := h.productRepo.Update(r.Context(), product); err != nil {
		log.Printf("ProductHandler.Update: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID, _ := helpers.UserIDFromContext(r)
	productID := mux.Vars(r)["id"]

	product, err := h.loadOwnProduct(w, r, productID, sellerID)
	if product == nil || err != nil {
		return
	}

	if err := h.productRepo.Delete(r.Context(), productID); err != nil {
		log.Printf("ProductHandler.Delete: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) loadOwnProduct(w http.ResponseWriter, r *http.Request, productID, sellerID string) (*models.Product, error) {
	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err != nil {
		log.Printf("ProductHandler: failed to load product %s: %v", productID, err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to load product")
		return nil, err
	}
	if product == nil {
		writeError(h.render, w, http.StatusNotFound, "product not found")
		return nil, nil
	}
	if product.UserID != sellerID {
		writeError(h.render, w, http.StatusForbidden, "product does not belong to this seller")
		return nil, nil
	}
	return product, nil
}
