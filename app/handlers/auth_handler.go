package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	userRepo     repositories.UserRepository
	addressSvc   *services.AddressValidationService
	sessionStore sessions.SessionStore
	render       *render.Render
	validate     *validator.Validate
}

func NewAuthHandler(
	userRepo repositories.UserRepository,
	addressSvc *services.AddressValidationService,
	sessionStore sessions.SessionStore,
	render *render.Render,
) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		addressSvc:   addressSvc,
		sessionStore: sessionStore,
		render:       render,
		validate:     validator.New(),
	}
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=20"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"omitempty,oneof=customer seller"`

	Street  string `json:"street" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zip_code" validate:"max=20"`
	Country string `json:"country" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
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

	existing, err := h.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("AuthHandler.Register: failed to check email %s: %v", req.Email, err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to register")
		return
	}
	if existing != nil {
		writeError(h.render, w, http.StatusConflict, "email is already registered")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  helpers.HashPassword(req.Password),
		Role:      role,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
	}

	validation := h.addressSvc.Validate(ctx, user)
	if !validation.Valid {
		writeJSON(h.render, w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "address validation failed",
			"validation": validation,
		})
		return
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("AuthHandler.Register: failed to create user: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to register")
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("AuthHandler.Register: failed to start session for user %s: %v", user.ID, err)
	}

	writeJSON(h.render, w, http.StatusCreated, map[string]interface{}{
		"user":       user,
		"validation": validation,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(h.render, w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	user, err := h.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("AuthHandler.Login: failed to load user %s: %v", req.Email, err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(req.Password)) {
		writeError(h.render, w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("AuthHandler.Login: failed to start session for user %s: %v", user.ID, err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("AuthHandler.Logout: failed to clear session: %v", err)
	}
	writeJSON(h.render, w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ValidateAddress lets a client pre-check an address without registering.
func (h *AuthHandler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.render, w, http.StatusBadRequest, err.Error())
		return
	}

	user := &models.User{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}
	writeJSON(h.render, w, http.StatusOK, h.addressSvc.Validate(r.Context(), user))
}
