package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notificationSvc *services.NotificationService
	render          *render.Render
}

func NewNotificationHandler(notificationSvc *services.NotificationService, render *render.Render) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc, render: render}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.notificationSvc.ListForUser(r.Context(), userID, unreadOnly)
	if err != nil {
		log.Printf("NotificationHandler.List: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	notificationID := mux.Vars(r)["id"]

	if err := h.notificationSvc.MarkRead(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(h.render, w, http.StatusNotFound, "notification not found")
			return
		}
		log.Printf("NotificationHandler.MarkRead: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]string{"message": "notification marked read"})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := helpers.UserIDFromContext(r)
	notificationID := mux.Vars(r)["id"]

	if err := h.notificationSvc.Delete(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(h.render, w, http.StatusNotFound, "notification not found")
			return
		}
		log.Printf("NotificationHandler.Delete: %v", err)
		writeError(h.render, w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	writeJSON(h.render, w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
