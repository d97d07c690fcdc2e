package handlers

import (
	"log"
	"net/http"

	"github.com/TekNegr/Projet-Ecommerce/app/services"
	"github.com/unrolled/render"
)

// AIHandler exposes the health of the external satisfaction-prediction API.
type AIHandler struct {
	predictions services.PredictionClient
	render      *render.Render
}

func NewAIHandler(predictions services.PredictionClient, render *render.Render) *AIHandler {
	return &AIHandler{predictions: predictions, render: render}
}

func (h *AIHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.predictions == nil {
		writeJSON(h.render, w, http.StatusOK, map[string]interface{}{
			"configured": false,
			"healthy":    false,
		})
		return
	}

	if err := h.predictions.Health(r.Context()); err != nil {
		log.Printf("AIHandler.Health: %v", err)
		writeJSON(h.render, w, http.StatusServiceUnavailable, map[string]interface{}{
			"configured": true,
			"healthy":    false,
			"error":      err.Error(),
		})
		return
	}

	writeJSON(h.render, w, http.StatusOK, map[string]interface{}{
		"configured": true,
		"healthy":    true,
	})
}
