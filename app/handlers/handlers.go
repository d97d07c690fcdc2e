package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/unrolled/render"
)

// ErrorResponse is the JSON error envelope every handler returns on failure.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(rnd *render.Render, w http.ResponseWriter, status int, v interface{}) {
	if err := rnd.JSON(w, status, v); err != nil {
		log.Printf("handlers: failed to render JSON response: %v", err)
	}
}

func writeError(rnd *render.Render, w http.ResponseWriter, status int, message string) {
	writeJSON(rnd, w, status, ErrorResponse{Error: message})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
