package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrorResponse is the JSON body returned for all handler-level failures
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message, details string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Message: message, Details: details})
}
