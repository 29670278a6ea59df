package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SILAMEAS/Record-Report/pkg/record"
	"github.com/SILAMEAS/Record-Report/pkg/record/imagehost"
)

// ImageHostHandler handles the image host passthrough endpoints
type ImageHostHandler struct {
	host record.ImageHost
}

func NewImageHostHandler(host record.ImageHost) *ImageHostHandler {
	return &ImageHostHandler{host: host}
}

// Routes returns the router for image host endpoints
func (h *ImageHostHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Delete("/delete", h.Delete)
	return r
}

// UploadImageRequest carries a data-URL-encoded file and an optional folder
type UploadImageRequest struct {
	File   string `json:"file"`
	Folder string `json:"folder,omitempty"`
}

// Upload forwards a signed upload to the image host
func (h *ImageHostHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.File == "" {
		writeError(w, r, http.StatusBadRequest, "No file provided", "")
		return
	}

	image, err := h.host.Upload(r.Context(), req.File, req.Folder)
	if err != nil {
		slog.Error("Image host upload failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Upload failed", remoteDetails(err))
		return
	}

	render.JSON(w, r, image)
}

// DeleteImageRequest identifies the hosted image to destroy
type DeleteImageRequest struct {
	PublicID string `json:"publicId"`
}

// Delete forwards a signed destroy request to the image host. Destroying an
// already-deleted image succeeds.
func (h *ImageHostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.PublicID == "" {
		writeError(w, r, http.StatusBadRequest, "No public ID provided", "")
		return
	}

	if err := h.host.Delete(r.Context(), req.PublicID); err != nil {
		slog.Error("Image host delete failed", "public_id", req.PublicID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Delete failed", remoteDetails(err))
		return
	}

	render.JSON(w, r, map[string]bool{"success": true})
}

func remoteDetails(err error) string {
	var remoteErr *imagehost.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Details
	}
	return err.Error()
}
