package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

const maxUploadMemory = 32 << 20 // 32 MB

// ContentHandler handles the record CRUD API endpoints
type ContentHandler struct {
	service record.Service
}

func NewContentHandler(service record.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the router for content endpoints
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListRecords)
	r.Post("/", h.CreateRecord)
	r.Get("/{id}", h.GetRecord)
	r.Put("/{id}", h.UpdateRecord)
	r.Delete("/{id}", h.DeleteRecord)
	return r
}

// ListRecords returns one page of records ordered by creation time descending
func (h *ContentHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	req := record.ListRecordsRequest{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", record.DefaultListLimit),
		Search: r.URL.Query().Get("search"),
	}

	page, err := h.service.ListRecords(r.Context(), req)
	if err != nil {
		slog.Error("Failed to list records", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list records", "")
		return
	}

	render.JSON(w, r, page)
}

// GetRecord returns a single record
func (h *ContentHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrRecordNotFound) {
			writeError(w, r, http.StatusNotFound, "Record not found", "")
			return
		}
		slog.Error("Failed to get record", "record_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to get record", "")
		return
	}

	render.JSON(w, r, rec)
}

// CreateRecord creates a record from a multipart form. Image upload failures
// surface as warnings on a 200 response, not as request failures.
func (h *ContentHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid multipart form", "")
		return
	}

	req := record.CreateRecordRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if req.Title == "" || req.Description == "" {
		writeError(w, r, http.StatusBadRequest, "Title and description are required", "")
		return
	}

	var err error
	if req.MainImage, err = formImage(r, "main_image"); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid main image", "")
		return
	}
	if req.Thumbnail, err = formImage(r, "thumbnail"); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid thumbnail", "")
		return
	}

	result, err := h.service.CreateRecord(r.Context(), req)
	if err != nil {
		if errors.Is(err, record.ErrMissingRequiredField) {
			writeError(w, r, http.StatusBadRequest, "Title and description are required", "")
			return
		}
		slog.Error("Failed to create record", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to create record", err.Error())
		return
	}

	slog.Info("Record created", "record_id", result.Record.ID, "warnings", len(result.Warnings))
	render.JSON(w, r, result)
}

// UpdateRecord updates a record from a multipart form, swapping image
// attachments when new files are supplied
func (h *ContentHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid multipart form", "")
		return
	}

	req := record.UpdateRecordRequest{
		Title:             r.FormValue("title"),
		Description:       r.FormValue("description"),
		ExistingMainImage: formValue(r, "existing_main_image"),
		ExistingThumbnail: formValue(r, "existing_thumbnail"),
	}
	if req.Title == "" || req.Description == "" {
		writeError(w, r, http.StatusBadRequest, "Title and description are required", "")
		return
	}

	var err error
	if req.MainImage, err = formImage(r, "main_image"); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid main image", "")
		return
	}
	if req.Thumbnail, err = formImage(r, "thumbnail"); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid thumbnail", "")
		return
	}

	result, err := h.service.UpdateRecord(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, record.ErrRecordNotFound):
			writeError(w, r, http.StatusNotFound, "Record not found", "")
		case errors.Is(err, record.ErrMissingRequiredField):
			writeError(w, r, http.StatusBadRequest, "Title and description are required", "")
		default:
			slog.Error("Failed to update record", "record_id", id, "error", err)
			writeError(w, r, http.StatusInternalServerError, "Failed to update record", err.Error())
		}
		return
	}

	slog.Info("Record updated", "record_id", id, "warnings", len(result.Warnings))
	render.JSON(w, r, result)
}

// DeleteRecord removes a record and best-effort deletes its stored images
func (h *ContentHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRecord(r.Context(), id); err != nil {
		if errors.Is(err, record.ErrRecordNotFound) {
			writeError(w, r, http.StatusNotFound, "Record not found", "")
			return
		}
		slog.Error("Failed to delete record", "record_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to delete record", err.Error())
		return
	}

	slog.Info("Record deleted", "record_id", id)
	render.JSON(w, r, map[string]bool{"success": true})
}

func recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid record ID", "")
		return uuid.Nil, false
	}
	return id, true
}

// formImage reads one optional image file from the multipart form. A missing
// or empty file yields nil.
func formImage(r *http.Request, field string) (*record.ImageUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &record.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formValue distinguishes an absent form field (nil) from a present one, so
// clients can clear an image slot by omitting the field.
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return defaultValue
	}
	return value
}
