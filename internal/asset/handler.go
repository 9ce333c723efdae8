package asset

import (
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const maxUploadSize = 10 << 20 // 10MB

var supportedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/bmp", "image/tiff", "image/webp"}

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func supported(contentType string) bool {
	for _, t := range supportedTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// Upload handles POST /assets/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !supported(header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image: "+err.Error())
		return
	}

	id, err := h.store.Put(img)
	if err != nil {
		slog.Error("save asset", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save file")
		return
	}

	bounds := img.Bounds()
	writeJSON(w, http.StatusOK, UploadResponse{
		ID:     id,
		URL:    "/assets/" + id + ".png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Name:   header.Filename,
	})
}

// Get handles GET /assets/{id}.png.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	img, err := h.store.Image(id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	if err != nil {
		slog.Error("load asset", "error", err, "asset", id)
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	// Asset IDs are unique, so assets are immutable
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		slog.Debug("write asset", "error", err, "asset", id)
	}
}

// Delete handles DELETE /assets/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		slog.Error("delete asset", "error", err, "asset", id)
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
