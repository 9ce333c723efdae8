package gallery

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oxydraw/oxydraw/internal/geom"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type listResponse struct {
	Default    string     `json:"default"`
	Categories []Category `json:"categories"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{
		Default:    h.service.Default(),
		Categories: h.service.Categories(),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(mux.Vars(r)["name"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HitTest answers GET /examples/{name}/hit?x=&y=&width=&height=&tolerance=.
func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	values := map[string]float64{"width": 800, "height": 600, "tolerance": 4}
	for _, name := range []string{"x", "y", "width", "height", "tolerance"} {
		v := q.Get(name)
		if v == "" {
			if _, ok := values[name]; ok {
				continue
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": name + " is required"})
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
			return
		}
		values[name] = f
	}
	if values["width"] <= 0 || values["height"] <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width and height must be positive"})
		return
	}

	hits, err := h.service.HitTest(mux.Vars(r)["name"], values["width"], values["height"],
		geom.SP(values["x"], values["y"]), values["tolerance"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
