package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/oxydraw/oxydraw/internal/asset"
	"github.com/oxydraw/oxydraw/internal/document"
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/examples"
)

const maxDocumentSize = 4 << 20 // 4MB

type Handler struct {
	env      examples.Env
	assets   *asset.Store
	defaults Options
}

// NewHandler serves exports of examples and uploaded documents. assets may be nil, in
// which case documents with images cannot be exported or loaded.
func NewHandler(env examples.Env, assets *asset.Store, defaults Options) *Handler {
	if defaults.Frames == 0 {
		defaults.Frames = 48
	}
	if defaults.FPS == 0 {
		defaults.FPS = 24
	}
	return &Handler{env: env, assets: assets, defaults: defaults}
}

// options reads width, height, padding, frames and fps from the query string.
func (h *Handler) options(r *http.Request) (Options, error) {
	o := h.defaults
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"width", &o.Width}, {"height", &o.Height}, {"frames", &o.Frames}, {"fps", &o.FPS}} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return o, fmt.Errorf("invalid %s %q", p.name, v)
			}
			*p.dst = n
		}
	}
	if v := q.Get("padding"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return o, fmt.Errorf("invalid padding %q", v)
		}
		o.Padding = f
	}
	return o, o.validate()
}

// Example renders the example named in the path as svg, png, gif, json or yaml.
func (h *Handler) Example(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ex, err := examples.Get(vars["name"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	opts, err := h.options(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.write(w, ex.Name, ex.Build(h.env).Model, vars["format"], opts)
}

// Document renders a JSON or YAML document posted in the body. The format query
// parameter selects the output and defaults to svg.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)

	opts, err := h.options(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}

	load := document.LoadJSON
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); strings.Contains(mediaType, "yaml") {
		load = document.LoadYAML
	}
	dopts := document.Options{Tiles: h.env.Tiles}
	if h.assets != nil {
		dopts.Assets = h.assets
	}
	m, err := load(r.Body, dopts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, document.ErrMissingAsset) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	h.write(w, "document", m, format, opts)
}

func (h *Handler) write(w http.ResponseWriter, name string, m *drawing.Model, format string, opts Options) {
	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case "svg":
		contentType = "image/svg+xml"
		err = SVG(&buf, m, opts)
	case "png":
		contentType = "image/png"
		err = PNG(&buf, m, opts)
	case "gif":
		contentType = "image/gif"
		err = GIF(&buf, m, opts)
	case "json", "yaml":
		contentType = "application/" + format
		err = h.encodeDocument(&buf, name, m, format)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid format: must be svg, png, gif, json or yaml"})
		return
	}
	if err != nil {
		slog.Error("export failed", "name", name, "format", format, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.%s"`, name, format))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		slog.Debug("write export", "error", err)
	}
}

// encodeDocument registers unnamed images with the asset store so they can be
// referenced from the document.
func (h *Handler) encodeDocument(w io.Writer, name string, m *drawing.Model, format string) error {
	if h.assets != nil {
		for _, e := range m.Elements() {
			if img, ok := e.(*drawing.Image); ok && img.AssetID == "" {
				img.AssetID = h.assets.IDOf(img.Source)
			}
		}
	}
	doc, err := document.FromModel(name, m)
	if err != nil {
		return err
	}
	var data []byte
	if format == "yaml" {
		data, err = doc.YAML()
	} else {
		data, err = doc.JSON()
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
