package export

import (
	"bytes"
	"image/gif"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxydraw/oxydraw/internal/asset"
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/geom"
)

func model() *drawing.Model {
	m := drawing.NewModel()
	e := drawing.NewEllipse(geom.Pt(0, 0), 10, 10)
	e.Fill = drawing.Red
	m.Add(e, drawing.NewRectangle(20, 0, 30, 10))
	return m
}

var small = Options{Width: 120, Height: 80, Padding: 5}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, model(), small))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="120"`)
	assert.Contains(t, out, "<ellipse")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, model(), small))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestGIFRaisesFrames(t *testing.T) {
	ex, err := examples.Get("orbit")
	require.NoError(t, err)
	m := ex.Build(examples.Env{}).Model

	var buf bytes.Buffer
	require.NoError(t, GIF(&buf, m, Options{Width: 64, Height: 64, Frames: 4, FPS: 10}))
	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 4)
	assert.Equal(t, []int{10, 10, 10, 10}, anim.Delay)
}

func TestOptionsValidation(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, SVG(&buf, model(), Options{Width: 0, Height: 10}))
	assert.Error(t, PNG(&buf, model(), Options{Width: 10, Height: maxSize + 1}))
	assert.Error(t, PNG(&buf, model(), Options{Width: 10, Height: 10, Padding: -1}))
	assert.Error(t, PNG(&buf, model(), Options{Width: 10, Height: 10, Padding: math.NaN()}))
	assert.Error(t, SVG(&buf, model(), Options{Width: 100, Height: 20, Padding: 10}))
	assert.NoError(t, SVG(&buf, model(), Options{Width: 100, Height: 20, Padding: 9}))
	assert.Error(t, GIF(&buf, model(), Options{Width: 10, Height: 10}))
}

func router(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/examples/{name}.{format}", h.Example).Methods("GET")
	r.HandleFunc("/export/document", h.Document).Methods("POST")
	return r
}

func get(t *testing.T, r http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestExampleFormats(t *testing.T) {
	r := router(NewHandler(examples.Env{}, asset.NewStore(""), small))

	for format, contentType := range map[string]string{
		"svg":  "image/svg+xml",
		"png":  "image/png",
		"json": "application/json",
		"yaml": "application/yaml",
	} {
		rec := get(t, r, "/examples/uml."+format)
		require.Equal(t, http.StatusOK, rec.Code, format)
		assert.Equal(t, contentType, rec.Header().Get("Content-Type"), format)
		assert.NotZero(t, rec.Body.Len(), format)
	}

	rec := get(t, r, "/examples/orbit.gif?frames=2&width=32&height=32")
	require.Equal(t, http.StatusOK, rec.Code)
	anim, err := gif.DecodeAll(rec.Body)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 2)
}

func TestExampleErrors(t *testing.T) {
	r := router(NewHandler(examples.Env{}, nil, small))
	assert.Equal(t, http.StatusNotFound, get(t, r, "/examples/nope.svg").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/examples/uml.bmp").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/examples/uml.png?width=wide").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/examples/uml.png?width=-4").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/examples/uml.png?padding=NaN").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/examples/uml.svg?padding=40").Code)

	// Without an asset store image elements cannot be referenced.
	assert.Equal(t, http.StatusInternalServerError, get(t, r, "/examples/image.json").Code)
}

func TestDocumentRoundTripThroughAssets(t *testing.T) {
	store := asset.NewStore("")
	r := router(NewHandler(examples.Env{}, store, small))

	rec := get(t, r, "/examples/image.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "asset_")

	req := httptest.NewRequest(http.MethodPost, "/export/document?format=png", bytes.NewReader(rec.Body.Bytes()))
	req.Header.Set("Content-Type", "application/json")
	out := httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code, out.Body.String())
	_, err := png.Decode(out.Body)
	require.NoError(t, err)
}

func TestDocumentYAML(t *testing.T) {
	r := router(NewHandler(examples.Env{}, nil, small))

	body := `
name: yaml
elements:
  - kind: rectangle
    min: {x: 0, y: 0}
    max: {x: 10, y: 5}
`
	req := httptest.NewRequest(http.MethodPost, "/export/document", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<rect")
}

func TestDocumentErrors(t *testing.T) {
	r := router(NewHandler(examples.Env{}, nil, small))

	post := func(body, contentType string) int {
		req := httptest.NewRequest(http.MethodPost, "/export/document", strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusBadRequest, post(`{"elements":[{"kind":"blob"}]}`, "application/json"))
	assert.Equal(t, http.StatusBadRequest, post(`not json`, "application/json"))
	assert.Equal(t, http.StatusUnprocessableEntity,
		post(`{"elements":[{"kind":"image","asset":"asset_01h455vb4pex5vsknk084sn02q"}]}`, "application/json"))
}
