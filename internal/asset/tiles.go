package asset

import (
	"errors"
	"image"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/oxydraw/oxydraw/internal/drawing"
)

// TileDir serves map tiles from a local directory laid out like the tile URI path,
// e.g. 3/4/2.png. Tiles are cached after the first load, missing tiles included.
// A TileDir is safe for concurrent use.
type TileDir struct {
	dir string

	mu      sync.Mutex
	tiles   map[string]image.Image
	loading map[string][]func()
}

var _ drawing.TileProvider = (*TileDir)(nil)

func NewTileDir(dir string) *TileDir {
	return &TileDir{
		dir:     dir,
		tiles:   make(map[string]image.Image),
		loading: make(map[string][]func()),
	}
}

// file maps a tile URI to a file below the tile directory.
func (t *TileDir) file(uri string) (string, bool) {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	p = path.Clean("/" + p)
	if p == "/" || strings.Contains(p, "..") {
		return "", false
	}
	return filepath.Join(t.dir, filepath.FromSlash(strings.TrimPrefix(p, "/"))), true
}

// Tile returns the tile for uri. With async set a tile that is not cached yet is
// loaded in the background, Tile returns nil and ready is called when it is done.
func (t *TileDir) Tile(uri string, async bool, ready func()) image.Image {
	t.mu.Lock()
	if img, ok := t.tiles[uri]; ok {
		t.mu.Unlock()
		return img
	}
	if !async {
		t.mu.Unlock()
		img := t.load(uri)
		t.store(uri, img)
		return img
	}

	waiters, pending := t.loading[uri]
	if ready != nil {
		waiters = append(waiters, ready)
	}
	t.loading[uri] = waiters
	t.mu.Unlock()

	if !pending {
		go func() {
			img := t.load(uri)
			for _, f := range t.store(uri, img) {
				f()
			}
		}()
	}
	return nil
}

// store caches img and returns the callbacks waiting for it.
func (t *TileDir) store(uri string, img image.Image) []func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tiles[uri] = img
	waiters := t.loading[uri]
	delete(t.loading, uri)
	return waiters
}

func (t *TileDir) load(uri string) image.Image {
	name, ok := t.file(uri)
	if !ok {
		return nil
	}
	f, err := os.Open(name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("open tile", "error", err, "uri", uri)
		}
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		slog.Debug("decode tile", "error", err, "uri", uri)
		return nil
	}
	return img
}
