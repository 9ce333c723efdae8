// Package asset stores the raster images used by image elements and tile layers.
package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/oxydraw/oxydraw/internal/typeid"
)

var ErrNotFound = errors.New("asset not found")

// Store keeps images by asset ID. Images added with Put are saved as PNG files in
// the store directory; images registered with IDOf live in memory only.
// A Store is safe for concurrent use.
type Store struct {
	dir string

	mu     sync.RWMutex
	images map[string]image.Image
	ids    map[image.Image]string
}

// NewStore creates a store that keeps files in dir. An empty dir keeps everything
// in memory.
func NewStore(dir string) *Store {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("create asset dir", "error", err, "dir", dir)
		}
	}
	return &Store{
		dir:    dir,
		images: make(map[string]image.Image),
		ids:    make(map[image.Image]string),
	}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".png")
}

// Put saves img and returns its new asset ID.
func (s *Store) Put(img image.Image) (string, error) {
	id := typeid.NewAssetID()
	if s.dir != "" {
		if err := writePNG(s.path(id), img); err != nil {
			return "", err
		}
	}
	s.remember(id, img)
	return id, nil
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create asset file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

func (s *Store) remember(id string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[id] = img
	if hashable(img) {
		s.ids[img] = id
	}
}

// hashable reports whether img can be used as a map key.
func hashable(img image.Image) bool {
	return img != nil && reflect.TypeOf(img).Comparable()
}

// Image returns the image with the given ID, loading it from disk if needed.
func (s *Store) Image(id string) (image.Image, error) {
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.RLock()
	img, ok := s.images[id]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}
	if s.dir == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	f, err := os.Open(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	img, _, err = image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", id, err)
	}
	s.remember(id, img)
	return img, nil
}

// IDOf returns the asset ID of img, registering it in memory when it has none.
// It returns "" for nil images and images that cannot be identified.
func (s *Store) IDOf(img image.Image) string {
	if !hashable(img) {
		return ""
	}
	s.mu.RLock()
	id, ok := s.ids[img]
	s.mu.RUnlock()
	if ok {
		return id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[img]; ok {
		return id
	}
	id = typeid.NewAssetID()
	s.images[id] = img
	s.ids[img] = id
	return id
}

// Delete removes an asset from memory and disk.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	img, cached := s.images[id]
	delete(s.images, id)
	if hashable(img) {
		delete(s.ids, img)
	}
	s.mu.Unlock()

	if s.dir != "" {
		err := os.Remove(s.path(id))
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove asset: %w", err)
		}
	}
	if cached {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
