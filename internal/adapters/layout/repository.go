// Package layout provides the file-backed GDS layout repository.
package layout

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/maskworks/strata/internal/domain"
	"github.com/maskworks/strata/internal/gds"
)

// Repository implements the LayoutRepository port on top of the stream
// decoder. Every decode pass opens the file fresh; decoded layouts are
// cached by ID until closed.
type Repository struct {
	mu      sync.RWMutex
	layouts map[string]*domain.Layout
}

// NewRepository creates a new layout repository.
func NewRepository() *Repository {
	return &Repository{
		layouts: make(map[string]*domain.Layout),
	}
}

// Open decodes a GDS file and returns the layout with its summary.
func (r *Repository) Open(_ context.Context, path string) (*domain.Layout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	layoutID := DeriveLayoutID(path)

	if l, ok := r.layouts[layoutID]; ok {
		return l, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.StorageError{
			Operation: "open",
			Key:       path,
			Err:       err,
		}
	}

	sum, err := r.decodeSummary(path)
	if err != nil {
		return nil, err
	}

	polys, err := r.decodePolygons(path)
	if err != nil {
		return nil, err
	}

	l := &domain.Layout{
		ID:       layoutID,
		Name:     layoutID,
		Path:     path,
		Size:     info.Size(),
		Summary:  *sum,
		Polygons: polys,
		LoadedAt: time.Now(),
	}
	r.layouts[layoutID] = l

	return l, nil
}

// Close forgets a decoded layout.
func (r *Repository) Close(_ context.Context, layoutID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.layouts, layoutID)
	return nil
}

// CellNames returns the cell names of a GDS file in stream order. This is
// a single cheap pass that never builds a summary.
func (r *Repository) CellNames(_ context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.StorageError{
			Operation: "open",
			Key:       path,
			Err:       err,
		}
	}
	defer func() { _ = f.Close() }()

	names, err := gds.ReadCellNames(f)
	if err != nil {
		return nil, &domain.DecodeError{Path: path, Err: err}
	}
	return names, nil
}

// Polygons decodes the full polygon geometry of a GDS file.
func (r *Repository) Polygons(_ context.Context, path string) ([]domain.CellPolygons, error) {
	return r.decodePolygons(path)
}

// Export writes a decoded layout to the given path in OASIS format.
func (r *Repository) Export(_ context.Context, layoutID string, path string) error {
	r.mu.RLock()
	_, ok := r.layouts[layoutID]
	r.mu.RUnlock()

	if !ok {
		return domain.ErrLayoutNotFound
	}

	return gds.WriteOASIS(path)
}

func (r *Repository) decodeSummary(path string) (*domain.LibrarySummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.StorageError{
			Operation: "open",
			Key:       path,
			Err:       err,
		}
	}
	defer func() { _ = f.Close() }()

	sum, err := gds.ReadSummary(f)
	if err != nil {
		return nil, &domain.DecodeError{Path: path, Err: err}
	}
	return sum, nil
}

func (r *Repository) decodePolygons(path string) ([]domain.CellPolygons, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.StorageError{
			Operation: "open",
			Key:       path,
			Err:       err,
		}
	}
	defer func() { _ = f.Close() }()

	polys, err := gds.ReadPolygons(f)
	if err != nil {
		return nil, &domain.DecodeError{Path: path, Err: err}
	}
	return polys, nil
}

// DeriveLayoutID derives a layout ID from the file path. It extracts the
// filename without extension as the identifier.
func DeriveLayoutID(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}
