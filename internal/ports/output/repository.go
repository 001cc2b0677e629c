package output

import (
	"context"

	"github.com/maskworks/strata/internal/domain"
)

// LayoutRepository defines the secondary port for GDS layout decoding.
type LayoutRepository interface {
	// Open decodes a GDS file and returns the layout with its summary.
	Open(ctx context.Context, path string) (*domain.Layout, error)

	// Close releases any resources held for a layout.
	Close(ctx context.Context, layoutID string) error

	// CellNames returns the cell names of a GDS file in stream order
	// without building a full summary.
	CellNames(ctx context.Context, path string) ([]string, error)

	// Polygons decodes the full polygon geometry of a GDS file, grouped
	// per cell.
	Polygons(ctx context.Context, path string) ([]domain.CellPolygons, error)

	// Export writes a layout to the given path in OASIS format.
	Export(ctx context.Context, layoutID string, path string) error
}
