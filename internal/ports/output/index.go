package output

import (
	"context"

	"github.com/maskworks/strata/internal/domain"
)

// LayoutIndex defines the secondary port for the persistent layout
// summary index. The index survives restarts so the catalog can serve
// summaries before the underlying GDS files are re-decoded.
type LayoutIndex interface {
	// Put stores or replaces the indexed summary of a layout.
	Put(ctx context.Context, layout *domain.Layout) error

	// Get returns the indexed layout by ID.
	Get(ctx context.Context, layoutID string) (*domain.Layout, error)

	// Delete removes a layout from the index.
	Delete(ctx context.Context, layoutID string) error

	// List returns all indexed layouts.
	List(ctx context.Context) ([]domain.Layout, error)

	// Close closes the index.
	Close() error
}
