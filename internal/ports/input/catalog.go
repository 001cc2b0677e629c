// Package input defines the primary/driving ports of the application.
package input

import (
	"context"

	"github.com/maskworks/strata/internal/domain"
)

// LayoutCatalog defines the primary port for layout management.
type LayoutCatalog interface {
	// ListLayouts returns all registered layouts.
	ListLayouts(ctx context.Context) ([]domain.Layout, error)

	// GetLayout returns a specific layout by ID.
	GetLayout(ctx context.Context, id string) (*domain.Layout, error)

	// GetLayoutStatus returns the status of a layout.
	GetLayoutStatus(ctx context.Context, id string) (domain.LayoutStatus, error)
}

// CellQueryService defines the primary port for cell queries.
type CellQueryService interface {
	// ListCells returns the cell names of a layout in stream order.
	ListCells(ctx context.Context, layoutID string) ([]string, error)

	// GetCell returns the summary of one cell.
	GetCell(ctx context.Context, layoutID string, cellName string) (*domain.CellSummary, error)

	// GetCellPolygons returns the full polygon geometry of one cell.
	GetCellPolygons(ctx context.Context, layoutID string, cellName string) (*domain.CellPolygons, error)
}

// HealthChecker defines the primary port for health checks.
type HealthChecker interface {
	// IsHealthy returns true if the service is healthy.
	IsHealthy(ctx context.Context) bool

	// IsReady returns true if the service is ready to accept requests.
	IsReady(ctx context.Context) bool

	// GetHealthDetails returns detailed health information.
	GetHealthDetails(ctx context.Context) HealthDetails
}

// HealthDetails contains detailed health information.
type HealthDetails struct {
	Healthy       bool              // Overall health status
	Ready         bool              // Ready to accept requests
	LayoutsLoaded int               // Number of loaded layouts
	LayoutsReady  int               // Number of ready layouts
	Components    map[string]string // Component statuses
}
